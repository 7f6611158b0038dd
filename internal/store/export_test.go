package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ResetForTest empties the backing table or collection of s.
func ResetForTest(ctx context.Context, s Store) error {
	switch v := s.(type) {
	case *sqlStore:
		_, err := v.db.ExecContext(ctx, `DELETE FROM novels`)
		return err
	case *MongoStore:
		_, err := v.coll.DeleteMany(ctx, bson.D{})
		return err
	case *MemoryStore:
		return nil
	}
	return fmt.Errorf("unsupported store %T", s)
}
