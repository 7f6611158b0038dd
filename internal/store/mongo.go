package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/dmitrijs2005/novelshelf/internal/timex"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// casAttempts bounds the compare-and-set retries of UpdateCoverPath.
const casAttempts = 3

var errCoverConflict = errors.New("concurrent update of novel")

// mongoNovel is the document layout of the novels collection. Timestamps are
// ISO-8601 strings; documents written by other tools may use a different
// fraction width or omit them.
type mongoNovel struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"novel_title"`
	Author         string             `bson:"author"`
	Genre          string             `bson:"genre"`
	Description    string             `bson:"description"`
	CoverImagePath string             `bson:"cover_image_path"`
	CreatedAt      string             `bson:"created_at"`
	UpdatedAt      string             `bson:"updated_at"`
}

func toMongoNovel(n models.Novel) mongoNovel {
	return mongoNovel{
		Title:          n.Title,
		Author:         n.Author,
		Genre:          n.Genre,
		Description:    n.Description,
		CoverImagePath: n.CoverImagePath,
		CreatedAt:      timex.FormatStamp(n.CreatedAt),
		UpdatedAt:      timex.FormatStamp(n.UpdatedAt),
	}
}

// toModel converts a document. Unparseable timestamps become the zero time.
func (d mongoNovel) toModel() models.Novel {
	created, _ := timex.ParseStamp(d.CreatedAt)
	updated, _ := timex.ParseStamp(d.UpdatedAt)
	return models.Novel{
		ID:             d.ID.Hex(),
		Title:          d.Title,
		Author:         d.Author,
		Genre:          d.Genre,
		Description:    d.Description,
		CoverImagePath: d.CoverImagePath,
		CreatedAt:      created,
		UpdatedAt:      updated,
	}
}

var _ Store = (*MongoStore)(nil)

// MongoStore keeps novels in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	opts   options
}

// OpenMongo connects to uri, pings the primary and ensures the listing index
// on the database/collection pair.
func OpenMongo(ctx context.Context, uri, database, collection string, opts ...Option) (Store, error) {
	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(uri))
	if err != nil {
		return nil, unavailable("connect mongo", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable("ping mongo", err)
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, unavailable("create mongo index", err)
	}

	return &MongoStore{client: client, coll: coll, opts: buildOptions(opts)}, nil
}

// ListAll reads documents in _id order and sorts them by parsed UpdatedAt,
// since stored strings of mixed fraction width do not sort as text.
func (s *MongoStore) ListAll(ctx context.Context) ([]models.Novel, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, mongoopts.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, unavailable("list novels", err)
	}
	defer cur.Close(ctx)

	var docs []mongoNovel
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("list novels", err)
	}

	result := make([]models.Novel, len(docs))
	for i, d := range docs {
		result[i] = d.toModel()
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})
	return result, nil
}

func (s *MongoStore) Create(ctx context.Context, draft models.Novel) (*models.Novel, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}
	draft.ApplyDefaults(s.opts.now())

	res, err := s.coll.InsertOne(ctx, toMongoNovel(draft))
	if err != nil {
		return nil, unavailable("insert novel", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, unavailable("insert novel", fmt.Errorf("unexpected id type %T", res.InsertedID))
	}
	draft.ID = oid.Hex()
	return &draft, nil
}

// Delete ignores ids that are not valid ObjectIDs; no such document can exist.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return unavailable("delete novel", err)
	}
	return nil
}

// UpdateCoverPath retries a compare-and-set on the stored updated_at string
// so that a concurrent writer is never overwritten.
func (s *MongoStore) UpdateCoverPath(ctx context.Context, id, newPath string) (*models.Novel, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, notFound(id)
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		var doc mongoNovel
		err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound(id)
		}
		if err != nil {
			return nil, unavailable("update cover", err)
		}

		n := doc.toModel()
		n.CoverImagePath = newPath
		n.Touch(s.opts.now())
		stamp := timex.FormatStamp(n.UpdatedAt)

		res, err := s.coll.UpdateOne(ctx,
			bson.M{"_id": oid, "updated_at": priorStamp(doc.UpdatedAt)},
			bson.M{"$set": bson.M{"cover_image_path": newPath, "updated_at": stamp}},
		)
		if err != nil {
			return nil, unavailable("update cover", err)
		}
		if res.MatchedCount == 1 {
			return &n, nil
		}
	}
	return nil, unavailable("update cover", fmt.Errorf("%w %s", errCoverConflict, id))
}

// priorStamp matches a missing or null updated_at when the decoded value
// was empty.
func priorStamp(raw string) any {
	if raw == "" {
		return bson.M{"$in": bson.A{nil, ""}}
	}
	return raw
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
