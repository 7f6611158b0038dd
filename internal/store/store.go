package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/config"
	"github.com/dmitrijs2005/novelshelf/internal/filex"
	"github.com/dmitrijs2005/novelshelf/internal/models"
)

// Store describes the durable operations on novel records.
type Store interface {
	// ListAll returns every persisted novel, most recently updated first.
	ListAll(ctx context.Context) ([]models.Novel, error)

	// Create persists a draft and returns the stored record with its
	// assigned ID and timestamps. Titles need not be unique.
	Create(ctx context.Context, draft models.Novel) (*models.Novel, error)

	// Delete removes the record with the given id. Deleting an id that does
	// not exist succeeds.
	Delete(ctx context.Context, id string) error

	// UpdateCoverPath sets the cover path of one record and refreshes its
	// UpdatedAt. It returns common.ErrNotFound when id does not exist.
	UpdateCoverPath(ctx context.Context, id, newPath string) (*models.Novel, error)

	// Close releases the underlying connection.
	Close(ctx context.Context) error
}

type options struct {
	now func() time.Time
}

// Option configures a Store backend.
type Option func(*options)

// WithClock replaces time.Now as the source of record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open connects to the backend selected by cfg.Store.Driver. The connection
// is established once here and reused by every call on the returned Store.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Store, error) {
	uri := cfg.StoreURI()

	switch cfg.Store.Driver {
	case config.DriverSQLite:
		if isFilePath(uri) {
			if _, err := filex.EnsureDir(filepath.Dir(uri)); err != nil {
				return nil, unavailable("create data directory", err)
			}
		}
		return OpenSQLite(ctx, uri, opts...)
	case config.DriverPostgres:
		return OpenPostgres(ctx, uri, opts...)
	case config.DriverMongo:
		return OpenMongo(ctx, uri, cfg.Store.Database, cfg.Store.Collection, opts...)
	case config.DriverMemory:
		return NewMemory(opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", common.ErrValidation, cfg.Store.Driver)
	}
}

func isFilePath(uri string) bool {
	return uri != ":memory:" && !strings.HasPrefix(uri, "file:")
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrStoreUnavailable, err)
}

func notFound(id string) error {
	return fmt.Errorf("novel %q: %w", id, common.ErrNotFound)
}

func checkDraft(draft models.Novel) error {
	if !draft.IsDraft() {
		return fmt.Errorf("%w: draft already has id %q", common.ErrValidation, draft.ID)
	}
	return nil
}
