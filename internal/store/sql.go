package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/dbx"
	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/dmitrijs2005/novelshelf/internal/store/migrations"
	"github.com/dmitrijs2005/novelshelf/internal/timex"
	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

// queries holds the dialect-specific statements of a SQL backend.
type queries struct {
	list        string
	insert      string
	delete      string
	getForWrite string
	updateCover string
}

const novelColumns = `id, title, author, genre, description, cover_image_path, created_at, updated_at`

var _ Store = (*sqlStore)(nil)

// sqlStore implements Store over database/sql. The SQLite and PostgreSQL
// backends differ only in their query set.
type sqlStore struct {
	db   *sql.DB
	q    queries
	opts options
}

func newSQLStore(db *sql.DB, q queries, opts []Option) *sqlStore {
	return &sqlStore{db: db, q: q, opts: buildOptions(opts)}
}

// goose keeps its dialect and base FS in package state.
var migrateMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func runMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	sub, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("migrations dir %s: %w", dir, err)
	}
	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate %s: %w", dir, err)
	}
	return nil
}

func (s *sqlStore) ListAll(ctx context.Context) ([]models.Novel, error) {
	rows, err := s.db.QueryContext(ctx, s.q.list)
	if err != nil {
		return nil, unavailable("list novels", err)
	}
	defer rows.Close()

	result := make([]models.Novel, 0)
	for rows.Next() {
		n, err := scanNovel(rows)
		if err != nil {
			return nil, unavailable("list novels", err)
		}
		result = append(result, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list novels", err)
	}
	return result, nil
}

func (s *sqlStore) Create(ctx context.Context, draft models.Novel) (*models.Novel, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}
	draft.ApplyDefaults(s.opts.now())
	draft.ID = uuid.NewString()

	_, err := s.db.ExecContext(ctx, s.q.insert,
		draft.ID, draft.Title, draft.Author, draft.Genre, draft.Description, draft.CoverImagePath,
		timex.FormatStamp(draft.CreatedAt), timex.FormatStamp(draft.UpdatedAt))
	if err != nil {
		return nil, unavailable("insert novel", err)
	}
	return &draft, nil
}

func (s *sqlStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q.delete, id); err != nil {
		return unavailable("delete novel", err)
	}
	return nil
}

// UpdateCoverPath reads the current record and writes the new cover path
// and UpdatedAt inside one transaction.
func (s *sqlStore) UpdateCoverPath(ctx context.Context, id, newPath string) (*models.Novel, error) {
	var updated *models.Novel

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := scanNovel(tx.QueryRowContext(ctx, s.q.getForWrite, id))
		if dbx.IsNoRows(err) {
			return notFound(id)
		}
		if err != nil {
			return err
		}

		n.CoverImagePath = newPath
		n.Touch(s.opts.now())

		res, err := tx.ExecContext(ctx, s.q.updateCover, newPath, timex.FormatStamp(n.UpdatedAt), id)
		if err != nil {
			return err
		}
		ok, err := dbx.RequireOneRow(res)
		if err != nil {
			return err
		}
		if !ok {
			return notFound(id)
		}
		updated = n
		return nil
	})
	if errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, unavailable("update cover", err)
	}
	return updated, nil
}

func (s *sqlStore) Close(context.Context) error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNovel(row rowScanner) (*models.Novel, error) {
	var (
		n                models.Novel
		created, updated string
	)
	err := row.Scan(&n.ID, &n.Title, &n.Author, &n.Genre, &n.Description, &n.CoverImagePath, &created, &updated)
	if err != nil {
		return nil, err
	}
	if n.CreatedAt, err = timex.ParseStamp(created); err != nil {
		return nil, fmt.Errorf("novel %s: %w", n.ID, err)
	}
	if n.UpdatedAt, err = timex.ParseStamp(updated); err != nil {
		return nil, fmt.Errorf("novel %s: %w", n.ID, err)
	}
	return &n, nil
}
