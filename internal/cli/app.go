package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/config"
	"github.com/dmitrijs2005/novelshelf/internal/covers"
	"github.com/dmitrijs2005/novelshelf/internal/logging"
	"github.com/dmitrijs2005/novelshelf/internal/projection"
	"github.com/dmitrijs2005/novelshelf/internal/store"
)

// App holds the long-lived components behind every command.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	store  store.Store
	sync   *projection.Synchronizer
	render *Renderer
}

// NewApp opens the configured store and builds the cover manager and
// synchronizer. Logs go to errOut.
func NewApp(ctx context.Context, cfg *config.Config, out, errOut io.Writer) (*App, error) {
	logger, err := logging.New(errOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s = store.Observe(s, logger, cfg.Store.Timeout)

	coverOpts := []covers.Option{covers.WithLogger(logger.With("component", "covers"))}
	if cfg.Mirror.Enabled() {
		mirror, err := covers.NewS3Mirror(ctx, cfg.Mirror)
		if err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("cover mirror: %w", err)
		}
		coverOpts = append(coverOpts, covers.WithMirror(mirror))
	}
	mgr := covers.NewManager(cfg.CoversPath(), coverOpts...)

	return &App{
		cfg:   cfg,
		log:   logger,
		store: s,
		sync:  projection.New(s, mgr, projection.WithLogger(logger.With("component", "projection"))),
		render: &Renderer{
			Format: cfg.Format,
			Out:    out,
			ErrOut: errOut,
			Now:    time.Now,
		},
	}, nil
}

// Close releases the store connection.
func (a *App) Close(ctx context.Context) error {
	return a.store.Close(ctx)
}

// List reloads and prints the display list. A failed reload prints the
// stale list together with the error, and the returned error is marked as
// already reported.
func (a *App) List(ctx context.Context) error {
	err := a.sync.Refresh(ctx)
	snap := a.sync.Snapshot()
	if err != nil && snap.Err == nil {
		return err
	}
	if rerr := a.render.Snapshot(snap); rerr != nil {
		return rerr
	}
	if err != nil {
		return reportedError{err: err}
	}
	return nil
}

func (a *App) Create(ctx context.Context, form projection.CreateForm) error {
	n, err := a.sync.HandleCreate(ctx, form)
	if n == nil {
		return err
	}
	if rerr := a.render.Novel("created", n); rerr != nil {
		return rerr
	}
	return err
}

func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.sync.HandleDelete(ctx, id); err != nil {
		return err
	}
	return a.render.Message(fmt.Sprintf("deleted %s", id))
}

func (a *App) Cover(ctx context.Context, id, path string) error {
	n, err := a.sync.HandleCoverChange(ctx, id, path)
	if err != nil {
		return err
	}
	return a.render.Novel("cover changed", n)
}
