package store

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/logging"
	"github.com/dmitrijs2005/novelshelf/internal/models"
)

var _ Store = (*observed)(nil)

// observed bounds and logs every call of the wrapped Store.
type observed struct {
	next    Store
	log     logging.Logger
	timeout time.Duration
}

// Observe wraps s so that each call runs under timeout (when positive) and
// is logged: durations at debug level, failures at error level. Not-found
// and validation results are logged as warnings.
func Observe(s Store, log logging.Logger, timeout time.Duration) Store {
	return &observed{next: s, log: log.With("component", "store"), timeout: timeout}
}

func (o *observed) call(ctx context.Context, op string, fn func(ctx context.Context) error, args ...any) error {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	args = append(args, "op", op, "duration", time.Since(start))

	switch {
	case err == nil:
		o.log.Debug(ctx, "store call", args...)
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrValidation):
		o.log.Warn(ctx, "store call rejected", append(args, "error", err)...)
	default:
		o.log.Error(ctx, "store call failed", append(args, "error", err)...)
	}
	return err
}

func (o *observed) ListAll(ctx context.Context) ([]models.Novel, error) {
	var out []models.Novel
	err := o.call(ctx, "list", func(ctx context.Context) error {
		var err error
		out, err = o.next.ListAll(ctx)
		return err
	})
	return out, err
}

func (o *observed) Create(ctx context.Context, draft models.Novel) (*models.Novel, error) {
	var out *models.Novel
	err := o.call(ctx, "create", func(ctx context.Context) error {
		var err error
		out, err = o.next.Create(ctx, draft)
		return err
	})
	return out, err
}

func (o *observed) Delete(ctx context.Context, id string) error {
	return o.call(ctx, "delete", func(ctx context.Context) error {
		return o.next.Delete(ctx, id)
	}, "id", id)
}

func (o *observed) UpdateCoverPath(ctx context.Context, id, newPath string) (*models.Novel, error) {
	var out *models.Novel
	err := o.call(ctx, "update_cover", func(ctx context.Context) error {
		var err error
		out, err = o.next.UpdateCoverPath(ctx, id, newPath)
		return err
	}, "id", id)
	return out, err
}

func (o *observed) Close(ctx context.Context) error {
	return o.call(ctx, "close", o.next.Close)
}
