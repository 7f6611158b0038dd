package store_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/logging"
	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/dmitrijs2005/novelshelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore blocks ListAll until the context ends.
type slowStore struct {
	store.Store
}

func (slowStore) ListAll(ctx context.Context) ([]models.Novel, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func newTestLogger(t *testing.T) (*bytes.Buffer, logging.Logger) {
	t.Helper()
	var buf bytes.Buffer
	l, err := logging.New(&buf, "debug", "text")
	require.NoError(t, err)
	return &buf, l
}

func TestObserve_Success(t *testing.T) {
	buf, l := newTestLogger(t)
	s := store.Observe(store.NewMemory(), l, time.Second)

	n, err := s.Create(context.Background(), models.Novel{Title: "a"})
	require.NoError(t, err)
	require.NoError(t, s.Delete(context.Background(), n.ID))

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "op=create")
	assert.Contains(t, out, "op=delete")
	assert.Contains(t, out, "component=store")
}

func TestObserve_NotFoundIsWarning(t *testing.T) {
	buf, l := newTestLogger(t)
	s := store.Observe(store.NewMemory(), l, 0)

	_, err := s.UpdateCoverPath(context.Background(), "missing", "/x.png")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "op=update_cover")
}

func TestObserve_Timeout(t *testing.T) {
	buf, l := newTestLogger(t)
	s := store.Observe(slowStore{Store: store.NewMemory()}, l, 20*time.Millisecond)

	_, err := s.ListAll(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "op=list")
}
