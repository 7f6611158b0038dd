package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/dmitrijs2005/novelshelf/internal/store"
	"github.com/dmitrijs2005/novelshelf/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		return store.NewMemory(store.WithClock(now))
	})
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	s := store.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListAll(ctx)
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	_, err = s.Create(ctx, models.Novel{Title: "x"})
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
	require.ErrorIs(t, s.Delete(ctx, "x"), common.ErrStoreUnavailable)
	_, err = s.UpdateCoverPath(ctx, "x", "/c.png")
	require.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()

	n, err := s.Create(ctx, models.Novel{Title: "a"})
	require.NoError(t, err)
	n.Title = "mutated"

	got, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Title)
}
