package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/dmitrijs2005/novelshelf/internal/store"
	"github.com/dmitrijs2005/novelshelf/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		dsn := filepath.Join(t.TempDir(), "novels.db")
		s, err := store.OpenSQLite(context.Background(), dsn, store.WithClock(now))
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore_InMemory(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		s, err := store.OpenSQLite(context.Background(), ":memory:", store.WithClock(now))
		require.NoError(t, err)
		return s
	})
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "novels.db")

	s, err := store.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	created, err := s.Create(ctx, models.Novel{Title: "Persisted"})
	require.NoError(t, err)
	_, err = s.UpdateCoverPath(ctx, created.ID, "/covers/p.jpg")
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	s, err = store.OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	defer s.Close(ctx)

	got, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created.ID, got[0].ID)
	assert.Equal(t, "Persisted", got[0].Title)
	assert.Equal(t, "/covers/p.jpg", got[0].CoverImagePath)
	assert.True(t, got[0].CreatedAt.Equal(created.CreatedAt))
}
