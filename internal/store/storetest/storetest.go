// Package storetest holds behavioral tests shared by every store.Store
// backend.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/dmitrijs2005/novelshelf/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store whose timestamps come from now.
// The store is closed by Run.
type Factory func(t *testing.T, now func() time.Time) store.Store

// Clock is a manually advanced time source.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

var epoch = time.Date(2025, 3, 14, 9, 26, 53, 589793000, time.UTC)

// Run executes the contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	setup := func(t *testing.T) (store.Store, *Clock) {
		clock := NewClock(epoch)
		s := newStore(t, clock.Now)
		t.Cleanup(func() { _ = s.Close(context.Background()) })
		return s, clock
	}

	t.Run("EmptyList", func(t *testing.T) {
		s, _ := setup(t)
		got, err := s.ListAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("CreateAppliesDefaults", func(t *testing.T) {
		s, _ := setup(t)
		n, err := s.Create(context.Background(), models.Novel{Title: "  Dune "})
		require.NoError(t, err)

		assert.NotEmpty(t, n.ID)
		assert.Equal(t, "Dune", n.Title)
		assert.Equal(t, models.DefaultAuthor, n.Author)
		assert.Equal(t, models.DefaultGenre, n.Genre)
		assert.Equal(t, models.DefaultDescription, n.Description)
		assert.Empty(t, n.CoverImagePath)
		assert.True(t, n.CreatedAt.Equal(epoch))
		assert.True(t, n.UpdatedAt.Equal(epoch))

		got, err := s.ListAll(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, n.ID, got[0].ID)
		assert.Equal(t, n.Title, got[0].Title)
		assert.True(t, got[0].CreatedAt.Equal(n.CreatedAt))
		assert.True(t, got[0].UpdatedAt.Equal(n.UpdatedAt))
	})

	t.Run("CreateBlankTitle", func(t *testing.T) {
		s, _ := setup(t)
		n, err := s.Create(context.Background(), models.Novel{})
		require.NoError(t, err)
		assert.Equal(t, models.DefaultTitle(epoch), n.Title)
	})

	t.Run("CreateKeepsGivenFields", func(t *testing.T) {
		s, _ := setup(t)
		created := epoch.Add(-time.Hour)
		n, err := s.Create(context.Background(), models.Novel{
			Title:       "Solaris",
			Author:      "Stanislaw Lem",
			Genre:       "SF",
			Description: "Ocean",
			CreatedAt:   created,
			UpdatedAt:   created.Add(-time.Minute),
		})
		require.NoError(t, err)
		assert.Equal(t, "Stanislaw Lem", n.Author)
		assert.Equal(t, "SF", n.Genre)
		assert.Equal(t, "Ocean", n.Description)
		assert.True(t, n.CreatedAt.Equal(created))
		assert.True(t, n.UpdatedAt.Equal(created), "UpdatedAt is raised to CreatedAt")
	})

	t.Run("CreateRejectsPersistedRecord", func(t *testing.T) {
		s, _ := setup(t)
		_, err := s.Create(context.Background(), models.Novel{ID: "x", Title: "A"})
		require.ErrorIs(t, err, common.ErrValidation)

		got, err := s.ListAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("TitlesNotUnique", func(t *testing.T) {
		s, _ := setup(t)
		a, err := s.Create(context.Background(), models.Novel{Title: "Same"})
		require.NoError(t, err)
		b, err := s.Create(context.Background(), models.Novel{Title: "Same"})
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})

	t.Run("ListOrder", func(t *testing.T) {
		s, clock := setup(t)
		ctx := context.Background()

		first, err := s.Create(ctx, models.Novel{Title: "first"})
		require.NoError(t, err)
		second, err := s.Create(ctx, models.Novel{Title: "second"})
		require.NoError(t, err)
		clock.Advance(time.Second)
		third, err := s.Create(ctx, models.Novel{Title: "third"})
		require.NoError(t, err)

		got, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{third.ID, first.ID, second.ID}, ids(got))
	})

	t.Run("Delete", func(t *testing.T) {
		s, _ := setup(t)
		ctx := context.Background()

		a, err := s.Create(ctx, models.Novel{Title: "a"})
		require.NoError(t, err)
		b, err := s.Create(ctx, models.Novel{Title: "b"})
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, a.ID))

		got, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID}, ids(got))

		require.NoError(t, s.Delete(ctx, a.ID), "deleting twice succeeds")
		require.NoError(t, s.Delete(ctx, "not-an-id"))
		require.NoError(t, s.Delete(ctx, ""))
	})

	t.Run("UpdateCoverPath", func(t *testing.T) {
		s, clock := setup(t)
		ctx := context.Background()

		a, err := s.Create(ctx, models.Novel{Title: "a"})
		require.NoError(t, err)
		clock.Advance(time.Second)
		b, err := s.Create(ctx, models.Novel{Title: "b"})
		require.NoError(t, err)
		clock.Advance(time.Second)

		updated, err := s.UpdateCoverPath(ctx, a.ID, "/covers/a.png")
		require.NoError(t, err)
		assert.Equal(t, a.ID, updated.ID)
		assert.Equal(t, "/covers/a.png", updated.CoverImagePath)
		assert.True(t, updated.UpdatedAt.Equal(clock.Now()))
		assert.True(t, updated.CreatedAt.Equal(a.CreatedAt))

		got, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID, b.ID}, ids(got))
		assert.Equal(t, "/covers/a.png", got[0].CoverImagePath)
		assert.Empty(t, got[1].CoverImagePath)
	})

	t.Run("UpdateCoverPathStoppedClock", func(t *testing.T) {
		s, _ := setup(t)
		ctx := context.Background()

		a, err := s.Create(ctx, models.Novel{Title: "a"})
		require.NoError(t, err)

		u1, err := s.UpdateCoverPath(ctx, a.ID, "/1.png")
		require.NoError(t, err)
		u2, err := s.UpdateCoverPath(ctx, a.ID, "/2.png")
		require.NoError(t, err)

		assert.True(t, u1.UpdatedAt.After(a.UpdatedAt))
		assert.True(t, u2.UpdatedAt.After(u1.UpdatedAt))
	})

	t.Run("UpdateCoverPathNotFound", func(t *testing.T) {
		s, _ := setup(t)
		ctx := context.Background()

		a, err := s.Create(ctx, models.Novel{Title: "a"})
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, a.ID))

		_, err = s.UpdateCoverPath(ctx, a.ID, "/x.png")
		require.ErrorIs(t, err, common.ErrNotFound)

		got, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func ids(novels []models.Novel) []string {
	out := make([]string, len(novels))
	for i, n := range novels {
		out[i] = n.ID
	}
	return out
}
