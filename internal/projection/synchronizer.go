package projection

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/novelshelf/internal/common"
	"github.com/dmitrijs2005/novelshelf/internal/covers"
	"github.com/dmitrijs2005/novelshelf/internal/logging"
	"github.com/dmitrijs2005/novelshelf/internal/models"
)

// Records is the part of store.Store the synchronizer uses.
type Records interface {
	ListAll(ctx context.Context) ([]models.Novel, error)
	Create(ctx context.Context, draft models.Novel) (*models.Novel, error)
	Delete(ctx context.Context, id string) error
	UpdateCoverPath(ctx context.Context, id, newPath string) (*models.Novel, error)
}

// Covers stores cover images; see covers.Manager.
type Covers interface {
	StageCover(ctx context.Context, novelID, sourcePath string) (*covers.Staged, error)
}

// CreateForm is the user input for a new novel. Only Title is required.
type CreateForm struct {
	Title       string
	Author      string
	Genre       string
	Description string
}

// Synchronizer owns the published display list. At most one action runs at
// a time; a second concurrent action fails with common.ErrBusy.
type Synchronizer struct {
	records Records
	covers  Covers
	log     logging.Logger

	flight sync.Mutex

	mu       sync.Mutex
	snap     Snapshot
	watchers map[int]chan Snapshot
	nextID   int
}

type Option func(*Synchronizer)

func WithLogger(l logging.Logger) Option {
	return func(s *Synchronizer) {
		s.log = l
	}
}

// New returns an Idle synchronizer whose list holds only the placeholder.
func New(records Records, covers Covers, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		records:  records,
		covers:   covers,
		log:      logging.Nop(),
		snap:     Snapshot{State: Idle, Entries: []Entry{placeholder()}},
		watchers: make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a copy of the current published state.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// Watch returns a channel holding the latest snapshot. It receives the
// current snapshot immediately; a snapshot not yet received is replaced by
// the next one. The channel is closed when ctx is done.
func (s *Synchronizer) Watch(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = ch
	ch <- s.snap.clone()
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

// Refresh reloads every record from the store. On failure the previous
// records stay visible, the state becomes Failed and the error is returned
// and attached to the snapshot.
func (s *Synchronizer) Refresh(ctx context.Context) error {
	if !s.flight.TryLock() {
		return busy("refresh")
	}
	defer s.flight.Unlock()

	return s.refresh(ctx)
}

func (s *Synchronizer) refresh(ctx context.Context) error {
	s.update(func(snap *Snapshot) {
		snap.State = Loading
		snap.Err = nil
	})

	novels, err := s.records.ListAll(ctx)
	if err != nil {
		s.log.Warn(ctx, "refresh failed", "error", err)
		s.update(func(snap *Snapshot) {
			snap.State = Failed
			snap.Err = err
		})
		return err
	}

	entries := make([]Entry, 0, len(novels)+1)
	entries = append(entries, placeholder())
	for _, n := range novels {
		entries = append(entries, novelEntry(n))
	}
	s.update(func(snap *Snapshot) {
		snap.State = Ready
		snap.Entries = entries
		snap.Err = nil
	})
	s.log.Debug(ctx, "refreshed", "novels", len(novels))
	return nil
}

// HandleCreate persists a new novel from form and reloads the list.
// A blank title is rejected without touching the store or the snapshot.
func (s *Synchronizer) HandleCreate(ctx context.Context, form CreateForm) (*models.Novel, error) {
	if strings.TrimSpace(form.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if !s.flight.TryLock() {
		return nil, busy("create")
	}
	defer s.flight.Unlock()

	draft := models.NewDraft(form.Title, form.Author, form.Genre, form.Description)
	created, err := s.records.Create(ctx, draft)
	if err != nil {
		s.log.Warn(ctx, "create failed", "title", draft.Title, "error", err)
		s.fail(err)
		return nil, err
	}
	s.log.Info(ctx, "novel created", "id", created.ID, "title", created.Title)

	return created, s.refresh(ctx)
}

// HandleDelete removes the novel and reloads the list, even when the delete
// itself failed.
func (s *Synchronizer) HandleDelete(ctx context.Context, id string) error {
	if !s.flight.TryLock() {
		return busy("delete")
	}
	defer s.flight.Unlock()

	delErr := s.records.Delete(ctx, id)
	if delErr != nil {
		s.log.Warn(ctx, "delete failed", "id", id, "error", delErr)
	} else {
		s.log.Info(ctx, "novel deleted", "id", id)
	}

	refErr := s.refresh(ctx)
	if delErr == nil {
		return refErr
	}
	err := errors.Join(delErr, refErr)
	s.fail(err)
	return err
}

// HandleCoverChange stores the image at sourcePath as the novel's cover and
// records its path. The affected entry is updated in place; the list is not
// reloaded or reordered. Nothing is written to the store when the copy fails,
// and the cover file is only replaced once the store has accepted the path.
func (s *Synchronizer) HandleCoverChange(ctx context.Context, id, sourcePath string) (*models.Novel, error) {
	if !s.flight.TryLock() {
		return nil, busy("cover change")
	}
	defer s.flight.Unlock()

	staged, err := s.covers.StageCover(ctx, id, sourcePath)
	if err != nil {
		s.log.Warn(ctx, "cover copy failed", "id", id, "error", err)
		s.fail(err)
		return nil, err
	}
	path := staged.Path()

	updated, err := s.records.UpdateCoverPath(ctx, id, path)
	if err != nil {
		if derr := staged.Discard(); derr != nil {
			err = errors.Join(err, derr)
		}
		s.log.Warn(ctx, "cover update failed", "id", id, "error", err)
		s.fail(err)
		return nil, err
	}
	if err := staged.Commit(ctx); err != nil {
		s.log.Error(ctx, "cover commit failed", "id", id, "error", err)
		s.fail(err)
		return nil, err
	}
	s.log.Info(ctx, "cover changed", "id", id, "path", path)

	s.update(func(snap *Snapshot) {
		snap.Err = nil
		for i, e := range snap.Entries {
			if e.Kind != KindNovel || e.Novel.ID != id {
				continue
			}
			n := *e.Novel
			n.CoverImagePath = updated.CoverImagePath
			n.UpdatedAt = updated.UpdatedAt
			snap.Entries[i].Novel = &n
		}
	})
	return updated, nil
}

// fail attaches err to the snapshot without changing the entries.
func (s *Synchronizer) fail(err error) {
	s.update(func(snap *Snapshot) {
		snap.Err = err
	})
}

// update applies fn to the snapshot and publishes the result to watchers.
// fn must not keep references into entries it did not create.
func (s *Synchronizer) update(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.clone()
	fn(&next)
	next.Version = s.snap.Version + 1
	s.snap = next

	for _, ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- next.clone()
	}
}

func busy(op string) error {
	return fmt.Errorf("%s: %w", op, common.ErrBusy)
}
