package store

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/novelshelf/internal/models"
	"github.com/google/uuid"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps novels in process memory. It is safe for concurrent use.
type MemoryStore struct {
	opts options

	mu      sync.Mutex
	nextSeq int64
	novels  map[string]*memoryRecord
}

type memoryRecord struct {
	seq   int64
	novel models.Novel
}

func NewMemory(opts ...Option) *MemoryStore {
	return &MemoryStore{
		opts:   buildOptions(opts),
		novels: make(map[string]*memoryRecord),
	}
}

func (m *MemoryStore) ListAll(ctx context.Context) ([]models.Novel, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("list novels", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]*memoryRecord, 0, len(m.novels))
	for _, r := range m.novels {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if !a.novel.UpdatedAt.Equal(b.novel.UpdatedAt) {
			return a.novel.UpdatedAt.After(b.novel.UpdatedAt)
		}
		return a.seq < b.seq
	})

	novels := make([]models.Novel, len(records))
	for i, r := range records {
		novels[i] = r.novel
	}
	return novels, nil
}

func (m *MemoryStore) Create(ctx context.Context, draft models.Novel) (*models.Novel, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, unavailable("create novel", err)
	}

	draft.ApplyDefaults(m.opts.now())
	draft.ID = uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextSeq++
	m.novels[draft.ID] = &memoryRecord{seq: m.nextSeq, novel: draft}

	out := draft
	return &out, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return unavailable("delete novel", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.novels, id)
	return nil
}

func (m *MemoryStore) UpdateCoverPath(ctx context.Context, id, newPath string) (*models.Novel, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("update cover", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.novels[id]
	if !ok {
		return nil, notFound(id)
	}
	r.novel.CoverImagePath = newPath
	r.novel.Touch(m.opts.now())

	out := r.novel
	return &out, nil
}

func (m *MemoryStore) Close(context.Context) error {
	return nil
}
