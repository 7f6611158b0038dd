// Package projection maintains the ordered display list of novels, a
// "create new" placeholder followed by the stored records, and coordinates
// the store and cover calls behind each user action.
package projection

import (
	"fmt"

	"github.com/dmitrijs2005/novelshelf/internal/models"
)

// Kind tags an Entry.
type Kind int

const (
	// KindCreate is the non-persisted "create new" placeholder.
	KindCreate Kind = iota
	KindNovel
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindNovel:
		return "novel"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entry is one element of the display list. Novel is nil for KindCreate.
type Entry struct {
	Kind  Kind          `json:"kind"`
	Novel *models.Novel `json:"novel,omitempty"`
}

func placeholder() Entry {
	return Entry{Kind: KindCreate}
}

func novelEntry(n models.Novel) Entry {
	return Entry{Kind: KindNovel, Novel: &n}
}

func (e Entry) clone() Entry {
	if e.Novel != nil {
		n := *e.Novel
		e.Novel = &n
	}
	return e
}

// State is the load-cycle state of a Synchronizer.
type State int

const (
	Idle State = iota
	Loading
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is an immutable view of the published display list.
type Snapshot struct {
	State   State   `json:"state"`
	Entries []Entry `json:"entries"`

	// Err is the failure of the last action, if any.
	Err error `json:"-"`

	// Version increases with every publish.
	Version uint64 `json:"-"`
}

// Novels returns the records of s in display order, without the placeholder.
func (s Snapshot) Novels() []models.Novel {
	out := make([]models.Novel, 0, len(s.Entries))
	for _, e := range s.Entries {
		if e.Kind == KindNovel && e.Novel != nil {
			out = append(out, *e.Novel)
		}
	}
	return out
}

func (s Snapshot) clone() Snapshot {
	entries := make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		entries[i] = e.clone()
	}
	s.Entries = entries
	return s
}
