// Package models defines the novel record and its default-value and
// timestamp rules.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder values stored when the corresponding field is left blank.
const (
	DefaultAuthor      = "Unknown Author"
	DefaultGenre       = "Uncategorized"
	DefaultDescription = "No description"

	// defaultTitleLayout is appended to "New Novel " when no title is given.
	defaultTitleLayout = "20060102150405"
)

// Novel is one entry in the library. A Novel with an empty ID is a draft
// that has not been persisted yet.
type Novel struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Author         string    `json:"author"`
	Genre          string    `json:"genre"`
	Description    string    `json:"description"`
	CoverImagePath string    `json:"cover_image_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsDraft reports whether n has not been assigned an identifier yet.
func (n *Novel) IsDraft() bool {
	return n.ID == ""
}

// HasCover reports whether a cover image has been attached.
func (n *Novel) HasCover() bool {
	return n.CoverImagePath != ""
}

// NewDraft builds an unsaved Novel from form input. The title is trimmed;
// blank optional fields get their placeholder values. Timestamps are left
// for the store to assign.
func NewDraft(title, author, genre, description string) Novel {
	return Novel{
		Title:       strings.TrimSpace(title),
		Author:      orDefault(strings.TrimSpace(author), DefaultAuthor),
		Genre:       orDefault(strings.TrimSpace(genre), DefaultGenre),
		Description: orDefault(strings.TrimSpace(description), DefaultDescription),
	}
}

// DefaultTitle returns the generated title used for drafts without one.
// The stamp is rendered in the local time zone of now.
func DefaultTitle(now time.Time) string {
	return fmt.Sprintf("New Novel %s", now.Format(defaultTitleLayout))
}

// ApplyDefaults fills blank text fields with their placeholder values and
// normalizes timestamps for persisting a draft:
//
//   - a zero CreatedAt becomes now;
//   - a zero UpdatedAt becomes CreatedAt;
//   - an UpdatedAt earlier than CreatedAt is raised to CreatedAt.
//
// Both timestamps are converted to UTC.
func (n *Novel) ApplyDefaults(now time.Time) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		n.Title = DefaultTitle(now)
	}
	n.Author = orDefault(n.Author, DefaultAuthor)
	n.Genre = orDefault(n.Genre, DefaultGenre)
	n.Description = orDefault(n.Description, DefaultDescription)

	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() || n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
}

// Touch refreshes UpdatedAt after a field mutation.
func (n *Novel) Touch(now time.Time) {
	n.UpdatedAt = NextStamp(n.UpdatedAt, now)
}

// NextStamp returns the UpdatedAt value for a mutation happening at now when
// the previous value was prev. The result is always strictly after prev,
// even when the clock has not advanced.
func NextStamp(prev, now time.Time) time.Time {
	now = now.UTC()
	if !now.After(prev) {
		return prev.UTC().Add(time.Nanosecond)
	}
	return now
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
