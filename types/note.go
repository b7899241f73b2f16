package types

import (
	"strings"
	"time"
)

// Note is one user-owned note. ID is unique within the owning user's
// collection; CreatedAt is set once, UpdatedAt moves on every edit.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteDraft holds the user-entered fields of a note that does not exist yet.
type NoteDraft struct {
	Title   string
	Content string
}

func (d NoteDraft) IsBlank() bool {
	return strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == ""
}

// NotePatch lists the only fields an update may change. A nil field means
// "leave as-is". ID and CreatedAt are deliberately not representable here.
type NotePatch struct {
	Title   *string
	Content *string
}

func (p NotePatch) ApplyTo(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
}

// Matches reports whether query appears in the title or content,
// case-insensitively.
func (n Note) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}
