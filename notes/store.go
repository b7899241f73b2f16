// Package notes holds the persistence and UI-state core of the app: the
// per-user Store over a storage.Backend, the session-scoped ListController,
// and the per-note CardController state machine.
package notes

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"modnotes/storage"
	"modnotes/types"
)

const storagePrefix = "modstack_notes_"

// Store maps a user's subject identifier to that user's ordered note
// collection in the backend. Every mutation re-reads, rewrites, and
// replaces the whole collection; note counts are small enough that the
// write amplification is not worth avoiding.
//
// No Store method returns an error for expected conditions. Empty userID,
// unknown id, and corrupt stored data all come back as the documented
// empty or nil sentinel, and callers must check those before assuming
// success.
type Store struct {
	backend storage.Backend
	now     func() time.Time
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend, now: time.Now}
}

func (s *Store) key(userID string) string {
	return storagePrefix + userID
}

// Get returns the user's notes, newest first. A missing record, an empty
// userID, or a value that fails to parse all yield an empty slice; parse
// failures are logged and otherwise swallowed so a corrupt record cannot
// take the app down.
func (s *Store) Get(userID string) []types.Note {
	if userID == "" {
		return []types.Note{}
	}
	raw, ok := s.backend.Get(s.key(userID))
	if !ok {
		return []types.Note{}
	}
	var notes []types.Note
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		logrus.Error(errors.Wrapf(err, "parsing stored notes for user %q", userID))
		return []types.Note{}
	}
	if notes == nil {
		return []types.Note{}
	}
	return notes
}

// Save serializes and writes the full collection, replacing whatever was
// stored. Returns false instead of an error so callers on lenient paths
// can ignore it deliberately rather than accidentally.
func (s *Store) Save(userID string, notes []types.Note) bool {
	if userID == "" {
		return false
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		logrus.Error(errors.Wrapf(err, "serializing notes for user %q", userID))
		return false
	}
	if err := s.backend.Set(s.key(userID), string(raw)); err != nil {
		logrus.Error(errors.Wrapf(err, "saving notes for user %q", userID))
		return false
	}
	return true
}

// Add creates a note from the draft, prepends it, and persists. The new
// note carries a fresh id and createdAt == updatedAt. Returns nil when
// userID is empty or the write fails; in the failure case nothing is
// retained, so the caller never sees a note that was not stored. Title and
// content emptiness is the edit boundary's job, not enforced here.
func (s *Store) Add(userID string, draft types.NoteDraft) *types.Note {
	if userID == "" {
		return nil
	}
	existing := s.Get(userID)
	now := s.now()
	note := types.Note{
		ID:        s.nextID(existing, now),
		Title:     draft.Title,
		Content:   draft.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	updated := append([]types.Note{note}, existing...)
	if !s.Save(userID, updated) {
		return nil
	}
	return &note
}

// Update merges the patch into the note with the given id and persists.
// Returns nil when userID is empty, the id is not in the user's
// collection, or the write fails. ID and CreatedAt never change; UpdatedAt
// is stamped on every successful update.
func (s *Store) Update(userID, id string, patch types.NotePatch) *types.Note {
	if userID == "" {
		return nil
	}
	existing := s.Get(userID)
	for i := range existing {
		if existing[i].ID != id {
			continue
		}
		patch.ApplyTo(&existing[i])
		existing[i].UpdatedAt = s.now()
		if !s.Save(userID, existing) {
			return nil
		}
		updated := existing[i]
		return &updated
	}
	return nil
}

// Delete removes the note with the given id, persists the remainder, and
// returns it. A missing id is a no-op, not an error; an empty userID
// yields an empty slice and no write.
func (s *Store) Delete(userID, id string) []types.Note {
	if userID == "" {
		return []types.Note{}
	}
	existing := s.Get(userID)
	remaining := make([]types.Note, 0, len(existing))
	for _, n := range existing {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	s.Save(userID, remaining)
	return remaining
}

// Search returns the user's notes whose title or content contains query as
// a case-insensitive substring. Callers showing "everything" should skip
// the call entirely rather than pass an empty query.
func (s *Store) Search(userID, query string) []types.Note {
	if userID == "" {
		return []types.Note{}
	}
	matched := []types.Note{}
	for _, n := range s.Get(userID) {
		if n.Matches(query) {
			matched = append(matched, n)
		}
	}
	return matched
}

// nextID derives an id from the creation time and bumps it until it is
// unique within the collection, so two notes created in the same
// millisecond still get distinct ids.
func (s *Store) nextID(existing []types.Note, now time.Time) string {
	used := make(map[string]bool, len(existing))
	for _, n := range existing {
		used[n.ID] = true
	}
	candidate := now.UnixMilli()
	for used[strconv.FormatInt(candidate, 10)] {
		candidate++
	}
	return strconv.FormatInt(candidate, 10)
}
