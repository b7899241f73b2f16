package notes

import (
	"github.com/pkg/errors"

	"modnotes/types"
)

// ErrSaveFailed is reported when a create or update did not reach storage.
// The in-memory view is left untouched in that case, so the UI never shows
// a note as saved that was not.
var ErrSaveFailed = errors.New("note was not saved")

// ListController is the session-scoped cache of one user's notes plus the
// active search filter. It is the only thing that talks to the Store on
// behalf of the UI, and it must be re-loaded whenever the signed-in
// identity changes.
type ListController struct {
	store  *Store
	userID string
	all    []types.Note
	query  string
}

func NewListController(store *Store) *ListController {
	return &ListController{store: store, all: []types.Note{}}
}

// Load replaces the cache with the given user's stored notes. Collections
// are never merged across identities.
func (l *ListController) Load(userID string) {
	l.userID = userID
	l.all = l.store.Get(userID)
}

// Create adds a note from the draft. A draft with a blank title or content
// after trimming is silently ignored; the form should have blocked it, but
// the controller guards regardless. A persist failure leaves the cache
// untouched and returns ErrSaveFailed.
func (l *ListController) Create(draft types.NoteDraft) (*types.Note, error) {
	if draft.IsBlank() {
		return nil, nil
	}
	created := l.store.Add(l.userID, draft)
	if created == nil {
		return nil, errors.Wrapf(ErrSaveFailed, "creating note for user %q", l.userID)
	}
	l.all = append([]types.Note{*created}, l.all...)
	return created, nil
}

// Update persists new title/content for the note and swaps the cached
// entry on success. On failure the cache is untouched and the error is
// returned so the card can stay in edit mode and surface it.
func (l *ListController) Update(id string, patch types.NotePatch) (*types.Note, error) {
	updated := l.store.Update(l.userID, id, patch)
	if updated == nil {
		return nil, errors.Wrapf(ErrSaveFailed, "updating note %q for user %q", id, l.userID)
	}
	for i := range l.all {
		if l.all[i].ID == id {
			l.all[i] = *updated
			break
		}
	}
	return updated, nil
}

// Remove deletes the note and replaces the cache with the store's
// remainder unconditionally. Delete is idempotent; removing an id that is
// already gone changes nothing.
func (l *ListController) Remove(id string) {
	l.all = l.store.Delete(l.userID, id)
}

func (l *ListController) SetQuery(q string) {
	l.query = q
}

func (l *ListController) Query() string {
	return l.query
}

// All returns the unfiltered cache.
func (l *ListController) All() []types.Note {
	return l.all
}

// Visible recomputes the derived view: everything when the query is blank,
// otherwise the store's search result. Recomputed on demand instead of
// kept fresh by framework magic.
func (l *ListController) Visible() []types.Note {
	if l.query == "" {
		return l.all
	}
	return l.store.Search(l.userID, l.query)
}
