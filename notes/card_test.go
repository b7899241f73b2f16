package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modnotes/storage"
	"modnotes/types"
)

func newTestCard(t *testing.T) (*CardController, *ListController) {
	t.Helper()
	list, _ := newTestList()
	created, err := list.Create(types.NoteDraft{Title: "Original", Content: "body"})
	require.NoError(t, err)
	require.NotNil(t, created)
	return NewCardController(list, *created), list
}

func TestCardStartsViewing(t *testing.T) {
	card, _ := newTestCard(t)

	assert.Equal(t, StateViewing, card.State())
}

func TestCardOpenEditSeedsBufferCopy(t *testing.T) {
	card, _ := newTestCard(t)

	card.OpenEdit()
	assert.Equal(t, StateEditing, card.State())
	assert.Equal(t, "Original", card.Buffer().Title)

	card.SetBuffer("Changed", "new body")
	// Typing must not leak into the displayed note.
	assert.Equal(t, "Original", card.Note().Title)
	assert.Equal(t, "body", card.Note().Content)
}

func TestCardSaveCommitsAndReturnsToViewing(t *testing.T) {
	card, list := newTestCard(t)

	card.OpenEdit()
	card.SetBuffer("Changed", "new body")
	require.NoError(t, card.Save())

	assert.Equal(t, StateViewing, card.State())
	assert.Equal(t, "Changed", card.Note().Title)
	require.Len(t, list.All(), 1)
	assert.Equal(t, "Changed", list.All()[0].Title)
}

func TestCardSaveRejectsBlankFields(t *testing.T) {
	card, list := newTestCard(t)

	card.OpenEdit()
	card.SetBuffer("   ", "new body")
	assert.ErrorIs(t, card.Save(), ErrEmptyTitle)
	assert.Equal(t, StateEditing, card.State())

	card.SetBuffer("Changed", " \n")
	assert.ErrorIs(t, card.Save(), ErrEmptyContent)
	assert.Equal(t, StateEditing, card.State())

	// Nothing reached storage either way.
	assert.Equal(t, "Original", list.All()[0].Title)
}

func TestCardSaveStaysEditingOnPersistFailure(t *testing.T) {
	// Enough room for the first note, not for the grown one.
	backend := storage.NewMemoryWithQuota(200)
	store := NewStore(backend)
	list := NewListController(store)
	list.Load("u1")

	created, err := list.Create(types.NoteDraft{Title: "T", Content: "C"})
	require.NoError(t, err)
	require.NotNil(t, created)

	card := NewCardController(list, *created)
	card.OpenEdit()
	card.SetBuffer("T", strings.Repeat("x", 500))

	err = card.Save()
	assert.ErrorIs(t, err, ErrSaveFailed)
	assert.Equal(t, StateEditing, card.State())
	assert.Equal(t, "C", card.Note().Content)
	assert.Equal(t, "C", list.All()[0].Content)
}

func TestCardCancelDiscardsBuffer(t *testing.T) {
	card, _ := newTestCard(t)

	card.OpenEdit()
	card.SetBuffer("Changed", "new body")
	card.Cancel()

	assert.Equal(t, StateViewing, card.State())
	assert.Equal(t, "Original", card.Note().Title)
	assert.Equal(t, "Original", card.Buffer().Title)
}

func TestCardDeleteNeedsConfirmation(t *testing.T) {
	card, list := newTestCard(t)

	card.RequestDelete()
	assert.Equal(t, StateConfirmingDelete, card.State())
	// Requesting alone must not touch data.
	assert.Len(t, list.All(), 1)

	card.CancelDelete()
	assert.Equal(t, StateViewing, card.State())
	assert.Len(t, list.All(), 1)

	card.RequestDelete()
	card.ConfirmDelete()
	assert.Equal(t, StateRemoved, card.State())
	assert.Empty(t, list.All())
}

func TestCardDeleteReachableFromEditing(t *testing.T) {
	card, list := newTestCard(t)

	card.OpenEdit()
	card.RequestDelete()
	assert.Equal(t, StateConfirmingDelete, card.State())

	card.ConfirmDelete()
	assert.Equal(t, StateRemoved, card.State())
	assert.Empty(t, list.All())
}

func TestCardIgnoresTransitionsAfterRemoval(t *testing.T) {
	card, _ := newTestCard(t)

	card.RequestDelete()
	card.ConfirmDelete()
	require.Equal(t, StateRemoved, card.State())

	card.OpenEdit()
	assert.Equal(t, StateRemoved, card.State())
	card.RequestDelete()
	assert.Equal(t, StateRemoved, card.State())
}
