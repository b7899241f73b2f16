package notes

import (
	"strings"

	"github.com/pkg/errors"

	"modnotes/types"
)

// Validation errors surfaced by Save while the card stays in edit mode.
var (
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrEmptyContent = errors.New("content cannot be empty")
)

// CardState is the mode of one note card.
type CardState int

const (
	StateViewing CardState = iota
	StateEditing
	StateConfirmingDelete
	// StateRemoved is terminal; the card's note has been deleted.
	StateRemoved
)

func (s CardState) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	case StateConfirmingDelete:
		return "confirming-delete"
	case StateRemoved:
		return "removed"
	}
	return "unknown"
}

// EditBuffer is the working copy of a note's editable fields during an
// edit session. It is seeded from the note and committed only on save.
type EditBuffer struct {
	Title   string
	Content string
}

// CardController runs the view/edit/delete-confirm lifecycle for a single
// note. Persistence happens only on the save success path and on confirmed
// delete; every other transition is purely local.
type CardController struct {
	list   *ListController
	note   types.Note
	state  CardState
	buffer EditBuffer
}

func NewCardController(list *ListController, note types.Note) *CardController {
	return &CardController{list: list, note: note, state: StateViewing}
}

func (c *CardController) State() CardState {
	return c.state
}

// Note returns the card's current persisted view of the note.
func (c *CardController) Note() types.Note {
	return c.note
}

// OpenEdit seeds the buffer with the note's current fields and enters edit
// mode. The buffer is a copy; typing never touches the displayed note.
func (c *CardController) OpenEdit() {
	if c.state == StateRemoved {
		return
	}
	c.buffer = EditBuffer{Title: c.note.Title, Content: c.note.Content}
	c.state = StateEditing
}

// SetBuffer replaces the in-flight edits. Only meaningful while editing.
func (c *CardController) SetBuffer(title, content string) {
	if c.state != StateEditing {
		return
	}
	c.buffer = EditBuffer{Title: title, Content: content}
}

func (c *CardController) Buffer() EditBuffer {
	return c.buffer
}

// Save validates the buffer and commits it through the list controller.
// On a blank title or content, or on a persist failure, the card stays in
// edit mode and the error tells the UI what to show. On success the card
// returns to viewing with the updated note.
func (c *CardController) Save() error {
	if c.state != StateEditing {
		return nil
	}
	if strings.TrimSpace(c.buffer.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(c.buffer.Content) == "" {
		return ErrEmptyContent
	}
	updated, err := c.list.Update(c.note.ID, types.NotePatch{
		Title:   &c.buffer.Title,
		Content: &c.buffer.Content,
	})
	if err != nil {
		return err
	}
	c.note = *updated
	c.state = StateViewing
	return nil
}

// Cancel discards the buffer and returns to viewing.
func (c *CardController) Cancel() {
	if c.state != StateEditing {
		return
	}
	c.buffer = EditBuffer{Title: c.note.Title, Content: c.note.Content}
	c.state = StateViewing
}

// RequestDelete asks for confirmation. No data changes yet.
func (c *CardController) RequestDelete() {
	if c.state == StateViewing || c.state == StateEditing {
		c.state = StateConfirmingDelete
	}
}

// ConfirmDelete removes the note through the list controller. Terminal.
func (c *CardController) ConfirmDelete() {
	if c.state != StateConfirmingDelete {
		return
	}
	c.list.Remove(c.note.ID)
	c.state = StateRemoved
}

// CancelDelete backs out of the confirmation with no data change.
func (c *CardController) CancelDelete() {
	if c.state == StateConfirmingDelete {
		c.state = StateViewing
	}
}
