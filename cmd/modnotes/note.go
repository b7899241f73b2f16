package main

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"modnotes/notes"
	"modnotes/types"
)

func dashboardWithError(c echo.Context, msg string, params url.Values) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("error", msg)
	return c.Redirect(http.StatusFound, "/dashboard?"+params.Encode())
}

func createNote(store *notes.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := GetSessionIdentity(c)
		if !ok {
			return c.Redirect(http.StatusFound, "/")
		}

		draft := types.NoteDraft{
			Title:   c.FormValue("title"),
			Content: c.FormValue("content"),
		}

		list := notes.NewListController(store)
		list.Load(identity.Sub)

		created, err := list.Create(draft)
		if err != nil {
			logrus.Error(errors.Wrap(err, "creating note"))
			return dashboardWithError(c, "Your note could not be saved", url.Values{"new": {"1"}})
		}
		if created == nil {
			// Blank draft; the form should have blocked it.
			return dashboardWithError(c, "Title and content are required", url.Values{"new": {"1"}})
		}

		return c.Redirect(http.StatusFound, "/dashboard")
	}
}

func updateNote(store *notes.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := GetSessionIdentity(c)
		if !ok {
			return c.Redirect(http.StatusFound, "/")
		}

		id := c.Param("id")

		list := notes.NewListController(store)
		list.Load(identity.Sub)

		card, ok := cardFor(list, id)
		if !ok {
			return dashboardWithError(c, "That note no longer exists", nil)
		}

		card.OpenEdit()
		card.SetBuffer(c.FormValue("title"), c.FormValue("content"))

		if err := card.Save(); err != nil {
			logrus.Error(errors.Wrapf(err, "saving note %q", id))
			return dashboardWithError(c, userMessage(err), url.Values{"edit": {id}})
		}

		return c.Redirect(http.StatusFound, "/dashboard")
	}
}

func deleteNote(store *notes.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := GetSessionIdentity(c)
		if !ok {
			return c.Redirect(http.StatusFound, "/")
		}

		id := c.Param("id")

		list := notes.NewListController(store)
		list.Load(identity.Sub)

		// Delete is idempotent; a card seeded with just the id is enough
		// when the note is already gone.
		card, ok := cardFor(list, id)
		if !ok {
			card = notes.NewCardController(list, types.Note{ID: id})
		}

		card.RequestDelete()
		card.ConfirmDelete()

		return c.Redirect(http.StatusFound, "/dashboard")
	}
}

func cardFor(list *notes.ListController, id string) (*notes.CardController, bool) {
	for _, n := range list.All() {
		if n.ID == id {
			return notes.NewCardController(list, n), true
		}
	}
	return nil, false
}

func userMessage(err error) string {
	switch errors.Cause(err) {
	case notes.ErrEmptyTitle:
		return "Title cannot be empty"
	case notes.ErrEmptyContent:
		return "Content cannot be empty"
	default:
		return "Your note could not be saved"
	}
}
