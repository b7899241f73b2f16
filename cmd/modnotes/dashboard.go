package main

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"modnotes/notes"
	"modnotes/types"
)

func landingPageHandler(cfg types.Config) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := GetSessionIdentity(c); ok {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
		logrus.Infof("Generating anonymous landing page")
		return c.Render(200, "index", types.DashboardPageData{Config: cfg})
	}
}

func dashboardPageHandler(cfg types.Config, store *notes.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		identity, ok := GetSessionIdentity(c)
		if !ok {
			return c.Redirect(http.StatusFound, "/")
		}
		logrus.Infof("Generating dashboard for subject %s", identity.Sub)

		list := notes.NewListController(store)
		list.Load(identity.Sub)
		list.SetQuery(strings.TrimSpace(c.QueryParam("q")))

		pageData := types.DashboardPageData{Config: cfg}
		pageData = *pageData.
			WithUser(identity).
			WithNotes(list.Visible()).
			WithQuery(list.Query())

		pageData.Creating = c.QueryParam("new") != ""
		pageData.EditingID = c.QueryParam("edit")
		pageData.ConfirmID = c.QueryParam("confirm")
		pageData.FlashError = c.QueryParam("error")

		return c.Render(200, "dashboard", pageData)
	}
}
