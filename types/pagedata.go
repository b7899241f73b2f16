package types

import (
	errs "errors"
)

// DashboardPageData is everything the dashboard template needs for one
// render: the signed-in identity, the visible notes for the active query,
// and which card (if any) is in edit or delete-confirm mode.
type DashboardPageData struct {
	User       *Identity
	Config     Config
	Notes      []Note
	Query      string
	Creating   bool
	EditingID  string
	ConfirmID  string
	FlashError string
	Err        error
}

func (d *DashboardPageData) WithError(err error) *DashboardPageData {
	d.Err = errs.Join(d.Err, err)
	return d
}

func (d *DashboardPageData) WithUser(u Identity) *DashboardPageData {
	d.User = &u
	return d
}

func (d *DashboardPageData) WithNotes(notes []Note) *DashboardPageData {
	d.Notes = append(d.Notes, notes...)
	return d
}

func (d *DashboardPageData) WithQuery(q string) *DashboardPageData {
	d.Query = q
	return d
}
