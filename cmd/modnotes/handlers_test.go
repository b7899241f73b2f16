package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"modnotes/notes"
	"modnotes/storage"
	"modnotes/types"
)

func TestMain(m *testing.M) {
	// The template glob is relative to the repo root.
	if err := os.Chdir("../.."); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "modnotes.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.AutoMigrate(&Account{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	cfg := types.Config{
		AllowSignup:  true,
		CookieSecret: []byte("test-secret"),
	}
	store := notes.NewStore(storage.NewMemory())

	return newServer(cfg, db, store)
}

func postForm(e *echo.Echo, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func get(e *echo.Echo, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func signUpAndIn(t *testing.T, e *echo.Echo, email string) []*http.Cookie {
	t.Helper()

	w := postForm(e, "/auth/sign-up", url.Values{
		"name":     {"Test User"},
		"email":    {email},
		"password": {"password123"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up: expected status OK, got %v", w.Code)
	}

	w = postForm(e, "/auth/sign-in", url.Values{
		"email":    {email},
		"password": {"password123"},
	}, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("sign-in: expected redirect, got %v", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie after sign-in")
	}
	return cookies
}

func TestSignUpRejectsBadEmail(t *testing.T) {
	e := newTestServer(t)

	w := postForm(e, "/auth/sign-up", url.Values{
		"name":     {"Bad"},
		"email":    {"not-an-email"},
		"password": {"password123"},
	}, nil)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %v", w.Code)
	}
}

func TestSignInWithWrongPassword(t *testing.T) {
	e := newTestServer(t)

	postForm(e, "/auth/sign-up", url.Values{
		"name":     {"Test"},
		"email":    {"who@example.com"},
		"password": {"password123"},
	}, nil)

	w := postForm(e, "/auth/sign-in", url.Values{
		"email":    {"who@example.com"},
		"password": {"wrong"},
	}, nil)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %v", w.Code)
	}
}

func TestDashboardRequiresIdentity(t *testing.T) {
	e := newTestServer(t)

	w := get(e, "/dashboard", nil)
	if w.Code != http.StatusFound {
		t.Errorf("expected redirect for anonymous dashboard, got %v", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to /, got %q", loc)
	}
}

func TestNoteFlow(t *testing.T) {
	e := newTestServer(t)
	cookies := signUpAndIn(t, e, "flow@example.com")

	// Create
	w := postForm(e, "/notes/create", url.Values{
		"title":   {"Meeting Notes"},
		"content": {"agenda for tomorrow"},
	}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("create: expected redirect, got %v", w.Code)
	}

	w = get(e, "/dashboard", cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: expected status OK, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Meeting Notes") {
		t.Error("dashboard should list the created note")
	}

	// The id is the only path segment we don't know; pull it from the edit link.
	id := extractNoteID(t, w.Body.String())

	// Edit
	w = postForm(e, "/notes/"+id+"/update", url.Values{
		"title":   {"Meeting Notes v2"},
		"content": {"updated agenda"},
	}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("update: expected redirect, got %v", w.Code)
	}

	w = get(e, "/dashboard", cookies)
	body := w.Body.String()
	if !strings.Contains(body, "Meeting Notes v2") || !strings.Contains(body, "updated agenda") {
		t.Error("dashboard should show the edited note")
	}

	// Search
	w = get(e, "/dashboard?q=meeting", cookies)
	if !strings.Contains(w.Body.String(), "Meeting Notes v2") {
		t.Error("search should match the note title case-insensitively")
	}
	w = get(e, "/dashboard?q=zzz", cookies)
	if strings.Contains(w.Body.String(), "Meeting Notes v2") {
		t.Error("search for zzz should hide the note")
	}

	// Delete
	w = postForm(e, "/notes/"+id+"/delete", nil, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("delete: expected redirect, got %v", w.Code)
	}

	w = get(e, "/dashboard", cookies)
	if strings.Contains(w.Body.String(), "Meeting Notes v2") {
		t.Error("dashboard should not list the deleted note")
	}
}

func TestUpdateWithBlankTitleKeepsEditing(t *testing.T) {
	e := newTestServer(t)
	cookies := signUpAndIn(t, e, "blank@example.com")

	postForm(e, "/notes/create", url.Values{
		"title":   {"Keep Me"},
		"content": {"original"},
	}, cookies)

	w := get(e, "/dashboard", cookies)
	id := extractNoteID(t, w.Body.String())

	w = postForm(e, "/notes/"+id+"/update", url.Values{
		"title":   {"   "},
		"content": {"new content"},
	}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %v", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "edit="+id) {
		t.Errorf("redirect should keep the card in edit mode, got %q", loc)
	}
	if !strings.Contains(loc, "error=") {
		t.Errorf("redirect should carry a validation error, got %q", loc)
	}

	w = get(e, "/dashboard", cookies)
	if !strings.Contains(w.Body.String(), "original") {
		t.Error("failed update must not change the stored note")
	}
}

func TestNotesAreIsolatedPerUser(t *testing.T) {
	e := newTestServer(t)

	alice := signUpAndIn(t, e, "alice@example.com")
	bob := signUpAndIn(t, e, "bob@example.com")

	postForm(e, "/notes/create", url.Values{
		"title":   {"Alice Secret"},
		"content": {"hers alone"},
	}, alice)

	w := get(e, "/dashboard", bob)
	if strings.Contains(w.Body.String(), "Alice Secret") {
		t.Error("one user's notes must never appear on another user's dashboard")
	}
}

func extractNoteID(t *testing.T, body string) string {
	t.Helper()
	marker := "/dashboard?edit="
	idx := strings.Index(body, marker)
	if idx < 0 {
		t.Fatal("no edit link found on dashboard")
	}
	rest := body[idx+len(marker):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		t.Fatal("malformed edit link")
	}
	return rest[:end]
}
