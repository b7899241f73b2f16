package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"modnotes/notes"
	"modnotes/static"
	"modnotes/storage"
	"modnotes/types"
)

func init() {
	goli.InitLogrus(logrus.DebugLevel)
}

const IdentityKey = "session-identity"

type Template struct {
	tmpl *template.Template
}

func newTemplate() *Template {
	return &Template{
		tmpl: template.Must(template.ParseGlob("template/*.html")),
	}
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.tmpl.ExecuteTemplate(w, name, data)
}

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("error loading godotenv")
	}

	cfg, err := types.ConfigFromEnv()
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "loading config"))
	}

	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "failed to connect database"))
	}

	if err := db.AutoMigrate(&Account{}); err != nil {
		logrus.Fatal(errors.Wrap(err, "Failed to migrate"))
	}

	backend, err := storage.NewGormKV(db)
	if err != nil {
		logrus.Fatal(errors.Wrap(err, "opening note storage"))
	}
	store := notes.NewStore(backend)

	e := newServer(cfg, db, store)
	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}

// newServer wires middleware and routes; split from main so handler tests
// can drive the full stack without starting a listener.
func newServer(cfg types.Config, db *gorm.DB, store *notes.Store) *echo.Echo {
	e := echo.New()

	e.Renderer = newTemplate()

	e.StaticFS("/static", static.FS)

	e.Use(middleware.Recover())

	e.Use(middleware.Secure())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))

	cookieStore := sessions.NewCookieStore(cfg.CookieSecret)
	e.Use(session.Middleware(cookieStore))
	e.Use(IdentityMiddleware())

	// Pages
	e.GET("/", landingPageHandler(cfg))
	e.GET("/dashboard", dashboardPageHandler(cfg, store))

	// Auth
	e.GET("/auth/sign-in", signIn())
	e.POST("/auth/sign-in", signInWithEmailAndPassword(db))
	e.GET("/auth/sign-up", signUp())
	e.POST("/auth/sign-up", signUpWithEmailAndPassword(cfg, db))
	e.POST("/auth/sign-out", signOut())

	// Notes
	e.POST("/notes/create", createNote(store))
	e.POST("/notes/:id/update", updateNote(store))
	e.POST("/notes/:id/delete", deleteNote(store))

	return e
}

// IdentityMiddleware resolves the signed-in identity from the cookie
// session once per request and stashes it on the context. Handlers take it
// from there explicitly; nothing reads ambient auth state.
func IdentityMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := session.Get("session", c)
			if sess.Values["identity"] != nil {
				var identity types.Identity
				err := json.Unmarshal(sess.Values["identity"].([]byte), &identity)
				if err != nil {
					fmt.Println("error unmarshalling identity value")
					return err
				}
				c.Set(IdentityKey, identity)
			}
			return next(c)
		}
	}
}

func GetSessionIdentity(c echo.Context) (types.Identity, bool) {
	u := c.Get(IdentityKey)
	if u != nil {
		identity := u.(types.Identity)
		logrus.Debugf("Found session identity %s", identity.Sub)
		return identity, identity.IsSet()
	}
	return types.Identity{}, false
}
