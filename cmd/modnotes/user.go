package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"modnotes/types"
)

type FormData struct {
	Errors map[string]string
	Values map[string]string
}

func newFormData() FormData {
	return FormData{
		Errors: map[string]string{},
		Values: map[string]string{},
	}
}

// Account is a local credential record. Sub is the opaque subject
// identifier handed to the rest of the app; note storage is partitioned by
// it, never by email or row id.
type Account struct {
	gorm.Model
	Sub       string `gorm:"uniqueIndex"`
	Name      string
	Email     string `gorm:"uniqueIndex"`
	Password  string
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime"`
	DeletedAt *time.Time
}

func (a Account) Identity() types.Identity {
	return types.Identity{
		Sub:           a.Sub,
		Name:          a.Name,
		Email:         a.Email,
		EmailVerified: false,
	}
}

func accountExists(email string, db *gorm.DB) bool {
	var account Account
	err := db.First(&account, "email = ?", email).Error

	return err != gorm.ErrRecordNotFound
}

func signUp() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(200, "sign-up-form", newFormData())
	}
}

func signUpWithEmailAndPassword(cfg types.Config, db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		name := c.FormValue("name")
		email := c.FormValue("email")
		password := c.FormValue("password")

		if !cfg.AllowSignup {
			return c.Render(422, "sign-up-form", FormData{
				Errors: map[string]string{
					"email": "Oops! Signups are currently closed",
				},
				Values: map[string]string{},
			})
		}

		parsedEmail, err := mail.ParseAddress(email)
		if err != nil {
			return c.Render(422, "sign-up-form", FormData{
				Errors: map[string]string{
					"email": "Oops! That email address appears to be invalid",
				},
				Values: map[string]string{
					"email": email,
				},
			})
		}
		email = parsedEmail.Address

		if len(cfg.AllowSignupEmails) > 0 && !slices.Contains(cfg.AllowSignupEmails, email) {
			return c.Render(422, "sign-up-form", FormData{
				Errors: map[string]string{
					"email": "Oops! That email address is not allowed to sign up",
				},
				Values: map[string]string{
					"email": email,
				},
			})
		}

		if accountExists(email, db) {
			return c.Render(422, "sign-up-form", FormData{
				Errors: map[string]string{
					"email": "Oops! It appears you are already registered",
				},
				Values: map[string]string{
					"email": email,
				},
			})
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
		if err != nil {
			logrus.Error(errors.Wrap(err, "hashing sign up password"))
			return c.Render(500, "sign-up-form", FormData{
				Errors: map[string]string{
					"general": "Oops! It appears we have had an error",
				},
				Values: map[string]string{},
			})
		}

		account := Account{
			Sub:       uuid.NewString(),
			Name:      name,
			Email:     email,
			Password:  string(hash),
			CreatedAt: time.Now(),
		}

		if err := db.Create(&account).Error; err != nil {
			logrus.Error(errors.Wrap(err, "creating account"))
			return c.Render(500, "sign-up-form", FormData{
				Errors: map[string]string{
					"email": "Oops! It appears we have had an error",
				},
				Values: map[string]string{},
			})
		}

		return c.Render(200, "index", nil)
	}
}

func signIn() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.Render(200, "sign-in-form", newFormData())
	}
}

func signInWithEmailAndPassword(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		email := c.FormValue("email")
		password := c.FormValue("password")

		_, err := mail.ParseAddress(email)
		if err != nil {
			return c.Render(422, "sign-in-form", FormData{
				Errors: map[string]string{
					"email": "Oops! That email address appears to be invalid",
				},
				Values: map[string]string{
					"email": email,
				},
			})
		}

		var account Account
		db.First(&account, "email = ?", email)
		if compareErr := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); compareErr != nil {
			return c.Render(422, "sign-in-form", FormData{
				Errors: map[string]string{
					"email": "Oops! Email address or password is incorrect.",
				},
				Values: map[string]string{
					"email": email,
				},
			})
		}

		sess, _ := session.Get("session", c)
		sess.Options = &sessions.Options{
			Path:     "/",
			MaxAge:   3600 * 24 * 365,
			HttpOnly: true,
		}

		identityBytes, err := json.Marshal(account.Identity())
		if err != nil {
			fmt.Println("error marshalling identity value")
			return err
		}

		sess.Values["identity"] = identityBytes

		err = sess.Save(c.Request(), c.Response())
		if err != nil {
			fmt.Println("error saving session: ", err)
			return err
		}

		return c.Redirect(http.StatusFound, "/dashboard")
	}
}

func signOut() echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _ := session.Get("session", c)
		sess.Options.MaxAge = -1
		err := sess.Save(c.Request(), c.Response())
		if err != nil {
			fmt.Println("error saving session")
			return err
		}

		return c.Redirect(http.StatusFound, "/")
	}
}
