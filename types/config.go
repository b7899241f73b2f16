package types

import (
	errs "errors"
	"fmt"
	"net/mail"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/oliverisaac/goli"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ListenAddr        string
	AllowSignup       bool
	AllowSignupEmails []string
	CookieSecret      []byte
	DBPath            string
}

func ConfigFromEnv() (Config, error) {
	ret := Config{}
	var retErr error
	var err error

	ret.ListenAddr = goli.DefaultEnv("MODNOTES_LISTEN_ADDR", ":8080")

	ret.AllowSignup, err = strconv.ParseBool(goli.DefaultEnv("MODNOTES_ALLOW_SIGNUP", "true"))
	if err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "parsing MODNOTES_ALLOW_SIGNUP"))
	}

	allowedEmails := strings.Split(os.Getenv("MODNOTES_ALLOW_SIGNUP_EMAILS"), ",")
	for _, e := range allowedEmails {
		if e == "" {
			continue
		}
		email, err := mail.ParseAddress(e)
		if err != nil {
			retErr = errs.Join(retErr, errors.Wrapf(err, "parsing email %q", e))
		} else {
			ret.AllowSignupEmails = append(ret.AllowSignupEmails, email.Address)
		}
	}
	if len(ret.AllowSignupEmails) > 0 {
		logrus.Infof("Allowed signup emails: %v", ret.AllowSignupEmails)
	}

	cookieSecret, ok := os.LookupEnv("MODNOTES_COOKIE_STORE_SECRET")
	if !ok {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env MODNOTES_COOKIE_STORE_SECRET"))
	} else {
		ret.CookieSecret = []byte(cookieSecret)
	}

	ret.DBPath, ok = os.LookupEnv("MODNOTES_DB_PATH")
	if !ok {
		retErr = errs.Join(retErr, fmt.Errorf("You must define env MODNOTES_DB_PATH"))
	} else if _, err := os.Stat(path.Dir(ret.DBPath)); err != nil {
		retErr = errs.Join(retErr, errors.Wrap(err, "Directory for MODNOTES_DB_PATH must exist"))
	}

	return ret, retErr
}
