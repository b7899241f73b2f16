// Package storage provides the synchronous string key-value backend the
// notes store persists into. Every value is replaced wholesale on write;
// there is no cross-process coordination, so two writers to the same key
// resolve as last-writer-wins.
package storage

import (
	"github.com/pkg/errors"
)

// ErrQuotaExceeded is returned by Set when the backend is out of space.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend is a synchronous string-keyed store. Reads cannot fail; writes
// can (quota, closed database) and callers are expected to check.
type Backend interface {
	Get(key string) (value string, ok bool)
	Set(key, value string) error
	Delete(key string) error
}
