// api/errors/cache_errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by cache stores when a key is absent or expired.
var ErrKeyNotFound = errors.New("cache key not found")

// CacheError wraps a cache backend failure. The cache layer is best-effort:
// read paths fold these into miss semantics, write paths surface them so the
// caller can log and move on.
type CacheError struct {
	Op  string
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// NewCacheError builds a CacheError for the given operation and key.
func NewCacheError(op, key string, err error) *CacheError {
	return &CacheError{Op: op, Key: key, Err: err}
}
