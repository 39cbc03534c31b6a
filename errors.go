package provstore

import (
	"errors"

	"github.com/openprovenance/provstore-go/internal/types"
)

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	// ErrUnauthorized reports rejected or missing credentials (401).
	ErrUnauthorized = types.ErrUnauthorized
	// ErrBadRequest reports a request the store refused to process (400).
	ErrBadRequest = types.ErrBadRequest
	// ErrNotFound reports a missing document. The store answers 404 and
	// 422 interchangeably here; both map to this error.
	ErrNotFound = types.ErrNotFound
	// ErrCannotConvert is reserved for format-conversion failures. No
	// operation returns it today.
	ErrCannotConvert = types.ErrCannotConvert
)

// HTTPError is the non-2xx response behind any of the sentinel errors,
// reachable with errors.As for the raw status code and body.
type HTTPError = types.HTTPError

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsUnauthorized reports whether err is an authentication failure.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsBadRequest reports whether err is a request the store rejected.
func IsBadRequest(err error) bool { return errors.Is(err, ErrBadRequest) }
