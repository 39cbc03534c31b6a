package types

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the ProvStore API error taxonomy. Operations return
// them wrapped in an *HTTPError so callers can test with errors.Is while
// keeping the raw response for diagnostics.
var (
	// ErrUnauthorized is returned on 401: missing or rejected credentials.
	ErrUnauthorized = errors.New("provstore: unauthorized")
	// ErrBadRequest is returned on 400: the service rejected the request.
	ErrBadRequest = errors.New("provstore: bad request")
	// ErrNotFound is returned on 404 and 422. The service answers the two
	// interchangeably for missing documents, so both map here.
	ErrNotFound = errors.New("provstore: not found")
	// ErrCannotConvert is reserved for documents the service cannot render
	// in the requested format. No operation returns it today; conversion
	// failures currently surface as ErrNotFound via 422.
	ErrCannotConvert = errors.New("provstore: cannot convert to the requested format")
)

// HTTPError is a non-2xx response from the ProvStore API. StatusCode and
// Body are kept verbatim; Unwrap exposes the sentinel the status maps to,
// if any.
type HTTPError struct {
	StatusCode int
	Body       []byte

	err error
}

// NewHTTPError classifies statusCode against the error taxonomy and keeps
// the response body for diagnostics.
func NewHTTPError(statusCode int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: statusCode, Body: body}
	switch statusCode {
	case http.StatusUnauthorized:
		e.err = ErrUnauthorized
	case http.StatusBadRequest:
		e.err = ErrBadRequest
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		e.err = ErrNotFound
	}
	return e
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.err != nil {
		return fmt.Sprintf("%s (status %d)", e.err, e.StatusCode)
	}
	return fmt.Sprintf("provstore: unexpected status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Unwrap() error { return e.err }
