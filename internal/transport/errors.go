package transport

import (
	"errors"
	"fmt"
)

// Failure taxonomy shared by both transports. Callers match with errors.Is;
// the reconciliation engine only needs to know that a read failed, the
// distinctions exist for logs and tests.
var (
	// ErrTimeout means the request was cancelled by its own deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrParse means the response body was not the expected JSON shape,
	// e.g. an HTML authentication wall served in place of the API.
	ErrParse = errors.New("unparseable response payload")

	// ErrLoad means the callback resource responded but never invoked its
	// callback, so no payload could be recovered.
	ErrLoad = errors.New("callback resource failed to load")
)

// HTTPError is returned for non-2xx responses from the primary transport.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}
