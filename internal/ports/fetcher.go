package ports

import (
	"context"
	"errors"
	"fmt"
)

// Fetcher retrieves the raw bytes of a page. Implementations own the retry
// policy for transient failures; errors that escape a Fetcher are final.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type FetchErrorKind string

const (
	FetchTimeout    FetchErrorKind = "timeout"
	FetchHTTPStatus FetchErrorKind = "http_status"
	FetchNetwork    FetchErrorKind = "network"
)

type FetchError struct {
	Kind   FetchErrorKind
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.Status)
	case FetchTimeout:
		return fmt.Sprintf("fetch %s: timeout", e.URL)
	default:
		if e.Err != nil {
			return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
		}
		return fmt.Sprintf("fetch %s: network failure", e.URL)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchStatus reports the HTTP status carried by err, or 0 when err is not
// a status-kind FetchError.
func FetchStatus(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) && fe.Kind == FetchHTTPStatus {
		return fe.Status
	}
	return 0
}
