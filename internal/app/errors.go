package app

import "errors"

// Stable error codes for failures that cross the app boundary (CLI exit
// codes, API status mapping).
const (
	CodeUserNotFound       = "user_not_found"
	CodeStructuralMismatch = "structural_mismatch"
	CodePageUnavailable    = "page_unavailable"
)

type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

// IsCode reports whether err carries the given stable code.
func IsCode(err error, code string) bool {
	var ce *CodedError
	return errors.As(err, &ce) && ce.Code == code
}
