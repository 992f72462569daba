package shiprocket

import (
	"errors"
	"fmt"
)

// Kind classifies an integration failure.
type Kind string

const (
	// KindValidation indicates malformed or incomplete caller input.
	KindValidation Kind = "validation"

	// KindAuth indicates the credential exchange with Shiprocket failed.
	KindAuth Kind = "auth"

	// KindSubmission indicates Shiprocket rejected the order with a non-2xx response.
	KindSubmission Kind = "submission"

	// KindTransport indicates a network-level failure before a response was read.
	KindTransport Kind = "transport"

	// KindMetadataWrite indicates the post-success metadata write-back failed.
	KindMetadataWrite Kind = "metadata_write"
)

// Error represents an error from the Shiprocket integration.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("shiprocket %s error: %s", e.Kind, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for Error. Two errors match when their kinds match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(kind Kind, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

// WithStatusCode adds the carrier's HTTP status code to the error.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// WithBody adds the carrier's response body to the error.
func (e *Error) WithBody(body string) *Error {
	e.Body = body
	return e
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// ErrorKind returns the kind of err, or the empty Kind when err is not
// an integration Error.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsValidation reports whether err is a caller-input validation error.
func IsValidation(err error) bool { return ErrorKind(err) == KindValidation }

// IsAuth reports whether err is a credential-exchange error.
func IsAuth(err error) bool { return ErrorKind(err) == KindAuth }

// IsSubmission reports whether err is a carrier rejection.
func IsSubmission(err error) bool { return ErrorKind(err) == KindSubmission }

// IsTransport reports whether err is a network-level failure.
func IsTransport(err error) bool { return ErrorKind(err) == KindTransport }
