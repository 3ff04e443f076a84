// internal/domain/homework/errors.go
package homework

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags every failure the poll loop can observe.
type Kind string

const (
	KindTransport      Kind = "TRANSPORT"
	KindUpstreamStatus Kind = "UPSTREAM_STATUS"
	KindShape          Kind = "SHAPE"
	KindMissingField   Kind = "MISSING_FIELD"
	KindUnknownStatus  Kind = "UNKNOWN_STATUS"
	KindUnexpected     Kind = "UNEXPECTED"
)

// TransportError means the request never produced an HTTP response.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to the homework API failed: %v", e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// UpstreamStatusError means the API answered with something other than 200.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("homework API responded with status %d", e.StatusCode)
}

// ShapeError means the payload does not look like a homework status response.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "unexpected API response: " + e.Reason
}

// MissingFieldError means a work item lacks a required key.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is missing in homework", e.Field)
}

// UnknownStatusError means a work item carries a status with no verdict.
type UnknownStatusError struct {
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown homework status %q", e.Status)
}

// UnexpectedError wraps anything outside the known kinds, including recovered panics.
type UnexpectedError struct {
	Cause error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected failure: %v", e.Cause)
}

func (e *UnexpectedError) Unwrap() error { return e.Cause }

// KindOf classifies err. Errors outside the taxonomy report KindUnexpected.
func KindOf(err error) Kind {
	var (
		transportErr *TransportError
		statusErr    *UpstreamStatusError
		shapeErr     *ShapeError
		missingErr   *MissingFieldError
		unknownErr   *UnknownStatusError
	)
	switch {
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &statusErr):
		return KindUpstreamStatus
	case errors.As(err, &shapeErr):
		return KindShape
	case errors.As(err, &missingErr):
		return KindMissingField
	case errors.As(err, &unknownErr):
		return KindUnknownStatus
	default:
		return KindUnexpected
	}
}
