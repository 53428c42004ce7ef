package feed

import (
	"errors"
	"fmt"
	"time"
)

// ErrInputIncomplete is returned when a fetch is requested without both ends
// of the date range. Callers treat it as a silent no-op.
var ErrInputIncomplete = errors.New("date range incomplete")

// TransportError wraps a failure to reach the data source at all.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError is a non-success HTTP status from the data source.
type ResponseError struct {
	StatusCode int
	Status     string
	RetryAfter time.Duration
}

func (e *ResponseError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d", e.StatusCode)
	}
	return fmt.Sprintf("Request failed: %s", status)
}

// DecodeError is a response body that could not be understood.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Kind names the failure class of err for logs and the fetch journal.
func Kind(err error) string {
	var te *TransportError
	var re *ResponseError
	var de *DecodeError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInputIncomplete):
		return "input_incomplete"
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &re):
		return "response"
	case errors.As(err, &de):
		return "decode"
	default:
		return "unknown"
	}
}
