package apiclient

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies which of the three failure shapes a backend call produced.
type Kind string

const (
	KindValidation Kind = "validation"
	KindMessage    Kind = "message"
	KindTransport  Kind = "transport"
)

// Failure is implemented by every error the client returns for a failed call.
// Callers match it with errors.As and render Notices one per line.
type Failure interface {
	error
	Kind() Kind
	Notices() []string
	HTTPStatus() int
}

// FieldError is one element of the backend's validation array.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	if f.Field == "" {
		return f.Message
	}
	return f.Field + " " + f.Message
}

// ValidationError carries a non-empty list of field errors.
type ValidationError struct {
	Status int
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Notices(), "; ")
}

func (e *ValidationError) Kind() Kind      { return KindValidation }
func (e *ValidationError) HTTPStatus() int { return e.Status }

func (e *ValidationError) Notices() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.String())
	}
	return out
}

// MessageError carries the backend's single message string.
type MessageError struct {
	Status  int
	Message string
}

func (e *MessageError) Error() string     { return e.Message }
func (e *MessageError) Kind() Kind        { return KindMessage }
func (e *MessageError) HTTPStatus() int   { return e.Status }
func (e *MessageError) Notices() []string { return []string{e.Message} }

// TransportError is used when the response carried neither shape, or there was
// no response at all. Status is 0 for network failures.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string     { return e.Err.Error() }
func (e *TransportError) Unwrap() error     { return e.Err }
func (e *TransportError) Kind() Kind        { return KindTransport }
func (e *TransportError) HTTPStatus() int   { return e.Status }
func (e *TransportError) Notices() []string { return []string{e.Err.Error()} }

func statusError(status int) *TransportError {
	return &TransportError{Status: status, Err: fmt.Errorf("request failed with status code %d", status)}
}

// Notices returns the user-visible lines for err. Errors that did not come from
// the client yield their own text.
func Notices(err error) []string {
	if err == nil {
		return nil
	}
	var f Failure
	if errors.As(err, &f) {
		return f.Notices()
	}
	return []string{err.Error()}
}

// StatusCode returns the HTTP status behind err, or 0 when there was none.
func StatusCode(err error) int {
	var f Failure
	if errors.As(err, &f) {
		return f.HTTPStatus()
	}
	return 0
}

// IsStatus reports whether err came from a response with the given status.
func IsStatus(err error, status int) bool {
	return err != nil && StatusCode(err) == status
}
