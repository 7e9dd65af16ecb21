package apiclient

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// TransportError means no HTTP response was obtained.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// EncodeError means the request body could not be serialized, so nothing
// was sent.
type EncodeError struct {
	Method string
	URL    string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s %s body: %v", e.Method, e.URL, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// APIError is a non-2xx response.
type APIError struct {
	Status      int
	Description string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Description)
	}
	return fmt.Sprintf("api error %d %s", e.Status, http.StatusText(e.Status))
}

// NotFoundError is a 404 response.
type NotFoundError struct{ APIError }

func (e *NotFoundError) Unwrap() error { return &e.APIError }

// ConflictError is a 409 response.
type ConflictError struct{ APIError }

func (e *ConflictError) Unwrap() error { return &e.APIError }

// ValidationError is a 400 or 422 response. FieldErrors maps each rejected
// field to its message.
type ValidationError struct {
	APIError
	FieldErrors map[string]string
}

func (e *ValidationError) Unwrap() error { return &e.APIError }

func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		return e.APIError.Error()
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.fieldSummary())
}

func (e *ValidationError) fieldSummary() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.FieldErrors[f])
	}
	return strings.Join(parts, "; ")
}
