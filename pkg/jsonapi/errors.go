package jsonapi

import (
	"fmt"
	"net/http"
	"strconv"
)

// ErrorBuilder builds Error values.
type ErrorBuilder struct {
	err Error
}

// NewError starts an error with an HTTP status, a machine code and a title.
func NewError(status int, code, title string) *ErrorBuilder {
	return &ErrorBuilder{err: Error{Status: strconv.Itoa(status), Code: code, Title: title}}
}

// Detail sets the human-readable detail.
func (b *ErrorBuilder) Detail(detail string) *ErrorBuilder {
	b.err.Detail = detail
	return b
}

// Detailf sets a formatted detail.
func (b *ErrorBuilder) Detailf(format string, args ...any) *ErrorBuilder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

// Pointer sets the JSON pointer of the offending body member, e.g. "/iban".
func (b *ErrorBuilder) Pointer(pointer string) *ErrorBuilder {
	if b.err.Source == nil {
		b.err.Source = &ErrorSource{}
	}
	b.err.Source.Pointer = pointer
	return b
}

// Parameter sets the offending query parameter.
func (b *ErrorBuilder) Parameter(param string) *ErrorBuilder {
	if b.err.Source == nil {
		b.err.Source = &ErrorSource{}
	}
	b.err.Source.Parameter = param
	return b
}

// Meta adds an error metadata entry.
func (b *ErrorBuilder) Meta(key string, value any) *ErrorBuilder {
	if b.err.Meta == nil {
		b.err.Meta = make(Meta)
	}
	b.err.Meta[key] = value
	return b
}

// Build returns the error.
func (b *ErrorBuilder) Build() Error {
	return b.err
}

// StatusCode returns the status as an int, or 0 if it is not numeric.
func (e Error) StatusCode() int {
	code, _ := strconv.Atoi(e.Status)
	return code
}

// ErrBadRequest is a 400 error.
func ErrBadRequest(detail string) Error {
	return NewError(http.StatusBadRequest, "bad_request", "Bad Request").Detail(detail).Build()
}

// ErrInvalidParameter is a 400 error for a query parameter.
func ErrInvalidParameter(param, reason string) Error {
	return NewError(http.StatusBadRequest, "invalid_parameter", "Invalid Parameter").
		Detailf("%s %s", param, reason).
		Parameter(param).
		Build()
}

// ErrNotFoundWithID is a 404 error for a missing resource.
func ErrNotFoundWithID(resourceType, id string) Error {
	return NewError(http.StatusNotFound, "not_found", "Not Found").
		Detailf("The %s with ID '%s' was not found", resourceType, id).
		Build()
}

// ErrRouteNotFound is a 404 error for an unknown path.
func ErrRouteNotFound(path string) Error {
	return NewError(http.StatusNotFound, "route_not_found", "Not Found").
		Detailf("No route matches %s", path).
		Build()
}

// ErrMethodNotAllowed is a 405 error.
func ErrMethodNotAllowed(method string) Error {
	return NewError(http.StatusMethodNotAllowed, "method_not_allowed", "Method Not Allowed").
		Detailf("The %s method is not allowed for this resource", method).
		Build()
}

// ErrConflict is a 409 error.
func ErrConflict(detail string) Error {
	return NewError(http.StatusConflict, "conflict", "Conflict").Detail(detail).Build()
}

// ErrUnsupportedMediaType is a 415 error.
func ErrUnsupportedMediaType(got string) Error {
	return NewError(http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported Media Type").
		Detailf("Content-Type %q is not accepted", got).
		Build()
}

// ErrRejected is a 422 error for a value refused by a primitive. An empty
// field leaves the source unset.
func ErrRejected(field, primitive, reason string) Error {
	b := NewError(http.StatusUnprocessableEntity, "rejected", "Validation Failed").Detail(reason)
	if field != "" {
		b.Pointer("/" + field)
	}
	if primitive != "" {
		b.Meta("primitive", primitive)
	}
	return b.Build()
}

// ErrInternal is a 500 error. The detail never carries the cause.
func ErrInternal() Error {
	return NewError(http.StatusInternalServerError, "internal_error", "Internal Server Error").
		Detail("An internal error occurred").
		Build()
}
