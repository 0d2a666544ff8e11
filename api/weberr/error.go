package weberr

import (
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type RequestError struct {
	Err error
}

func (r *RequestError) Error() string { return r.Err.Error() }

func (e *RequestError) Unwrap() error { return e.Err }

func NewError(err error, msg string, status int, opts ...Opt) error {
	e := &RequestError{Err: err}
	opts = append(opts, WithResponse(
		&ErrorResponse{msg},
		status,
	))

	return Wrap(e, opts...)
}

func NotFound(err error, opts ...Opt) error {
	return NewError(
		err,
		"the resource could not be found",
		http.StatusNotFound,
		opts...,
	)
}

// NotAuthenticated rejects requests whose bearer token did not verify.
func NotAuthenticated(err error, opts ...Opt) error {
	return NewError(
		err,
		"Unauthorized, invalid credential",
		http.StatusUnauthorized,
		opts...,
	)
}

// NoCredential rejects requests that carry no bearer token at all.
func NoCredential(err error, opts ...Opt) error {
	return NewError(
		err,
		"Unauthorized, no credential supplied",
		http.StatusForbidden,
		opts...,
	)
}

// Forbidden rejects authenticated callers whose role does not grant the
// route.
func Forbidden(err error, opts ...Opt) error {
	return NewError(
		err,
		"Forbidden",
		http.StatusForbidden,
		opts...,
	)
}

func InternalError(err error, opts ...Opt) error {
	return NewError(
		err,
		"the server encountered a problem and could not process your request",
		http.StatusInternalServerError,
		opts...,
	)
}

func BadRequest(err error, opts ...Opt) error {
	return NewError(
		err,
		"bad request",
		http.StatusBadRequest,
		opts...,
	)
}
