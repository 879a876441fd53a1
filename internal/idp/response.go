package idp

import (
	"errors"
	"fmt"
	"net/http"
)

// Response carries a status from {200, 401, 404, 500} and, on 200, a body.
type Response[T any] struct {
	Status int
	Body   *T
}

func OK[T any](body T) Response[T] {
	return Response[T]{Status: http.StatusOK, Body: &body}
}

// Status builds a body-less response.
func Status[T any](code int) Response[T] {
	return Response[T]{Status: code}
}

func (r Response[T]) IsOK() bool {
	return r.Status == http.StatusOK && r.Body != nil
}

// Error is returned by operations that have no response body.
type Error struct {
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StatusOf returns the status carried by err, 200 for nil and 500 otherwise.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
