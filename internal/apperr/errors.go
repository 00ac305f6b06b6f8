// Package apperr defines sentinel errors shared across the application.
package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrDayExists  = errors.New("day already exists")
	ErrRunTimeout = errors.New("assistant run timed out")
)
