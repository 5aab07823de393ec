package errors

import "errors"

var (
	ErrNotFound = errors.New("rdv not found")

	ErrInvalidID = errors.New("invalid rdv ID format")
)
