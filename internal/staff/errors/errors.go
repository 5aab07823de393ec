package errors

import "errors"

var (
	ErrNotFound = errors.New("staff member not found")

	ErrAlreadyExists = errors.New("staff member already exists")
)
