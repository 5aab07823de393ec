package errors

import "errors"

var (
	ErrNotFound = errors.New("salon configuration not found")
)
