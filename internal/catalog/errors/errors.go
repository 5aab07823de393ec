package errors

import "errors"

var (
	ErrSectionNotFound = errors.New("section not found")

	ErrServiceNotFound = errors.New("service not found")

	ErrInvalidID = errors.New("invalid catalog ID format")

	ErrSectionInUse = errors.New("section still has services attached")
)
