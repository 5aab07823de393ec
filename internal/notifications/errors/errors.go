package errors

import "errors"

var (
	ErrTokenNotFound = errors.New("device token not found")

	// ErrUnregistered means the push service no longer knows the token,
	// the device uninstalled the app or rotated its registration.
	ErrUnregistered = errors.New("device token no longer registered")
)
