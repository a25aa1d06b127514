package models

import "errors"

var (
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidTransition  = errors.New("invalid booking status transition")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
)
