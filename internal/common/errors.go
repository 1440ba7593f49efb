// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exist")

	// Service-level errors.
	ErrInternal = errors.New("internal error")

	// Auth errors.
	ErrUnauthenticated    = errors.New("unauthorized")
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)

	// ErrValidation is the parent of every user-correctable input error.
	ErrValidation = errors.New("validation error")

	ErrMissingName     = fmt.Errorf("%w: missing name", ErrValidation)
	ErrMissingType     = fmt.Errorf("%w: missing type", ErrValidation)
	ErrMissingData     = fmt.Errorf("%w: missing data", ErrValidation)
	ErrInvalidData     = fmt.Errorf("%w: invalid data", ErrValidation)
	ErrMissingEmail    = fmt.Errorf("%w: missing email", ErrValidation)
	ErrMissingPassword = fmt.Errorf("%w: missing password", ErrValidation)
	ErrPasswordTooLong = fmt.Errorf("%w: password too long", ErrValidation)

	// Hierarchy errors.
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")

	// Content errors.
	ErrIsFolder           = errors.New("a folder doesn't have content")
	ErrStorageWriteFailed = errors.New("storage write failed")
	ErrContentMissing     = errors.New("content missing")
)
