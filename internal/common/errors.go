// Package common defines sentinel errors shared across the service layers.
// Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrorUnavailable  = errors.New("not implemented")

	// Signup-specific conflicts. Both match ErrorAlreadyExists via errors.Is.
	ErrorEmailTaken    = fmt.Errorf("%w: email already registered", ErrorAlreadyExists)
	ErrorUsernameTaken = fmt.Errorf("%w: username already taken", ErrorAlreadyExists)

	// Token lifecycle errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
