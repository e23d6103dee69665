package service

import (
	"errors"

	"github.com/stockroom/stockroom/internal/repo"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Not-found and not-owned are deliberately the same error: callers must
	// not be able to probe for other tenants' items.
	ErrNotFound           = repo.ErrNotFound
	ErrInvalidCredentials = repo.ErrInvalidCredentials
	ErrUserAlreadyExists  = repo.ErrUserAlreadyExists
)
