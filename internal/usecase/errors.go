package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrQuotaExhausted        = errors.New("daily api quota exhausted")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
