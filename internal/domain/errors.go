package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidPrompt       = errors.New("invalid prompt")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrBonusUnavailable    = errors.New("first-time bonus unavailable")
	ErrProviderFailure     = errors.New("provider failure")
)
