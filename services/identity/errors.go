package identity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailInUse         = errors.New("an account with this email already exists")
	ErrSessionNotFound    = errors.New("session not found or expired")
	ErrRefreshUnavailable = errors.New("session cannot be refreshed")
)

// ProviderError wraps a failure reported by the remote identity service.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
