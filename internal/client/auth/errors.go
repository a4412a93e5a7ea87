package auth

import (
	"errors"
	"fmt"
)

type Kind int

const (
	InvalidCredentials Kind = iota + 1
	NetworkFailure
)

func (k Kind) String() string {
	switch k {
	case InvalidCredentials:
		return "invalid_credentials"
	case NetworkFailure:
		return "network_failure"
	default:
		return "unknown"
	}
}

// AuthError is the only error Login returns.
type AuthError struct {
	Kind Kind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// KindOf returns the AuthError kind of err, or 0 when err is not an AuthError.
func KindOf(err error) Kind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return 0
}
