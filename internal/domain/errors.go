package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery     = errors.New("invalid query")
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrInvalidQuery)
	ErrProductNotFound  = errors.New("product not found")
	ErrNetwork          = errors.New("catalog service unavailable")
	ErrSessionNotFound  = errors.New("session not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidQuantity  = errors.New("invalid quantity")
	ErrCartItemNotFound = errors.New("item not in cart")

	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrCartNotFound       = errors.New("cart not found")
)

// RemoteError is a transport failure or non-2xx response from the remote catalog.
// It matches ErrNetwork under errors.Is.
type RemoteError struct {
	Op         string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: remote status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrNetwork
}

// NormalizationError reports a remote value of unexpected shape that was
// coerced instead of rejected.
type NormalizationError struct {
	Field string
	Raw   string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("unexpected %s shape, coerced from %s", e.Field, e.Raw)
}
