package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed or empty input.
	ErrValidation = fmt.Errorf("validation failed")
	// ErrAuthorization covers a non-participant acting on a conversation.
	ErrAuthorization = fmt.Errorf("not authorized")
	// ErrNotFound covers an absent conversation or user. It is surfaced to
	// callers with the same shape as ErrAuthorization so that membership
	// cannot be probed through error responses.
	ErrNotFound = fmt.Errorf("not found")
	// ErrPersistence wraps unexpected storage failures. Logged with context,
	// surfaced opaquely, never retried server-side.
	ErrPersistence = fmt.Errorf("persistence failure")

	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrInvalidPassword    = fmt.Errorf("password too weak")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	ErrWorkerPanic = fmt.Errorf("worker panic")
)

// WireError is the error envelope written back to the offending caller only.
// A failed operation produces zero fan-out frames to anyone else.
type WireError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MapToWireError collapses the internal taxonomy into caller-facing codes.
// NotFound deliberately maps to the same code and message as Authorization.
func MapToWireError(err error) WireError {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidPassword):
		return WireError{Code: 400, Message: err.Error()}
	case errors.Is(err, ErrInvalidCredentials):
		return WireError{Code: 401, Message: ErrInvalidCredentials.Error()}
	case errors.Is(err, ErrAuthorization), errors.Is(err, ErrNotFound):
		return WireError{Code: 403, Message: ErrAuthorization.Error()}
	case errors.Is(err, ErrUserAlreadyExists):
		return WireError{Code: 409, Message: ErrUserAlreadyExists.Error()}
	default:
		return WireError{Code: 500, Message: "internal error"}
	}
}
