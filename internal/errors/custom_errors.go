package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.OriginalError == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Error codes
const (
	ErrCodeMissingInput             = "MISSING_INPUT"
	ErrCodeUpstreamUnavailable      = "UPSTREAM_UNAVAILABLE"
	ErrCodeUpstreamTimeout          = "UPSTREAM_TIMEOUT"
	ErrCodeMalformedUpstreamPayload = "MALFORMED_UPSTREAM_PAYLOAD"
	ErrCodeInvalidQuery             = "INVALID_QUERY"
	ErrCodeRateLimited              = "RATE_LIMITED"
	ErrCodeInternal                 = "INTERNAL_ERROR"
)

// Sentinels for the upstream failure taxonomy. Clients wrap them with %w.
var (
	ErrMissingInput             = errors.New("postcode required")
	ErrUpstreamUnavailable      = errors.New("upstream unavailable")
	ErrUpstreamTimeout          = errors.New("upstream timeout")
	ErrMalformedUpstreamPayload = errors.New("malformed upstream payload")
	ErrInvalidQuery             = errors.New("invalid upstream query")
)

// User-facing messages
const (
	MsgMissingInput  = "Postcode required"
	MsgRateLimited   = "You're searching too quickly! Please wait a moment and try again."
	MsgInternalError = "Something went wrong on our end. Please try again later."
)
