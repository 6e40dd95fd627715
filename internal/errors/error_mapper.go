package errors

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// MapError converts a technical error into a user-friendly AppError.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	technicalMessage := err.Error()

	switch Classify(err) {
	case ErrCodeMissingInput:
		return NewAppError(technicalMessage, MsgMissingInput, ErrCodeMissingInput, http.StatusBadRequest, err)
	default:
		return NewAppError(technicalMessage, MsgInternalError, ErrCodeInternal, http.StatusInternalServerError, err)
	}
}

// Classify returns the taxonomy code for err. Deadline errors and network
// timeouts count as UPSTREAM_TIMEOUT; anything unrecognised is
// UPSTREAM_UNAVAILABLE so that a failed fetch is always attributable.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}

	var netErr net.Error
	switch {
	case errors.Is(err, ErrMissingInput):
		return ErrCodeMissingInput
	case errors.Is(err, ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeUpstreamTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return ErrCodeUpstreamTimeout
	case errors.Is(err, ErrMalformedUpstreamPayload):
		return ErrCodeMalformedUpstreamPayload
	case errors.Is(err, ErrInvalidQuery):
		return ErrCodeInvalidQuery
	default:
		return ErrCodeUpstreamUnavailable
	}
}

// IsMissingInput reports whether err is the one client-facing failure.
func IsMissingInput(err error) bool {
	return Classify(err) == ErrCodeMissingInput
}
