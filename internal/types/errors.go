package types

import (
	"fmt"
	"net/http"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Complete error code constants.
// All tools MUST use these constants instead of hardcoded strings.
const (
	// Input validation (before any network call)
	ErrCodeInputUnsupportedFormat ErrorCode = "input_unsupported_file_format"
	ErrCodeInputMalformed         ErrorCode = "input_malformed_record"
	ErrCodeInputEmpty             ErrorCode = "input_empty_file"
	ErrCodeInputInvalidCase       ErrorCode = "input_invalid_test_case"
	ErrCodeInputBatchSize         ErrorCode = "input_batch_size_out_of_range"

	// Freeplay API (upstream)
	ErrCodeUpstreamAuth        ErrorCode = "upstream_auth_rejected"
	ErrCodeUpstreamNotFound    ErrorCode = "upstream_not_found"
	ErrCodeUpstreamRejected    ErrorCode = "upstream_request_rejected"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"
	ErrCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"

	// Internal
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// CodeForStatus maps an upstream HTTP status code to the ErrorCode used when
// reporting that failure. Client code uses this to translate non-success
// responses from the Freeplay API into AppErrors.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeUpstreamAuth
	case status == http.StatusNotFound:
		return ErrCodeUpstreamNotFound
	case status == http.StatusTooManyRequests:
		return ErrCodeUpstreamRateLimited
	case status >= 500:
		return ErrCodeUpstreamUnavailable
	case status >= 400:
		return ErrCodeUpstreamRejected
	default:
		return ErrCodeInternalUnexpected
	}
}

// AppError is the standard application error type used throughout the tools.
// All domain errors should be expressed as AppError to enable consistent
// error formatting, exit-status decisions, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails returns a copy of the error with the provided details merged in.
// This is useful for adding context without mutating the original error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: merged,
	}
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error. This is the standard constructor for domain errors.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError with the given code, message,
// underlying error, and structured details.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
