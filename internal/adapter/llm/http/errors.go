package http

import "fmt"

// ErrorType represents the category of error that occurred.
type ErrorType int

const (
	ErrTypeAuthentication ErrorType = iota
	ErrTypeRateLimit
	ErrTypeServiceUnavailable
	ErrTypeInvalidRequest
	ErrTypeTimeout
	ErrTypeNotFound
	ErrTypeContentFiltered
	ErrTypeUnknown
)

// String returns a human-readable description of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrTypeAuthentication:
		return "authentication error"
	case ErrTypeRateLimit:
		return "rate limit exceeded"
	case ErrTypeServiceUnavailable:
		return "service unavailable"
	case ErrTypeInvalidRequest:
		return "invalid request"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeNotFound:
		return "not found"
	case ErrTypeContentFiltered:
		return "content filtered"
	default:
		return "unknown error"
	}
}

// Error is an HTTP client error with enough context to decide whether
// a retry is worthwhile. Provider names the remote service ("gemini",
// "github").
type Error struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Retryable  bool
	Provider   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s (status: %d)", e.Provider, e.Type.String(), e.Message, e.StatusCode)
}

// Is matches on error type so callers can use errors.Is with a
// sentinel of the same category.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsRetryable returns true if the error is retryable.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// FromStatusCode maps an HTTP status code to a typed error.
func FromStatusCode(provider string, statusCode int, message string) *Error {
	var (
		errType   ErrorType
		retryable bool
	)

	switch statusCode {
	case 401, 403:
		errType = ErrTypeAuthentication
	case 404:
		errType = ErrTypeNotFound
	case 400, 422:
		errType = ErrTypeInvalidRequest
	case 429:
		errType = ErrTypeRateLimit
		retryable = true
	default:
		if statusCode >= 500 {
			errType = ErrTypeServiceUnavailable
			retryable = true
		} else {
			errType = ErrTypeUnknown
		}
	}

	return &Error{
		Type:       errType,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Provider:   provider,
	}
}
