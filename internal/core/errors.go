// Package core provides the shared types, interfaces and error taxonomy
// for the quiz generation service.
package core

import (
	"fmt"
	"net/http"
)

// ErrorType classifies an APIError for propagation and HTTP mapping.
type ErrorType string

const (
	// ErrorTypeInvalidInput indicates a caller error (4xx); never retried.
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	// ErrorTypeProvider indicates a transient text-generation provider fault;
	// retried with backoff inside the orchestrator.
	ErrorTypeProvider ErrorType = "provider_error"
	// ErrorTypeParse indicates the provider response could not be parsed;
	// absorbed by the repair chain, never surfaced to callers.
	ErrorTypeParse ErrorType = "parse_error"
	// ErrorTypeTimeout indicates the generation wall-clock budget expired;
	// triggers the heuristic fallback, never surfaced as a failure.
	ErrorTypeTimeout ErrorType = "timeout_exceeded"
	// ErrorTypeValidation indicates structural defects that survived all
	// fallbacks; the only server-side generation failure.
	ErrorTypeValidation ErrorType = "validation_error"
	// ErrorTypeFetch indicates the content fetcher could not retrieve the
	// source article.
	ErrorTypeFetch ErrorType = "fetch_error"
	// ErrorTypeRateLimit indicates the client exceeded its request window.
	ErrorTypeRateLimit ErrorType = "rate_limit_error"
	// ErrorTypeNotFound indicates a missing resource.
	ErrorTypeNotFound ErrorType = "not_found_error"
)

// APIError is the error type crossing component boundaries.
type APIError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface.
func (e *APIError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the HTTP status code for this error.
func (e *APIError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeInvalidInput, ErrorTypeFetch:
		return http.StatusBadRequest
	case ErrorTypeRateLimit:
		return http.StatusTooManyRequests
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map for HTTP responses.
func (e *APIError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"type":    e.Type,
			"message": e.Message,
		},
	}
}

// NewInvalidInputError creates a caller error (400).
func NewInvalidInputError(message string, err error) *APIError {
	return &APIError{
		Type:       ErrorTypeInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewProviderError creates a transient provider error (502).
func NewProviderError(message string, err error) *APIError {
	return &APIError{
		Type:       ErrorTypeProvider,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// NewParseError creates a parse error. It stays inside the orchestrator's
// degradation chain.
func NewParseError(message string, err error) *APIError {
	return &APIError{
		Type:    ErrorTypeParse,
		Message: message,
		Err:     err,
	}
}

// NewTimeoutError creates a budget-exhaustion error. It stays inside the
// generation pipeline: the orchestrator absorbs it into the heuristic
// fallback rather than surfacing it.
func NewTimeoutError(message string) *APIError {
	return &APIError{
		Type:    ErrorTypeTimeout,
		Message: message,
	}
}

// NewValidationError creates a structural validation error (500).
func NewValidationError(message string, err error) *APIError {
	return &APIError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewFetchError creates a content-fetch error (400).
func NewFetchError(message string, err error) *APIError {
	return &APIError{
		Type:       ErrorTypeFetch,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        err,
	}
}

// NewRateLimitError creates a rate limit error (429).
func NewRateLimitError(message string) *APIError {
	return &APIError{
		Type:       ErrorTypeRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

// NewNotFoundError creates a not found error (404).
func NewNotFoundError(message string) *APIError {
	return &APIError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}
