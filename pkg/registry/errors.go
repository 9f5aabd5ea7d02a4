package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorType represents different categories of registry errors
type ErrorType string

const (
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypePermission ErrorType = "permission"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeUpload     ErrorType = "upload"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a structured error from registry operations
type Error struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Resource  string    `json:"resource,omitempty"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new Error with the specified type and message
func NewError(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:      errorType,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryableErrorType(errorType),
	}
}

// WrapError wraps an arbitrary error into our structured error type,
// classifying network failures as retryable upload problems.
func WrapError(err error, resource string) *Error {
	if err == nil {
		return nil
	}

	var regErr *Error
	if errors.As(err, &regErr) {
		if regErr.Resource == "" {
			regErr.Resource = resource
		}
		return regErr
	}

	if errors.Is(err, context.DeadlineExceeded) || isNetworkError(err) {
		return &Error{
			Type:      ErrorTypeNetwork,
			Message:   "network error occurred, check your connection and try again",
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	return &Error{
		Type:      ErrorTypeUnknown,
		Message:   err.Error(),
		Cause:     err,
		Resource:  resource,
		Retryable: false,
	}
}

// ClassifyHTTPStatus maps an HTTP response status to a structured error.
// Used by backends that speak plain REST to the registry.
func ClassifyHTTPStatus(status int, body, resource string) *Error {
	baseErr := &Error{Resource: resource}

	switch status {
	case http.StatusUnauthorized:
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "authentication failed, check your registry credentials"
		baseErr.Retryable = false

	case http.StatusForbidden:
		baseErr.Type = ErrorTypePermission
		baseErr.Message = "insufficient permissions to update this repository"
		baseErr.Retryable = false

	case http.StatusNotFound:
		baseErr.Type = ErrorTypeNotFound
		baseErr.Message = "repository not found, check the repository name and your access permissions"
		baseErr.Retryable = false

	case http.StatusTooManyRequests:
		baseErr.Type = ErrorTypeRateLimit
		baseErr.Message = "registry rate limit exceeded, wait before retrying"
		baseErr.Retryable = true

	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		baseErr.Type = ErrorTypeValidation
		baseErr.Message = "registry rejected the description"
		baseErr.Retryable = false

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		baseErr.Type = ErrorTypeUpload
		baseErr.Message = "registry is temporarily unavailable"
		baseErr.Retryable = true

	default:
		baseErr.Type = ErrorTypeUpload
		baseErr.Message = fmt.Sprintf("unexpected registry response: status %d", status)
		baseErr.Retryable = status >= 500
	}

	if body != "" {
		baseErr.Message = fmt.Sprintf("%s: %s", baseErr.Message, strings.TrimSpace(body))
	}

	return baseErr
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"connection timeout",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
		"i/o timeout",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isRetryableErrorType determines if an error type is generally retryable
func isRetryableErrorType(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeRateLimit, ErrorTypeNetwork, ErrorTypeUpload:
		return true
	default:
		return false
	}
}

// RetryConfig defines configuration for retry logic
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the default retry configuration. A sync is a
// single atomic remote write, so the default is one attempt with no
// retries; callers opt in to retries per target.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    0,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryConfigWithRetries returns a retry configuration performing up to
// maxRetries additional attempts with exponential backoff.
func RetryConfigWithRetries(maxRetries int) *RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxRetries = maxRetries
	return cfg
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes an operation, retrying retryable errors with
// exponential backoff up to the configured attempt budget.
func WithRetry(operation RetryableOperation, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(delay)

			delay = time.Duration(float64(delay) * config.BackoffFactor)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		var regErr *Error
		if !errors.As(err, &regErr) || !regErr.IsRetryable() {
			return err
		}
	}

	if config.MaxRetries > 0 {
		return fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
	}
	return lastErr
}
