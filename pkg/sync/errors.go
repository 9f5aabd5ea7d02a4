package sync

import (
	"fmt"
	"strings"
)

// FileReadError reports a readme that is missing or unreadable. It is
// raised before any network call is attempted.
type FileReadError struct {
	Path  string `json:"path"`
	Cause error  `json:"-"`
}

// Error implements the error interface
func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read readme %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error
func (e *FileReadError) Unwrap() error {
	return e.Cause
}

// ValidationError represents a manifest validation error
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation error for field '%s' (value: %s): %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	if len(e) == 1 {
		return e[0].Error()
	}

	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed with %d errors: %s", len(e), strings.Join(messages, "; "))
}

// Add adds a validation error to the collection
func (e *ValidationErrors) Add(field, value, message string) {
	*e = append(*e, ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// PartialFailureError reports a multi-target run where some targets synced
// and others failed. Targets are independent, so one failure never stops
// the others.
type PartialFailureError struct {
	Succeeded []string         `json:"succeeded"`
	Failed    map[string]error `json:"failed"`
}

// Error implements the error interface
func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("sync completed with partial success: %d targets succeeded, %d failed",
		len(e.Succeeded), len(e.Failed))
}

// FailedTargets returns the identifiers of the targets that failed
func (e *PartialFailureError) FailedTargets() []string {
	var targets []string
	for target := range e.Failed {
		targets = append(targets, target)
	}
	return targets
}
