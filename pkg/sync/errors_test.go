package sync

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileReadError(t *testing.T) {
	cause := os.ErrNotExist
	err := &FileReadError{Path: "README.md", Cause: cause}

	assert.Contains(t, err.Error(), "README.md")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.False(t, errs.HasErrors())
	assert.Equal(t, "validation failed", errs.Error())

	errs.Add("targets[0].repository", "bad", "expected owner/name")
	assert.True(t, errs.HasErrors())
	assert.Contains(t, errs.Error(), "targets[0].repository")
	assert.Contains(t, errs.Error(), "bad")

	errs.Add("targets[0].registry", "", "registry is required")
	assert.Contains(t, errs.Error(), "2 errors")
}

func TestPartialFailureError(t *testing.T) {
	err := &PartialFailureError{
		Succeeded: []string{"acme/app"},
		Failed: map[string]error{
			"acme/worker": errors.New("upload failed"),
		},
	}

	assert.Contains(t, err.Error(), "1 targets succeeded, 1 failed")
	require.Len(t, err.FailedTargets(), 1)
	assert.Equal(t, "acme/worker", err.FailedTargets()[0])
}
