package fuzzy

import (
	"errors"
	"fmt"
	"testing"

	fzf "github.com/junegunn/fzf/src"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner simulates an fzf session by writing the selection to the
// captured stdout
type fakeRunner struct {
	selection string
	exitCode  int
	err       error
}

func (f *fakeRunner) Run(_ *fzf.Options) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.selection != "" {
		fmt.Println(f.selection)
	}
	return f.exitCode, nil
}

func TestPicker_Pick(t *testing.T) {
	picker := NewPickerWithRunner("Select repository:", &fakeRunner{
		selection: "acme/app  │  dockerhub",
		exitCode:  fzf.ExitOk,
	})

	value, err := picker.Pick([]Option{
		{Value: "acme/app", Description: "dockerhub"},
		{Value: "acme/worker", Description: "ecr-public"},
	})
	require.NoError(t, err)
	assert.Equal(t, "acme/app", value)
}

func TestPicker_Pick_WithoutDescription(t *testing.T) {
	picker := NewPickerWithRunner("Select:", &fakeRunner{
		selection: "acme/worker",
		exitCode:  fzf.ExitOk,
	})

	value, err := picker.Pick([]Option{{Value: "acme/worker"}})
	require.NoError(t, err)
	assert.Equal(t, "acme/worker", value)
}

func TestPicker_Pick_NoOptions(t *testing.T) {
	picker := NewPickerWithRunner("Select:", &fakeRunner{})

	_, err := picker.Pick(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no options")
}

func TestPicker_Pick_Cancelled(t *testing.T) {
	picker := NewPickerWithRunner("Select:", &fakeRunner{exitCode: fzf.ExitInterrupt})

	_, err := picker.Pick([]Option{{Value: "acme/app"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestPicker_Pick_RunnerError(t *testing.T) {
	picker := NewPickerWithRunner("Select:", &fakeRunner{err: errors.New("fzf exploded")})

	_, err := picker.Pick([]Option{{Value: "acme/app"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuzzy finder failed")
}
