package fuzzy

import (
	"fmt"
	"io"
	"os"
	"strings"

	fzf "github.com/junegunn/fzf/src"
)

// Option is one selectable entry
type Option struct {
	Value       string
	Description string
}

// Runner abstracts the fzf engine so tests can substitute a fake
type Runner interface {
	Run(opts *fzf.Options) (int, error)
}

// fzfRunner runs the real fzf library
type fzfRunner struct{}

func (fzfRunner) Run(opts *fzf.Options) (int, error) {
	return fzf.Run(opts)
}

// Picker presents an interactive fuzzy selection of options
type Picker struct {
	prompt string
	runner Runner
}

// NewPicker creates a picker backed by the fzf library
func NewPicker(prompt string) *Picker {
	return &Picker{prompt: prompt, runner: fzfRunner{}}
}

// NewPickerWithRunner creates a picker with a custom runner (for testing)
func NewPickerWithRunner(prompt string, runner Runner) *Picker {
	return &Picker{prompt: prompt, runner: runner}
}

// Pick runs the fuzzy finder over the options and returns the selected
// value. Cancelling the selection is an error.
func (p *Picker) Pick(options []Option) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("no options available")
	}

	input, err := os.CreateTemp("", "regsync-pick-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() { _ = os.Remove(input.Name()) }()

	for _, option := range options {
		line := option.Value
		if option.Description != "" {
			line = fmt.Sprintf("%s  │  %s", option.Value, option.Description)
		}
		if _, err := fmt.Fprintln(input, line); err != nil {
			_ = input.Close()
			return "", fmt.Errorf("failed to write option: %w", err)
		}
	}
	if err := input.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	opts, err := fzf.ParseOptions(true, []string{
		"--prompt=" + p.prompt + " ",
		"--height=10",
		"--no-multi",
		"--cycle",
		"--tiebreak=length",
		"--no-mouse",
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse fzf options: %w", err)
	}

	// fzf reads candidates from stdin and writes the selection to stdout
	inputForReading, err := os.Open(input.Name())
	if err != nil {
		return "", fmt.Errorf("failed to open temporary file: %w", err)
	}
	defer func() { _ = inputForReading.Close() }()

	originalStdin, originalStdout := os.Stdin, os.Stdout
	defer func() {
		os.Stdin = originalStdin
		os.Stdout = originalStdout
	}()

	r, w, err := os.Pipe()
	if err != nil {
		return "", fmt.Errorf("failed to create pipe: %w", err)
	}
	defer func() { _ = r.Close() }()

	os.Stdin = inputForReading
	os.Stdout = w

	exitCode, runErr := p.runner.Run(opts)

	_ = w.Close()
	os.Stdin = originalStdin
	os.Stdout = originalStdout

	if runErr != nil {
		return "", fmt.Errorf("fuzzy finder failed: %w", runErr)
	}
	if exitCode != fzf.ExitOk {
		return "", fmt.Errorf("selection cancelled")
	}

	selected, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read selection: %w", err)
	}

	value, _, _ := strings.Cut(strings.TrimSpace(string(selected)), "  │  ")
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("no selection made")
	}
	return value, nil
}
