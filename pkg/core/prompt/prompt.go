package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	coreerrors "github.com/angelospk/subgrab/pkg/core/errors"
)

// Prompter asks the user to resolve a choice the pipeline cannot make on
// its own. Implementations are injected so the pipeline is testable
// without a terminal.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(label string, options []string) (int, error)
	// Confirm asks a yes/no question.
	Confirm(label string) (bool, error)
}

// Terminal prompts on an interactive terminal. Prompts go to stderr so
// stdout stays reserved for the final output path.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a prompter over stdin/stderr.
func NewTerminal() *Terminal {
	return NewTerminalWithIO(os.Stdin, os.Stderr)
}

// NewTerminalWithIO creates a prompter over arbitrary streams.
func NewTerminalWithIO(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

// Select presents numbered options and reads a 1-based choice. Anything
// that is not a valid option number aborts the selection.
func (t *Terminal) Select(label string, options []string) (int, error) {
	fmt.Fprintln(t.out, label)
	for i, option := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, option)
	}
	fmt.Fprintf(t.out, "Enter choice [1-%d]: ", len(options))

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return 0, fmt.Errorf("%w: %v", coreerrors.ErrSelectionAborted, err)
	}
	answer := strings.TrimSpace(line)
	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > len(options) {
		return 0, fmt.Errorf("%w: invalid choice %q", coreerrors.ErrSelectionAborted, answer)
	}
	return choice - 1, nil
}

// Confirm asks a yes/no question, defaulting to no.
func (t *Terminal) Confirm(label string) (bool, error) {
	fmt.Fprintf(t.out, "%s [y/N]: ", label)

	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("%w: %v", coreerrors.ErrSelectionAborted, err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// ChooseOne picks a value from a small labeled set. A single option is
// returned without interaction; anything more is delegated to the
// prompter. An empty set aborts the selection.
func ChooseOne[T any](p Prompter, label string, options []T, render func(T) string) (T, error) {
	var zero T
	switch len(options) {
	case 0:
		return zero, fmt.Errorf("%w: no options to choose from", coreerrors.ErrSelectionAborted)
	case 1:
		return options[0], nil
	}

	labels := make([]string, len(options))
	for i, option := range options {
		labels[i] = render(option)
	}
	index, err := p.Select(label, labels)
	if err != nil {
		return zero, err
	}
	if index < 0 || index >= len(options) {
		return zero, fmt.Errorf("%w: choice %d out of range", coreerrors.ErrSelectionAborted, index)
	}
	return options[index], nil
}
