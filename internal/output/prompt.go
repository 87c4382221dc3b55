package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal.
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal (use --yes)")

// ErrCancelled is returned when the operator declines or interrupts a prompt.
var ErrCancelled = errors.New("cancelled by user")

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(label string) error
}

// TerminalConfirmer prompts on the controlling terminal with promptui.
type TerminalConfirmer struct {
	Stdin  io.ReadCloser
	Stdout io.WriteCloser
	// IsTTY reports whether stdin is interactive. Defaults to term.IsTerminal.
	IsTTY func() bool
}

// NewTerminalConfirmer returns a confirmer bound to the process stdio.
func NewTerminalConfirmer() *TerminalConfirmer {
	return &TerminalConfirmer{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		IsTTY:  func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// Confirm returns nil when the operator answers yes.
func (c *TerminalConfirmer) Confirm(label string) error {
	if c.IsTTY != nil && !c.IsTTY() {
		return ErrNotInteractive
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     c.Stdin,
		Stdout:    c.Stdout,
	}
	if _, err := prompt.Run(); err != nil {
		return handleCancellation(err)
	}
	return nil
}

// AutoConfirmer answers every prompt with a fixed result.
type AutoConfirmer struct {
	Err error
}

// Confirm returns the configured result.
func (a AutoConfirmer) Confirm(string) error {
	return a.Err
}

// handleCancellation maps promptui's abort and decline errors to ErrCancelled.
// IsConfirm prompts return ErrAbort on "n".
func handleCancellation(err error) error {
	switch {
	case errors.Is(err, promptui.ErrAbort),
		errors.Is(err, promptui.ErrInterrupt),
		errors.Is(err, promptui.ErrEOF):
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	default:
		return err
	}
}
