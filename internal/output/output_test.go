package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	var out, errOut bytes.Buffer
	return NewPrinterTo(&out, &errOut), &out, &errOut
}

func TestPrinter(t *testing.T) {
	p, out, errOut := newTestPrinter()

	p.Info("sending %d lamports", 5)
	p.Success("confirmed")
	p.Debug("hidden")
	p.Warn("slow node")
	p.Error("boom")
	p.Field("Signature", "abc")

	assert.Contains(t, out.String(), "sending 5 lamports\n")
	assert.Contains(t, out.String(), "✓ confirmed\n")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "Signature:")
	assert.Contains(t, out.String(), "abc")
	assert.Contains(t, errOut.String(), "Warning: slow node")
	assert.Contains(t, errOut.String(), "Error: boom")
}

func TestPrinterVerbose(t *testing.T) {
	p, out, _ := newTestPrinter()
	p.SetVerbose(true)
	p.Debug("attempt %d", 2)
	assert.Contains(t, out.String(), "[DEBUG] attempt 2")
}

func TestPrinterQuiet(t *testing.T) {
	p, out, errOut := newTestPrinter()
	p.SetQuiet(true)

	p.Info("noise")
	p.Heading("Transfer")
	p.Result("5VfY")
	p.Error("still shown")

	assert.Equal(t, "5VfY\n", out.String())
	assert.Contains(t, errOut.String(), "still shown")
}

func TestTerminalConfirmerNotInteractive(t *testing.T) {
	c := &TerminalConfirmer{IsTTY: func() bool { return false }}
	err := c.Confirm("Send?")
	assert.ErrorIs(t, err, ErrNotInteractive)
}

func TestAutoConfirmer(t *testing.T) {
	require.NoError(t, AutoConfirmer{}.Confirm("Send?"))
	assert.ErrorIs(t, AutoConfirmer{Err: ErrCancelled}.Confirm("Send?"), ErrCancelled)
}

func TestHandleCancellation(t *testing.T) {
	assert.ErrorIs(t, handleCancellation(promptui.ErrAbort), ErrCancelled)
	assert.ErrorIs(t, handleCancellation(promptui.ErrInterrupt), ErrCancelled)
	assert.ErrorIs(t, handleCancellation(promptui.ErrEOF), ErrCancelled)

	other := errors.New("tty gone")
	assert.Equal(t, other, handleCancellation(other))
}
