// Package output renders human facing CLI output: colored status lines,
// key/value summaries and confirmation prompts.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes colored status lines for CLI feedback. Structured
// diagnostics go through slog; Printer is only for what the operator reads.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	quiet   bool
}

// NewPrinter creates a Printer writing to stdout and stderr.
func NewPrinter() *Printer {
	return NewPrinterTo(os.Stdout, os.Stderr)
}

// NewPrinterTo creates a Printer with explicit writers.
func NewPrinterTo(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// SetNoColor disables colored output globally.
func (p *Printer) SetNoColor(noColor bool) {
	color.NoColor = noColor
}

// SetVerbose enables Debug lines.
func (p *Printer) SetVerbose(verbose bool) {
	p.verbose = verbose
}

// SetQuiet suppresses everything except errors and Result lines.
func (p *Printer) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// Writer returns the primary output writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warn prints a yellow warning to stderr.
func (p *Printer) Warn(format string, args ...any) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow).Fprintf(p.errOut, "Warning: "+format+"\n", args...)
}

// Error prints a red error to stderr. It is never suppressed.
func (p *Printer) Error(format string, args ...any) {
	color.New(color.FgRed).Fprintf(p.errOut, "Error: "+format+"\n", args...)
}

// Success prints a green line with a checkmark.
func (p *Printer) Success(format string, args ...any) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
}

// Debug prints a gray line when verbose is on.
func (p *Printer) Debug(format string, args ...any) {
	if p.quiet || !p.verbose {
		return
	}
	color.New(color.FgHiBlack).Fprintf(p.out, "[DEBUG] "+format+"\n", args...)
}

// Field prints an aligned "label: value" pair with a cyan label.
func (p *Printer) Field(label string, value any) {
	if p.quiet {
		return
	}
	cyan := color.New(color.FgCyan)
	fmt.Fprintf(p.out, "  %s %v\n", cyan.Sprintf("%-14s", label+":"), value)
}

// Result prints a bare value, e.g. a signature or address. It ignores quiet
// so scripts can capture it.
func (p *Printer) Result(value string) {
	fmt.Fprintln(p.out, value)
}
