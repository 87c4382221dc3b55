package output

import (
	"strings"

	"github.com/fatih/color"
)

const (
	// SeparatorWidth is the width of separator lines.
	SeparatorWidth = 48

	// SeparatorChar is the character used for separator lines.
	SeparatorChar = "─"
)

// Separator returns a separator line of the default width.
func Separator() string {
	return strings.Repeat(SeparatorChar, SeparatorWidth)
}

// Heading prints a bold title followed by a separator.
func (p *Printer) Heading(title string) {
	if p.quiet {
		return
	}
	bold := color.New(color.Bold)
	bold.Fprintln(p.out, title)
	color.New(color.FgHiBlack).Fprintln(p.out, Separator())
}
