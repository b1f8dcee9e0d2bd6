package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Section prints a titled demo section: a bold header followed by indented
// step lines.
type Section struct {
	writer  io.Writer
	noColor bool
}

// NewSection creates a section printer for the given writer
func NewSection(w io.Writer, noColor bool) *Section {
	return &Section{writer: w, noColor: noColor}
}

// Title prints a bold section header
func (s *Section) Title(format string, args ...any) {
	bold := color.New(color.Bold, color.FgGreen)
	if s.noColor {
		bold.DisableColor()
	}
	fmt.Fprintln(s.writer)
	bold.Fprintf(s.writer, format, args...)
	fmt.Fprintln(s.writer)
}

// Step prints one indented step line
func (s *Section) Step(format string, args ...any) {
	fmt.Fprintf(s.writer, "  "+format+"\n", args...)
}

// Result prints an indented, highlighted result line
func (s *Section) Result(format string, args ...any) {
	cyan := color.New(color.FgCyan)
	if s.noColor {
		cyan.DisableColor()
	}
	cyan.Fprintf(s.writer, "  → "+format+"\n", args...)
}
