package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Printer writes human-facing messages. Colors are only emitted when the
// destination is a terminal.
type Printer struct {
	out   io.Writer
	color bool
}

// NewPrinter creates a printer on out, detecting color support
func NewPrinter(out io.Writer) *Printer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &Printer{out: out, color: color}
}

// NewPlainPrinter creates a printer that never emits colors
func NewPlainPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Messages go to stderr so stdout can carry results
var std = NewPrinter(os.Stderr)

const (
	cyan    = "\033[36m"
	yellow  = "\033[33m"
	red     = "\033[31m"
	green   = "\033[32m"
	magenta = "\033[35m"
	reset   = "\033[0m"
)

func (p *Printer) paint(code, text string) string {
	if !p.color {
		return text
	}
	return code + text + reset
}

// Error prints an error message in red, followed by err when given
func (p *Printer) Error(msg string, err error) {
	if err != nil {
		msg = msg + ": " + err.Error()
	}
	fmt.Fprintln(p.out, p.paint(red, msg))
}

// Success prints a success message in green
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.paint(green, msg))
}

// Info prints a label/value pair
func (p *Printer) Info(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(cyan, label), p.paint(yellow, value))
}

// Warning prints a warning message in yellow
func (p *Printer) Warning(msg string) {
	fmt.Fprintln(p.out, p.paint(yellow, msg))
}

// Highlight prints a highlighted message in magenta
func (p *Printer) Highlight(msg string) {
	fmt.Fprintln(p.out, p.paint(magenta, msg))
}

func PrintError(msg string, err error)     { std.Error(msg, err) }
func PrintSuccess(msg string)              { std.Success(msg) }
func PrintInfo(label string, value string) { std.Info(label, value) }
func PrintWarning(msg string)              { std.Warning(msg) }
func PrintHighlight(msg string)            { std.Highlight(msg) }
