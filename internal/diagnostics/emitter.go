package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Emitter handles the rendering and output of diagnostics
type Emitter struct {
	writer io.Writer
	color  bool
}

// NewEmitter renders to w. Colors are used only when w is a terminal.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{writer: w, color: IsTerminal(w)}
}

// NewPlainEmitter renders to w without colors.
func NewPlainEmitter(w io.Writer) *Emitter {
	return &Emitter{writer: w}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (e *Emitter) paint(color, s string) string {
	if !e.color {
		return s
	}
	return color + s + colorReset
}

// Emit writes one diagnostic.
func (e *Emitter) Emit(d *Diagnostic) {
	fmt.Fprintf(e.writer, "%s: %s\n", e.paint(colorRed, string(d.Kind)), d.Message)
	if len(d.Path) > 0 {
		fmt.Fprintf(e.writer, "  %s %s\n", e.paint(colorGray, "-->"), e.paint(colorCyan, d.Path.String()))
	}
	if d.Expected != nil {
		fmt.Fprintf(e.writer, "  %s %s\n", e.paint(colorGray, "expected:"), d.Expected)
	}
	if d.Actual != nil {
		fmt.Fprintf(e.writer, "  %s %s\n", e.paint(colorGray, "actual:  "), d.Actual)
	}
}

// EmitAll writes ds in order.
func (e *Emitter) EmitAll(ds []*Diagnostic) {
	for _, d := range ds {
		e.Emit(d)
	}
}

// Heading writes a check title with its pass/fail status.
func (e *Emitter) Heading(title string, ok bool) {
	status := e.paint(colorGreen, "ok")
	if !ok {
		status = e.paint(colorRed, "FAIL")
	}
	fmt.Fprintf(e.writer, "%s %s\n", status, title)
}

// Note writes an indented informational line.
func (e *Emitter) Note(format string, args ...interface{}) {
	fmt.Fprintf(e.writer, "  %s\n", e.paint(colorYellow, fmt.Sprintf(format, args...)))
}

// Summary writes the final count line.
func (e *Emitter) Summary(checks, failed int) {
	if failed == 0 {
		fmt.Fprintf(e.writer, "\n%s\n", e.paint(colorGreen, fmt.Sprintf("%d check(s) passed", checks)))
		return
	}
	fmt.Fprintf(e.writer, "\n%s\n", e.paint(colorRed, fmt.Sprintf("%d of %d check(s) failed", failed, checks)))
}
