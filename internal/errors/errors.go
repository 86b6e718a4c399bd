// Package errors accumulates translator diagnostics without ever raising:
// a unit is translated to completion regardless of how many problems are
// found, and the driver consults the final count to decide whether to
// proceed.
package errors

import (
	"fmt"
	"io"

	"github.com/kr/text"
	"github.com/mattn/go-isatty"
)

// Kind identifies the category of a diagnostic.
type Kind string

const (
	UnsupportedConstruct         Kind = "unsupported construct"
	UnsupportedLiteral           Kind = "unsupported literal"
	UnsupportedBindingForm       Kind = "unsupported binding form"
	UnsupportedStatementForm     Kind = "unsupported statement form"
	UnsupportedFStringConversion Kind = "unsupported f-string conversion"
	SurrogateInString            Kind = "surrogate in string"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Kind    Kind
	Path    string
	Line    int // 0 if unavailable
	Message string
	Notes   []string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", d.Path, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Path, d.Message)
}

// Sink collects diagnostics for one translation unit. The zero value is
// ready to use.
type Sink struct {
	Path string
	diags []Diagnostic
}

// NewSink returns a Sink for the given source path.
func NewSink(path string) *Sink { return &Sink{Path: path} }

// Report records a diagnostic and returns it (for chaining into a caller's
// placeholder-node construction).
func (s *Sink) Report(kind Kind, line int, message string, notes ...string) Diagnostic {
	d := Diagnostic{Kind: kind, Path: s.Path, Line: line, Message: message, Notes: notes}
	s.diags = append(s.diags, d)
	return d
}

// Count returns the number of diagnostics recorded so far.
func (s *Sink) Count() int { return len(s.diags) }

// Diagnostics returns the recorded diagnostics in report order.
func (s *Sink) Diagnostics() []Diagnostic { return s.diags }

// Fprint writes every diagnostic to w, one per line, indenting any notes.
// Output is colorized only when w is a real terminal.
func Fprint(w io.Writer, diags []Diagnostic) {
	color := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, d := range diags {
		head := d.String()
		if color {
			head = "\x1b[31mERROR\x1b[0m " + head
		} else {
			head = "ERROR " + head
		}
		fmt.Fprintln(w, head)
		for _, n := range d.Notes {
			label := "note: " + n
			if color {
				label = "\x1b[33mnote\x1b[0m: " + n
			}
			fmt.Fprint(w, text.Indent(label+"\n", "  "))
		}
	}
}
