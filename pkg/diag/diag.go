// Package diag is the diagnostic envelope consumed by an external reporter
// (spec.md §6) plus the pluggable sink the parser uses for the speculative
// buffering contract described in spec.md §4.D/§9 ("Speculative
// diagnostics"). This is the ambient equivalent of the teacher's
// `fmt.Printf("ERROR: ...")` calls in cmd/*/main.go, generalized into a
// small interface so the parser can swap it out mid-parse.
package diag

import (
	"fmt"
	"io"

	"github.com/sarvex/hylo/pkg/source"
)

// Level is the severity of a Diagnostic.
type Level int

const (
	Error Level = iota
	Warning
	Note
)

func (l Level) String() string {
	switch l {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "note"
	}
}

// Diagnostic is the wire-shape handed to whatever reports it.
type Diagnostic struct {
	Level   Level
	Message string
	Anchor  source.Range
}

// Sink receives diagnostics as they're produced.
type Sink interface {
	Report(Diagnostic)
}

// ConsoleSink writes one line per diagnostic to an io.Writer, in the spirit
// of the teacher's direct `fmt.Printf("ERROR: %s\n", err)` calls.
type ConsoleSink struct {
	Out io.Writer
	Mgr *source.Manager // optional; enables "file:line:col" prefixes
}

// Report implements Sink.
func (s *ConsoleSink) Report(d Diagnostic) {
	if s.Mgr != nil {
		line, col := s.Mgr.Position(d.Anchor.File, d.Anchor.Start)
		fmt.Fprintf(s.Out, "%s:%d:%d: %s: %s\n", s.Mgr.Path(d.Anchor.File), line, col, d.Level, d.Message)
		return
	}
	fmt.Fprintf(s.Out, "%s: %s\n", d.Level, d.Message)
}

// BufferSink accumulates diagnostics instead of reporting them immediately.
// The parser swaps one of these in before speculative work (e.g. resolving
// a possible `::`-qualified declaration reference); on commit the buffered
// diagnostics are replayed into the real sink, on backtrack they're
// discarded untouched.
type BufferSink struct {
	buffered []Diagnostic
}

// Report implements Sink.
func (b *BufferSink) Report(d Diagnostic) { b.buffered = append(b.buffered, d) }

// Commit replays every buffered diagnostic into dst, in original order.
func (b *BufferSink) Commit(dst Sink) {
	for _, d := range b.buffered {
		dst.Report(d)
	}
	b.buffered = nil
}

// Discard drops every buffered diagnostic, used when backtracking past the
// speculative section that produced them.
func (b *BufferSink) Discard() { b.buffered = nil }
