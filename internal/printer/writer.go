// Package printer implements the shared streaming writer and generic AST
// dispatch used by every backend's code generator. A backend
// supplies only the handful of node kinds whose lowering is target-specific
// via an Overrides table; everything else prints through the generic
// dispatch in node.go.
package printer

import (
	"fmt"
	"strings"
)

// Writer is an indent-tracking text builder, following the same
// strings.Builder discipline internal/errors uses for multi-line output,
// generalized into a reusable streaming writer for generated source.
type Writer struct {
	buf    strings.Builder
	indent int
	// atLineStart is true when the next Emit must be preceded by the
	// current indentation.
	atLineStart bool
}

// NewWriter returns an empty Writer positioned at the start of a line.
func NewWriter() *Writer {
	return &Writer{atLineStart: true}
}

// Emit appends s to the current line, writing the indentation prefix first
// if this is the first text on the line.
func (w *Writer) Emit(s string) {
	if w.atLineStart {
		w.buf.WriteString(strings.Repeat("    ", w.indent))
		w.atLineStart = false
	}
	w.buf.WriteString(s)
}

// Emitf is Emit with fmt.Sprintf-style formatting.
func (w *Writer) Emitf(format string, args ...interface{}) {
	w.Emit(fmt.Sprintf(format, args...))
}

// Newline ends the current line.
func (w *Writer) Newline() {
	w.buf.WriteString("\n")
	w.atLineStart = true
}

// Indent increases the indentation level for subsequent lines.
func (w *Writer) Indent() { w.indent++ }

// Outdent decreases the indentation level for subsequent lines. It is a
// no-op at indent level 0 rather than going negative, since a misbalanced
// backend is a bug the caller should catch via its own brace bookkeeping,
// not a writer-level panic.
func (w *Writer) Outdent() {
	if w.indent > 0 {
		w.indent--
	}
}

// String returns the accumulated output.
func (w *Writer) String() string { return w.buf.String() }

// Bytes returns the accumulated output as a byte slice, for OutputFile
// content.
func (w *Writer) Bytes() []byte { return []byte(w.buf.String()) }
