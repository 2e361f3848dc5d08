// Package xmlutil implements the minimal tree-to-text XML writer the FLAME
// and FLAME-GPU backends use to emit their model files: nested
// {name, children} element literals built up in memory and serialized
// without a dependency on encoding/xml, so attribute order and
// self-closing-tag behavior stay under this package's control.
package xmlutil

import (
	"fmt"
	"strings"
)

// Elem is one XML element: a name, an ordered attribute list, an ordered
// child-element list, and (for leaf elements) inline text content.
// Exactly one of Children or Text is populated for any real element.
type Elem struct {
	Name     string
	Attrs    []Attr
	Children []Elem
	Text     string
}

// Attr is one name="value" XML attribute.
type Attr struct {
	Name  string
	Value string
}

// New builds a parent element with the given children; with no children
// it serializes as a self-closing <name/>. NewText builds leaf elements
// with inline text.
func New(name string, children ...Elem) Elem {
	return Elem{Name: name, Children: children}
}

// NewText builds a leaf element with inline text content.
func NewText(name, text string) Elem {
	return Elem{Name: name, Text: text}
}

// SetAttr appends an attribute to e (mutates in place via pointer receiver
// use at the call site).
func (e *Elem) SetAttr(name, value string) {
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
}

// Writer serializes an Elem tree to indented XML text.
type Writer struct {
	indent int
	buf    strings.Builder
}

// Serialize renders root (with an XML declaration header) to a string.
func (w *Writer) Serialize(root Elem) string {
	w.buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>`)
	w.buf.WriteString("\n")
	w.writeElem(root)
	return w.buf.String()
}

func (w *Writer) writeElem(e Elem) {
	w.writeIndent()
	w.buf.WriteString("<")
	w.buf.WriteString(e.Name)
	for _, a := range e.Attrs {
		fmt.Fprintf(&w.buf, ` %s="%s"`, a.Name, escapeAttr(a.Value))
	}

	if len(e.Children) == 0 && e.Text == "" {
		w.buf.WriteString("/>\n")
		return
	}

	w.buf.WriteString(">")
	if len(e.Children) == 0 {
		w.buf.WriteString(escapeText(e.Text))
		fmt.Fprintf(&w.buf, "</%s>\n", e.Name)
		return
	}

	w.buf.WriteString("\n")
	w.indent++
	for _, c := range e.Children {
		w.writeElem(c)
	}
	w.indent--
	w.writeIndent()
	fmt.Fprintf(&w.buf, "</%s>\n", e.Name)
}

func (w *Writer) writeIndent() {
	w.buf.WriteString(strings.Repeat("  ", w.indent))
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "\"", "&quot;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
