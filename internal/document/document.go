// Package document holds an in-memory markup tree and renders it as indented text that the
// lexer reads back into the same structure.
package document

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

var (
	ErrInvalidName  = errors.New("names must be made of letters and digits only")
	ErrQuoteInValue = errors.New("attribute values can't contain quotes")
	ErrUnclosable   = errors.New("text contains its own closing sequence")
)

type NodeError struct {
	Inner error
	// Element, attribute or text the error refers to
	Subject string
}

func (e *NodeError) Unwrap() error {
	return e.Inner
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s: %q", e.Inner, e.Subject)
}

type Document struct {
	Nodes []Node
}

func New(nodes ...Node) *Document {
	return &Document{Nodes: nodes}
}

// WriteTo renders every top level node, one after the other.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	ow := &outputWriter{w: bw}

	for _, n := range d.Nodes {
		if err := n.writeTo(ow); err != nil {
			return ow.written, err
		}
	}
	if ow.err != nil {
		return ow.written, ow.err
	}

	return ow.written, bw.Flush()
}

func (d *Document) String() string {
	var sb strings.Builder
	if _, err := d.WriteTo(&sb); err != nil {
		return fmt.Sprintf("<invalid document: %s>", err)
	}
	return sb.String()
}

// Node is a printable part of a document.
type Node interface {
	writeTo(w *outputWriter) error
}

type Element struct {
	Name       string
	Attributes []Attribute
	Nodes      []Node
}

func NewElement(name string, attrs ...Attribute) *Element {
	return &Element{
		Name:       name,
		Attributes: attrs,
	}
}

// Append adds child nodes and returns the element, for chaining.
func (e *Element) Append(nodes ...Node) *Element {
	e.Nodes = append(e.Nodes, nodes...)
	return e
}

func (e *Element) writeTo(w *outputWriter) error {
	if !isName(e.Name) {
		return &NodeError{Inner: ErrInvalidName, Subject: e.Name}
	}

	if len(e.Attributes) == 0 {
		if len(e.Nodes) == 0 {
			w.writeLinef("<%s/>", e.Name)
			return nil
		}

		w.writeLinef("<%s>", e.Name)
	} else {
		w.writeLinef("<%s", e.Name)

		w.indent(1)
		for _, attr := range e.Attributes {
			if err := attr.writeTo(w); err != nil {
				return err
			}
		}
		w.indent(-1)

		if len(e.Nodes) == 0 {
			w.writeLine("/>")
			return nil
		}
		w.writeLine(">")
	}

	w.indent(1)
	for _, n := range e.Nodes {
		if err := n.writeTo(w); err != nil {
			return err
		}
	}
	w.indent(-1)

	w.writeLinef("</%s>", e.Name)
	return nil
}

type Attribute struct {
	Name  string
	Value Value
}

func Attr(name string, value Value) Attribute {
	return Attribute{Name: name, Value: value}
}

func (a Attribute) writeTo(w *outputWriter) error {
	if !isName(a.Name) {
		return &NodeError{Inner: ErrInvalidName, Subject: a.Name}
	}

	str := a.Value.attributeValue()
	if strings.ContainsAny(str, `"'`) {
		return &NodeError{Inner: ErrQuoteInValue, Subject: str}
	}

	w.writeLinef(`%s="%s"`, a.Name, str)
	return nil
}

// Value is an attribute value. Non-pixel units are expected to be converted before building the
// tree.
type Value interface {
	attributeValue() string
}

type String string

func (v String) attributeValue() string { return string(v) }

type Float float32

func (v Float) attributeValue() string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

type Uint uint32

func (v Uint) attributeValue() string { return strconv.FormatUint(uint64(v), 10) }

type Int int32

func (v Int) attributeValue() string { return strconv.FormatInt(int64(v), 10) }

type Comment struct {
	Text string
}

func (c *Comment) writeTo(w *outputWriter) error {
	if !closesAtEnd(c.Text, " -->") {
		return &NodeError{Inner: ErrUnclosable, Subject: c.Text}
	}

	w.writeLinef("<!-- %s -->", c.Text)
	return nil
}

type ProcessingInstruction struct {
	Content string
}

func (p *ProcessingInstruction) writeTo(w *outputWriter) error {
	if !closesAtEnd(p.Content, " ?>") {
		return &NodeError{Inner: ErrUnclosable, Subject: p.Content}
	}

	w.writeLinef("<? %s ?>", p.Content)
	return nil
}

// closesAtEnd reports whether the first closing sequence in text+closer is the appended one.
func closesAtEnd(text, closer string) bool {
	return strings.Index(text+closer, closer) == len(text)
}

func isName(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}
