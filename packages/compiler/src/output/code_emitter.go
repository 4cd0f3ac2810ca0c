package output

import (
	"strings"

	"gxt-go/packages/compiler/src/util"
)

const indentWith = "  "

// CodeEmitter accumulates generated text and the mapping tree describing
// where each region of it came from
type CodeEmitter struct {
	buf    strings.Builder
	root   *MappingTreeNode
	stack  []*MappingTreeNode
	indent int
}

// NewCodeEmitter creates an emitter whose root mapping covers rootSpan
func NewCodeEmitter(rootSpan *util.ParseSourceSpan, rootKind string) *CodeEmitter {
	root := NewMappingTreeNode(rootSpan, rootKind, "", 0)
	return &CodeEmitter{root: root, stack: []*MappingTreeNode{root}}
}

// Offset returns the current generated position in bytes
func (e *CodeEmitter) Offset() int {
	return e.buf.Len()
}

// Emit appends unmapped text
func (e *CodeEmitter) Emit(text string) {
	e.buf.WriteString(text)
}

// EmitMapped appends text and records it as a leaf mapping. Nothing is
// recorded when span is nil or zero-width.
func (e *CodeEmitter) EmitMapped(text string, span *util.ParseSourceSpan, kind, name string) {
	start := e.buf.Len()
	e.buf.WriteString(text)
	if span == nil || span.IsEmpty() || text == "" {
		return
	}
	node := NewMappingTreeNode(span, kind, name, start)
	node.Generated.End = e.buf.Len()
	e.current().Children = append(e.current().Children, node)
}

// PushScope opens a mapping subtree. It always creates a node, even for a
// nil span; such nodes only group their children.
func (e *CodeEmitter) PushScope(span *util.ParseSourceSpan, kind, name string) {
	node := NewMappingTreeNode(span, kind, name, e.buf.Len())
	e.current().Children = append(e.current().Children, node)
	e.stack = append(e.stack, node)
}

// PopScope closes the innermost subtree at the current position. Popping
// the root is a no-op.
func (e *CodeEmitter) PopScope() {
	if len(e.stack) == 1 {
		return
	}
	node := e.current()
	node.Generated.End = e.buf.Len()
	e.stack = e.stack[:len(e.stack)-1]
}

// Depth returns the number of open scopes, the root excluded
func (e *CodeEmitter) Depth() int {
	return len(e.stack) - 1
}

// Newline starts a new line at the current indentation
func (e *CodeEmitter) Newline() {
	e.buf.WriteString("\n")
	e.buf.WriteString(strings.Repeat(indentWith, e.indent))
}

// IncIndent increases the indent
func (e *CodeEmitter) IncIndent() {
	e.indent++
}

// DecIndent decreases the indent
func (e *CodeEmitter) DecIndent() {
	if e.indent > 0 {
		e.indent--
	}
}

// Code returns the text emitted so far
func (e *CodeEmitter) Code() string {
	return e.buf.String()
}

// GetMappingTree returns the root mapping, spanning everything emitted
func (e *CodeEmitter) GetMappingTree() *MappingTreeNode {
	e.root.Generated = Range{Start: 0, End: e.buf.Len()}
	return e.root
}

func (e *CodeEmitter) current() *MappingTreeNode {
	return e.stack[len(e.stack)-1]
}
