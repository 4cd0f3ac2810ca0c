// Package ir holds the intermediate representation produced by visiting the
// template AST and consumed once by code generation.
package ir

import (
	"gxt-go/packages/compiler/src/scope"
	"gxt-go/packages/compiler/src/util"
)

// Child is anything that can appear in a children list: *Text,
// SerializedValue, *HBSNode or *HBSControlExpression.
type Child interface {
	Span() *util.ParseSourceSpan
}

// Origin records where an IR value came from
type Origin struct {
	SourceSpan *util.ParseSourceSpan
	// SourceKind is the template node kind that produced the value
	SourceKind string
}

// Span returns the source span, nil for synthesized values
func (o *Origin) Span() *util.ParseSourceSpan {
	return o.SourceSpan
}

// Kind returns the template node kind
func (o *Origin) Kind() string {
	return o.SourceKind
}

// ValueKind discriminates SerializedValue implementations
type ValueKind int

const (
	ValueLiteral ValueKind = iota
	ValuePath
	ValueSpread
	ValueRaw
	ValueHelper
	ValueGetter
	ValueConcat
)

// SerializedValue is a value position in the IR
type SerializedValue interface {
	Child
	ValueKind() ValueKind
	Kind() string
}

// Literal is a primitive. Value is a string, float64, bool or nil; nil with
// Undefined set is `undefined`, otherwise `null`.
type Literal struct {
	Origin
	Value     interface{}
	Undefined bool
}

// NewLiteral creates a new Literal
func NewLiteral(value interface{}, origin Origin) *Literal {
	return &Literal{Origin: origin, Value: value}
}

// NewUndefined creates the `undefined` literal
func NewUndefined(origin Origin) *Literal {
	return &Literal{Origin: origin, Undefined: true}
}

// ValueKind implements SerializedValue
func (l *Literal) ValueKind() ValueKind { return ValueLiteral }

// IsString reports whether the literal holds a string
func (l *Literal) IsString() bool {
	_, ok := l.Value.(string)
	return ok
}

// PathRoot tells what a path is rooted at
type PathRoot int

const (
	// RootThis is the component instance (`this.x`)
	RootThis PathRoot = iota
	// RootArgs is the argument object (`@x`)
	RootArgs
	// RootBinding is a name found in the scope tracker
	RootBinding
	// RootGlobal is a name the template does not declare
	RootGlobal
)

// Path is a resolved identifier path. For RootThis and RootArgs Head is the
// first property name (empty for a bare `this`); for RootBinding and
// RootGlobal Head is the emitted identifier.
type Path struct {
	Origin
	Root     PathRoot
	Head     string
	Tail     []string
	Original string
	Binding  *scope.BindingInfo
}

// NewPath creates a new Path
func NewPath(root PathRoot, head string, tail []string, original string, origin Origin) *Path {
	return &Path{Origin: origin, Root: root, Head: head, Tail: tail, Original: original}
}

// ValueKind implements SerializedValue
func (p *Path) ValueKind() ValueKind { return ValuePath }

// IsArg reports whether the path reads an `@` argument
func (p *Path) IsArg() bool {
	return p.Root == RootArgs
}

// Segments returns head and tail as one list
func (p *Path) Segments() []string {
	if p.Head == "" {
		return nil
	}
	return append([]string{p.Head}, p.Tail...)
}

// Spread expands an array or argument list in place (`...value`)
type Spread struct {
	Origin
	Value SerializedValue
}

// NewSpread creates a new Spread
func NewSpread(value SerializedValue, origin Origin) *Spread {
	return &Spread{Origin: origin, Value: value}
}

// ValueKind implements SerializedValue
func (s *Spread) ValueKind() ValueKind { return ValueSpread }

// Raw is pre-rendered code emitted verbatim. It is only ever built from
// compiler-owned constants, never from template text.
type Raw struct {
	Origin
	Code string
}

// NewRaw creates a new Raw
func NewRaw(code string, origin Origin) *Raw {
	return &Raw{Origin: origin, Code: code}
}

// ValueKind implements SerializedValue
func (r *Raw) ValueKind() ValueKind { return ValueRaw }

// NamedArg is one `key=value` argument
type NamedArg struct {
	Key   string
	Value SerializedValue
}

// Helper is a helper invocation. Built-in helpers carry the runtime Symbol
// they were rewritten to; user helpers carry either the Callee they resolved
// to or only their Name when nothing in scope declares them.
type Helper struct {
	Origin
	Name       string
	Symbol     string
	Callee     *Path
	Positional []SerializedValue
	Named      []NamedArg
	// WithReceiver calls the symbol with the component as `this`
	WithReceiver bool
	// NamedAsObject passes Named as the only argument object (the `hash` helper)
	NamedAsObject bool
}

// NewHelper creates a new Helper
func NewHelper(name string, positional []SerializedValue, named []NamedArg, origin Origin) *Helper {
	return &Helper{Origin: origin, Name: name, Positional: positional, Named: named}
}

// ValueKind implements SerializedValue
func (h *Helper) ValueKind() ValueKind { return ValueHelper }

// IsBuiltin reports whether the helper was rewritten to a runtime symbol
func (h *Helper) IsBuiltin() bool {
	return h.Symbol != ""
}

// Getter delays evaluation of Value behind a zero-argument closure
type Getter struct {
	Origin
	Value SerializedValue
}

// NewGetter creates a new Getter
func NewGetter(value SerializedValue, origin Origin) *Getter {
	return &Getter{Origin: origin, Value: value}
}

// ValueKind implements SerializedValue
func (g *Getter) ValueKind() ValueKind { return ValueGetter }

// Concat joins text and dynamic parts of a quoted attribute value
type Concat struct {
	Origin
	Parts []SerializedValue
}

// NewConcat creates a new Concat
func NewConcat(parts []SerializedValue, origin Origin) *Concat {
	return &Concat{Origin: origin, Parts: parts}
}

// ValueKind implements SerializedValue
func (c *Concat) ValueKind() ValueKind { return ValueConcat }

// Text is static text content
type Text struct {
	Origin
	Value string
}

// NewText creates a new Text
func NewText(value string, origin Origin) *Text {
	return &Text{Origin: origin, Value: value}
}
