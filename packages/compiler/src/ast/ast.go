// Package ast defines the template syntax tree handed to the compiler by a
// parser. Node kinds and field names follow the Glimmer syntax tree so that
// trees produced by the JavaScript parser can be decoded directly (see
// FromJSON). The compiler treats every node as read-only.
package ast

import "strings"

// Loc is a byte range [Start, End) within the template text
type Loc struct {
	Start int
	End   int
}

// Synthetic is the location used for nodes without a source position
var Synthetic = Loc{Start: -1, End: -1}

// IsSynthetic reports whether the location does not point into the source
func (l Loc) IsSynthetic() bool {
	return l.Start < 0 || l.End < l.Start
}

// Node represents a node in the template AST
type Node interface {
	Kind() string
	Location() Loc
	Visit(visitor Visitor, context interface{}) interface{}
}

// Expression is any node that may appear in argument position
type Expression = Node

// Visitor is the interface for visiting template nodes
type Visitor interface {
	VisitTemplate(node *Template, context interface{}) interface{}
	VisitElement(node *ElementNode, context interface{}) interface{}
	VisitAttr(node *AttrNode, context interface{}) interface{}
	VisitText(node *TextNode, context interface{}) interface{}
	VisitMustache(node *MustacheStatement, context interface{}) interface{}
	VisitBlock(node *BlockStatement, context interface{}) interface{}
	VisitElementModifier(node *ElementModifierStatement, context interface{}) interface{}
	VisitSubExpression(node *SubExpression, context interface{}) interface{}
	VisitPath(node *PathExpression, context interface{}) interface{}
	VisitLiteral(node *Literal, context interface{}) interface{}
	VisitConcat(node *ConcatStatement, context interface{}) interface{}
	VisitHashPair(node *HashPair, context interface{}) interface{}
	VisitComment(node *CommentStatement, context interface{}) interface{}
	VisitUnknown(node *UnknownNode, context interface{}) interface{}
}

// base carries the location shared by all nodes
type base struct {
	Loc Loc
}

// Location returns the source location of the node
func (b *base) Location() Loc {
	return b.Loc
}

// Template is the root of a parsed template
type Template struct {
	base
	Body        []Node
	BlockParams []string
}

// NewTemplate creates a new Template
func NewTemplate(body []Node, loc Loc) *Template {
	return &Template{base: base{Loc: loc}, Body: body}
}

func (t *Template) Kind() string { return "Template" }

// Visit implements the Node interface
func (t *Template) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitTemplate(t, context)
}

// ElementNode represents an HTML element or a component invocation
type ElementNode struct {
	base
	Tag         string
	TagLoc      Loc
	SelfClosing bool
	Attributes  []*AttrNode
	Modifiers   []*ElementModifierStatement
	Children    []Node
	BlockParams []string
}

// NewElementNode creates a new ElementNode
func NewElementNode(tag string, loc Loc) *ElementNode {
	return &ElementNode{base: base{Loc: loc}, Tag: tag, TagLoc: Synthetic}
}

func (e *ElementNode) Kind() string { return "ElementNode" }

// Visit implements the Node interface
func (e *ElementNode) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElement(e, context)
}

// AttrNode is an attribute of an element. Value is a *TextNode,
// *MustacheStatement or *ConcatStatement.
type AttrNode struct {
	base
	Name    string
	NameLoc Loc
	Value   Node
}

// NewAttrNode creates a new AttrNode
func NewAttrNode(name string, value Node, loc Loc) *AttrNode {
	return &AttrNode{base: base{Loc: loc}, Name: name, NameLoc: Synthetic, Value: value}
}

func (a *AttrNode) Kind() string { return "AttrNode" }

// Visit implements the Node interface
func (a *AttrNode) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitAttr(a, context)
}

// TextNode is literal template text
type TextNode struct {
	base
	Chars string
}

// NewTextNode creates a new TextNode
func NewTextNode(chars string, loc Loc) *TextNode {
	return &TextNode{base: base{Loc: loc}, Chars: chars}
}

func (t *TextNode) Kind() string { return "TextNode" }

// Visit implements the Node interface
func (t *TextNode) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitText(t, context)
}

// Hash is the list of `key=value` pairs of an invocation
type Hash struct {
	base
	Pairs []*HashPair
}

// NewHash creates a new Hash
func NewHash(pairs []*HashPair, loc Loc) *Hash {
	return &Hash{base: base{Loc: loc}, Pairs: pairs}
}

// Get returns the pair with the given key, or nil
func (h *Hash) Get(key string) *HashPair {
	if h == nil {
		return nil
	}
	for _, p := range h.Pairs {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// Len returns the number of pairs; a nil hash has none
func (h *Hash) Len() int {
	if h == nil {
		return 0
	}
	return len(h.Pairs)
}

// HashPair is one `key=value` entry
type HashPair struct {
	base
	Key   string
	Value Expression
}

// NewHashPair creates a new HashPair
func NewHashPair(key string, value Expression, loc Loc) *HashPair {
	return &HashPair{base: base{Loc: loc}, Key: key, Value: value}
}

func (h *HashPair) Kind() string { return "HashPair" }

// Visit implements the Node interface
func (h *HashPair) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitHashPair(h, context)
}

// Call holds the callee and arguments shared by mustaches, blocks,
// sub-expressions and modifiers
type Call struct {
	Path   Expression
	Params []Expression
	Hash   *Hash
}

// HasArguments reports whether any positional or named argument was given
func (c *Call) HasArguments() bool {
	return len(c.Params) > 0 || c.Hash.Len() > 0
}

// CalleeName returns the original text of the callee when it is a path
func (c *Call) CalleeName() string {
	if p, ok := c.Path.(*PathExpression); ok {
		return p.Original
	}
	return ""
}

// MustacheStatement is `{{path params hash}}`
type MustacheStatement struct {
	base
	Call
	Trusting bool
}

// NewMustacheStatement creates a new MustacheStatement
func NewMustacheStatement(path Expression, params []Expression, hash *Hash, loc Loc) *MustacheStatement {
	return &MustacheStatement{base: base{Loc: loc}, Call: Call{Path: path, Params: params, Hash: hash}}
}

func (m *MustacheStatement) Kind() string { return "MustacheStatement" }

// Visit implements the Node interface
func (m *MustacheStatement) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitMustache(m, context)
}

// Block is the body of a block statement branch
type Block struct {
	base
	Body        []Node
	BlockParams []string
	Chained     bool
}

// NewBlock creates a new Block
func NewBlock(body []Node, blockParams []string, loc Loc) *Block {
	return &Block{base: base{Loc: loc}, Body: body, BlockParams: blockParams}
}

// BlockStatement is `{{#path params hash as |x|}}...{{else}}...{{/path}}`
type BlockStatement struct {
	base
	Call
	Program *Block
	Inverse *Block
}

// NewBlockStatement creates a new BlockStatement
func NewBlockStatement(path Expression, params []Expression, hash *Hash, program, inverse *Block, loc Loc) *BlockStatement {
	return &BlockStatement{
		base:    base{Loc: loc},
		Call:    Call{Path: path, Params: params, Hash: hash},
		Program: program,
		Inverse: inverse,
	}
}

func (b *BlockStatement) Kind() string { return "BlockStatement" }

// Visit implements the Node interface
func (b *BlockStatement) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitBlock(b, context)
}

// ElementModifierStatement is `{{modifier params hash}}` in element position
type ElementModifierStatement struct {
	base
	Call
}

// NewElementModifierStatement creates a new ElementModifierStatement
func NewElementModifierStatement(path Expression, params []Expression, hash *Hash, loc Loc) *ElementModifierStatement {
	return &ElementModifierStatement{base: base{Loc: loc}, Call: Call{Path: path, Params: params, Hash: hash}}
}

func (e *ElementModifierStatement) Kind() string { return "ElementModifierStatement" }

// Visit implements the Node interface
func (e *ElementModifierStatement) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitElementModifier(e, context)
}

// SubExpression is `(helper params hash)`
type SubExpression struct {
	base
	Call
}

// NewSubExpression creates a new SubExpression
func NewSubExpression(path Expression, params []Expression, hash *Hash, loc Loc) *SubExpression {
	return &SubExpression{base: base{Loc: loc}, Call: Call{Path: path, Params: params, Hash: hash}}
}

func (s *SubExpression) Kind() string { return "SubExpression" }

// Visit implements the Node interface
func (s *SubExpression) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitSubExpression(s, context)
}

// PathHead tells how a path starts
type PathHead int

const (
	// PathHeadVar is a plain identifier (`foo.bar`)
	PathHeadVar PathHead = iota
	// PathHeadThis is `this` or `this.foo`
	PathHeadThis
	// PathHeadArg is `@foo`
	PathHeadArg
)

// PathExpression is a dotted identifier path
type PathExpression struct {
	base
	Original string
	HeadKind PathHead
	// Head is the first name after `this.` / `@`; empty for a bare `this`
	Head string
	Tail []string
}

// NewPathExpression creates a PathExpression from its original text
func NewPathExpression(original string, loc Loc) *PathExpression {
	p := &PathExpression{base: base{Loc: loc}, Original: original}
	rest := original
	switch {
	case strings.HasPrefix(rest, "@"):
		p.HeadKind = PathHeadArg
		rest = rest[1:]
	case rest == "this":
		p.HeadKind = PathHeadThis
		rest = ""
	case strings.HasPrefix(rest, "this."):
		p.HeadKind = PathHeadThis
		rest = rest[len("this."):]
	}
	if rest != "" {
		parts := strings.Split(rest, ".")
		p.Head = parts[0]
		p.Tail = parts[1:]
	}
	return p
}

// Parts returns the head followed by the tail
func (p *PathExpression) Parts() []string {
	if p.Head == "" {
		return nil
	}
	return append([]string{p.Head}, p.Tail...)
}

func (p *PathExpression) Kind() string { return "PathExpression" }

// Visit implements the Node interface
func (p *PathExpression) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitPath(p, context)
}

// LiteralKind is the kind of a literal node
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralNull
	LiteralUndefined
)

var literalKindNames = map[LiteralKind]string{
	LiteralString:    "StringLiteral",
	LiteralNumber:    "NumberLiteral",
	LiteralBoolean:   "BooleanLiteral",
	LiteralNull:      "NullLiteral",
	LiteralUndefined: "UndefinedLiteral",
}

// Literal is a string, number, boolean, null or undefined literal.
// Value holds a string, float64, bool or nil.
type Literal struct {
	base
	LiteralKind LiteralKind
	Value       interface{}
}

// NewStringLiteral creates a string literal
func NewStringLiteral(value string, loc Loc) *Literal {
	return &Literal{base: base{Loc: loc}, LiteralKind: LiteralString, Value: value}
}

// NewNumberLiteral creates a number literal
func NewNumberLiteral(value float64, loc Loc) *Literal {
	return &Literal{base: base{Loc: loc}, LiteralKind: LiteralNumber, Value: value}
}

// NewBooleanLiteral creates a boolean literal
func NewBooleanLiteral(value bool, loc Loc) *Literal {
	return &Literal{base: base{Loc: loc}, LiteralKind: LiteralBoolean, Value: value}
}

// NewNullLiteral creates a null literal
func NewNullLiteral(loc Loc) *Literal {
	return &Literal{base: base{Loc: loc}, LiteralKind: LiteralNull}
}

// NewUndefinedLiteral creates an undefined literal
func NewUndefinedLiteral(loc Loc) *Literal {
	return &Literal{base: base{Loc: loc}, LiteralKind: LiteralUndefined}
}

func (l *Literal) Kind() string { return literalKindNames[l.LiteralKind] }

// Visit implements the Node interface
func (l *Literal) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitLiteral(l, context)
}

// ConcatStatement is a quoted attribute value mixing text and mustaches
type ConcatStatement struct {
	base
	Parts []Node
}

// NewConcatStatement creates a new ConcatStatement
func NewConcatStatement(parts []Node, loc Loc) *ConcatStatement {
	return &ConcatStatement{base: base{Loc: loc}, Parts: parts}
}

func (c *ConcatStatement) Kind() string { return "ConcatStatement" }

// Visit implements the Node interface
func (c *ConcatStatement) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitConcat(c, context)
}

// CommentStatement is an HTML comment or a mustache comment
type CommentStatement struct {
	base
	Value    string
	Mustache bool
}

// NewCommentStatement creates a new CommentStatement
func NewCommentStatement(value string, mustache bool, loc Loc) *CommentStatement {
	return &CommentStatement{base: base{Loc: loc}, Value: value, Mustache: mustache}
}

func (c *CommentStatement) Kind() string {
	if c.Mustache {
		return "MustacheCommentStatement"
	}
	return "CommentStatement"
}

// Visit implements the Node interface
func (c *CommentStatement) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitComment(c, context)
}

// UnknownNode stands in for node kinds the compiler does not know about
type UnknownNode struct {
	base
	Type string
}

// NewUnknownNode creates a new UnknownNode
func NewUnknownNode(typ string, loc Loc) *UnknownNode {
	return &UnknownNode{base: base{Loc: loc}, Type: typ}
}

func (u *UnknownNode) Kind() string { return u.Type }

// Visit implements the Node interface
func (u *UnknownNode) Visit(visitor Visitor, context interface{}) interface{} {
	return visitor.VisitUnknown(u, context)
}
