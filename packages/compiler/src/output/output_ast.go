package output

import (
	"gxt-go/packages/compiler/src/util"
)

// ExprKind discriminates JSExpression implementations
type ExprKind int

const (
	KindLiteral ExprKind = iota
	KindIdentifier
	KindMember
	KindCall
	KindMethodCall
	KindArrow
	KindArray
	KindObject
	KindSpread
	KindRaw
	KindRuntimeRef
	KindReactiveGetter
	KindMethodBinding
	KindIIFE
	KindFunction
)

var exprKindNames = [...]string{
	"literal", "identifier", "member", "call", "methodCall", "arrow", "array",
	"object", "spread", "raw", "runtimeRef", "reactiveGetter", "methodBinding",
	"iife", "function",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "unknown"
}

// Provenance ties a generated node back to the template
type Provenance struct {
	SourceSpan *util.ParseSourceSpan
	// SourceKind is the template node kind that produced the node
	SourceKind string
	// Name is surfaced in the source map `names` list when set
	Name string
}

// GetSourceSpan returns the source span, nil for synthesized nodes
func (p *Provenance) GetSourceSpan() *util.ParseSourceSpan {
	return p.SourceSpan
}

// HasSource reports whether the node maps to a non-empty source range
func (p *Provenance) HasSource() bool {
	return p.SourceSpan != nil && !p.SourceSpan.IsEmpty()
}

// Origin returns the provenance record of the node
func (p *Provenance) Origin() *Provenance {
	return p
}

// JSExpression is a node of the generated JavaScript tree
type JSExpression interface {
	ExprKind() ExprKind
	Origin() *Provenance
	VisitExpression(visitor ExpressionVisitor, context interface{}) interface{}
}

// JSStatement is a statement inside a function or IIFE body
type JSStatement interface {
	Origin() *Provenance
	VisitStatement(visitor StatementVisitor, context interface{}) interface{}
}

// ExpressionVisitor visits every JSExpression kind
type ExpressionVisitor interface {
	VisitLiteralExpr(expr *LiteralExpr, context interface{}) interface{}
	VisitIdentifierExpr(expr *IdentifierExpr, context interface{}) interface{}
	VisitMemberExpr(expr *MemberExpr, context interface{}) interface{}
	VisitCallExpr(expr *CallExpr, context interface{}) interface{}
	VisitMethodCallExpr(expr *MethodCallExpr, context interface{}) interface{}
	VisitArrowExpr(expr *ArrowExpr, context interface{}) interface{}
	VisitArrayExpr(expr *ArrayExpr, context interface{}) interface{}
	VisitObjectExpr(expr *ObjectExpr, context interface{}) interface{}
	VisitSpreadExpr(expr *SpreadExpr, context interface{}) interface{}
	VisitRawExpr(expr *RawExpr, context interface{}) interface{}
	VisitRuntimeRefExpr(expr *RuntimeRefExpr, context interface{}) interface{}
	VisitReactiveGetterExpr(expr *ReactiveGetterExpr, context interface{}) interface{}
	VisitMethodBindingExpr(expr *MethodBindingExpr, context interface{}) interface{}
	VisitIIFEExpr(expr *IIFEExpr, context interface{}) interface{}
	VisitFunctionExpr(expr *FunctionExpr, context interface{}) interface{}
}

// StatementVisitor visits every JSStatement kind
type StatementVisitor interface {
	VisitDeclareVarStmt(stmt *DeclareVarStmt, context interface{}) interface{}
	VisitReturnStmt(stmt *ReturnStmt, context interface{}) interface{}
	VisitExpressionStmt(stmt *ExpressionStmt, context interface{}) interface{}
}

// LiteralExpr is a primitive value. Value is a string, float64, int, bool or
// nil; nil with Undefined set renders `undefined`.
type LiteralExpr struct {
	Provenance
	Value     interface{}
	Undefined bool
}

// NewLiteralExpr creates a new LiteralExpr
func NewLiteralExpr(value interface{}, prov Provenance) *LiteralExpr {
	return &LiteralExpr{Provenance: prov, Value: value}
}

// NewUndefinedExpr creates the `undefined` literal
func NewUndefinedExpr(prov Provenance) *LiteralExpr {
	return &LiteralExpr{Provenance: prov, Undefined: true}
}

func (e *LiteralExpr) ExprKind() ExprKind { return KindLiteral }

func (e *LiteralExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitLiteralExpr(e, context)
}

// IdentifierExpr is a bare identifier
type IdentifierExpr struct {
	Provenance
	Name string
}

// NewIdentifierExpr creates a new IdentifierExpr
func NewIdentifierExpr(name string, prov Provenance) *IdentifierExpr {
	return &IdentifierExpr{Provenance: prov, Name: name}
}

func (e *IdentifierExpr) ExprKind() ExprKind { return KindIdentifier }

func (e *IdentifierExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitIdentifierExpr(e, context)
}

// MemberExpr reads a property. With Index set it renders `object[index]`,
// otherwise `object.property` (or `object?.property` when Optional).
type MemberExpr struct {
	Provenance
	Object   JSExpression
	Property string
	Index    JSExpression
	Optional bool
}

// NewMemberExpr creates a new MemberExpr
func NewMemberExpr(object JSExpression, property string, optional bool, prov Provenance) *MemberExpr {
	return &MemberExpr{Provenance: prov, Object: object, Property: property, Optional: optional}
}

// NewIndexExpr creates a computed member access
func NewIndexExpr(object, index JSExpression, prov Provenance) *MemberExpr {
	return &MemberExpr{Provenance: prov, Object: object, Index: index}
}

func (e *MemberExpr) ExprKind() ExprKind { return KindMember }

func (e *MemberExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitMemberExpr(e, context)
}

// CallExpr calls Callee with Args
type CallExpr struct {
	Provenance
	Callee JSExpression
	Args   []JSExpression
}

// NewCallExpr creates a new CallExpr
func NewCallExpr(callee JSExpression, args []JSExpression, prov Provenance) *CallExpr {
	return &CallExpr{Provenance: prov, Callee: callee, Args: args}
}

func (e *CallExpr) ExprKind() ExprKind { return KindCall }

func (e *CallExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitCallExpr(e, context)
}

// MethodCallExpr calls `receiver.method(args)`
type MethodCallExpr struct {
	Provenance
	Receiver JSExpression
	Method   string
	Args     []JSExpression
}

// NewMethodCallExpr creates a new MethodCallExpr
func NewMethodCallExpr(receiver JSExpression, method string, args []JSExpression, prov Provenance) *MethodCallExpr {
	return &MethodCallExpr{Provenance: prov, Receiver: receiver, Method: method, Args: args}
}

func (e *MethodCallExpr) ExprKind() ExprKind { return KindMethodCall }

func (e *MethodCallExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitMethodCallExpr(e, context)
}

// ArrowExpr is `(params) => body`
type ArrowExpr struct {
	Provenance
	Params []string
	Body   JSExpression
}

// NewArrowExpr creates a new ArrowExpr
func NewArrowExpr(params []string, body JSExpression, prov Provenance) *ArrowExpr {
	return &ArrowExpr{Provenance: prov, Params: params, Body: body}
}

func (e *ArrowExpr) ExprKind() ExprKind { return KindArrow }

func (e *ArrowExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitArrowExpr(e, context)
}

// ArrayExpr is an array literal
type ArrayExpr struct {
	Provenance
	Elements []JSExpression
}

// NewArrayExpr creates a new ArrayExpr
func NewArrayExpr(elements []JSExpression, prov Provenance) *ArrayExpr {
	return &ArrayExpr{Provenance: prov, Elements: elements}
}

func (e *ArrayExpr) ExprKind() ExprKind { return KindArray }

func (e *ArrayExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitArrayExpr(e, context)
}

// ObjectProp is one entry of an ObjectExpr. Keys that are not legal
// property names are quoted on output.
type ObjectProp struct {
	Provenance
	Key   string
	Value JSExpression
}

// ObjectExpr is an object literal
type ObjectExpr struct {
	Provenance
	Props []*ObjectProp
}

// NewObjectExpr creates a new ObjectExpr
func NewObjectExpr(props []*ObjectProp, prov Provenance) *ObjectExpr {
	return &ObjectExpr{Provenance: prov, Props: props}
}

func (e *ObjectExpr) ExprKind() ExprKind { return KindObject }

func (e *ObjectExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitObjectExpr(e, context)
}

// SpreadExpr is `...value`
type SpreadExpr struct {
	Provenance
	Value JSExpression
}

// NewSpreadExpr creates a new SpreadExpr
func NewSpreadExpr(value JSExpression, prov Provenance) *SpreadExpr {
	return &SpreadExpr{Provenance: prov, Value: value}
}

func (e *SpreadExpr) ExprKind() ExprKind { return KindSpread }

func (e *SpreadExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitSpreadExpr(e, context)
}

// RawExpr is emitted verbatim. It must only carry compiler-owned code.
type RawExpr struct {
	Provenance
	Code string
}

// NewRawExpr creates a new RawExpr
func NewRawExpr(code string, prov Provenance) *RawExpr {
	return &RawExpr{Provenance: prov, Code: code}
}

func (e *RawExpr) ExprKind() ExprKind { return KindRaw }

func (e *RawExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitRawExpr(e, context)
}

// RuntimeRefExpr names a runtime symbol such as `$_tag`
type RuntimeRefExpr struct {
	Provenance
	Symbol string
}

// NewRuntimeRefExpr creates a new RuntimeRefExpr
func NewRuntimeRefExpr(symbol string, prov Provenance) *RuntimeRefExpr {
	return &RuntimeRefExpr{Provenance: prov, Symbol: symbol}
}

func (e *RuntimeRefExpr) ExprKind() ExprKind { return KindRuntimeRef }

func (e *RuntimeRefExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitRuntimeRefExpr(e, context)
}

// ReactiveGetterExpr is `() => value`, re-invoked by the runtime whenever it
// re-evaluates the binding
type ReactiveGetterExpr struct {
	Provenance
	Value JSExpression
}

// NewReactiveGetterExpr creates a new ReactiveGetterExpr
func NewReactiveGetterExpr(value JSExpression, prov Provenance) *ReactiveGetterExpr {
	return &ReactiveGetterExpr{Provenance: prov, Value: value}
}

func (e *ReactiveGetterExpr) ExprKind() ExprKind { return KindReactiveGetter }

func (e *ReactiveGetterExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitReactiveGetterExpr(e, context)
}

// MethodBindingExpr is `(params) => receiver.method(params, ...args)`; it keeps
// the receiver of an event handler
type MethodBindingExpr struct {
	Provenance
	Receiver JSExpression
	Method   string
	Params   []string
	Args     []JSExpression
}

// NewMethodBindingExpr creates a new MethodBindingExpr
func NewMethodBindingExpr(receiver JSExpression, method string, params []string, args []JSExpression, prov Provenance) *MethodBindingExpr {
	return &MethodBindingExpr{Provenance: prov, Receiver: receiver, Method: method, Params: params, Args: args}
}

func (e *MethodBindingExpr) ExprKind() ExprKind { return KindMethodBinding }

func (e *MethodBindingExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitMethodBindingExpr(e, context)
}

// IIFEExpr is `(() => { statements })()`. An arrow keeps `this` intact.
type IIFEExpr struct {
	Provenance
	Statements []JSStatement
}

// NewIIFEExpr creates a new IIFEExpr
func NewIIFEExpr(statements []JSStatement, prov Provenance) *IIFEExpr {
	return &IIFEExpr{Provenance: prov, Statements: statements}
}

func (e *IIFEExpr) ExprKind() ExprKind { return KindIIFE }

func (e *IIFEExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitIIFEExpr(e, context)
}

// FunctionExpr is a `function` expression; it is the only node rendered over
// several lines
type FunctionExpr struct {
	Provenance
	Params     []string
	Statements []JSStatement
}

// NewFunctionExpr creates a new FunctionExpr
func NewFunctionExpr(params []string, statements []JSStatement, prov Provenance) *FunctionExpr {
	return &FunctionExpr{Provenance: prov, Params: params, Statements: statements}
}

func (e *FunctionExpr) ExprKind() ExprKind { return KindFunction }

func (e *FunctionExpr) VisitExpression(visitor ExpressionVisitor, context interface{}) interface{} {
	return visitor.VisitFunctionExpr(e, context)
}

// DeclareVarStmt is `const name = value;` or `let name = value;`
type DeclareVarStmt struct {
	Provenance
	Name  string
	Value JSExpression
	// Mutable selects `let` over `const`
	Mutable bool
}

// NewDeclareVarStmt creates a new DeclareVarStmt
func NewDeclareVarStmt(name string, value JSExpression, mutable bool, prov Provenance) *DeclareVarStmt {
	return &DeclareVarStmt{Provenance: prov, Name: name, Value: value, Mutable: mutable}
}

func (s *DeclareVarStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitDeclareVarStmt(s, context)
}

// ReturnStmt is `return value;`
type ReturnStmt struct {
	Provenance
	Value JSExpression
}

// NewReturnStmt creates a new ReturnStmt
func NewReturnStmt(value JSExpression, prov Provenance) *ReturnStmt {
	return &ReturnStmt{Provenance: prov, Value: value}
}

func (s *ReturnStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitReturnStmt(s, context)
}

// ExpressionStmt is `expr;`
type ExpressionStmt struct {
	Provenance
	Expr JSExpression
}

// NewExpressionStmt creates a new ExpressionStmt
func NewExpressionStmt(expr JSExpression, prov Provenance) *ExpressionStmt {
	return &ExpressionStmt{Provenance: prov, Expr: expr}
}

func (s *ExpressionStmt) VisitStatement(visitor StatementVisitor, context interface{}) interface{} {
	return visitor.VisitExpressionStmt(s, context)
}

// Helpers used by the builder

// Ident is shorthand for a synthesized identifier
func Ident(name string) *IdentifierExpr {
	return NewIdentifierExpr(name, Provenance{})
}

// Ref is shorthand for a synthesized runtime symbol reference
func Ref(symbol string) *RuntimeRefExpr {
	return NewRuntimeRefExpr(symbol, Provenance{})
}

// Str is shorthand for a synthesized string literal
func Str(value string) *LiteralExpr {
	return NewLiteralExpr(value, Provenance{})
}

// Call is shorthand for a synthesized call of a runtime symbol
func Call(symbol string, args ...JSExpression) *CallExpr {
	return NewCallExpr(Ref(symbol), args, Provenance{})
}
