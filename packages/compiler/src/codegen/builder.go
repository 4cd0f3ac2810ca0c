// Package codegen turns the IR into the typed JSExpression tree serialized
// by the output package. Every decision about reactive getter wrapping and
// helper or modifier dispatch is taken here and nowhere else.
package codegen

import (
	"fmt"

	"gxt-go/packages/compiler/src/config"
	"gxt-go/packages/compiler/src/hints"
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/output"
	"gxt-go/packages/compiler/src/runtime"
)

// RootContext is the context name of the template function itself
const RootContext = "this"

// Builder holds the state of one code generation pass. A Builder must not be
// shared between compilations.
type Builder struct {
	flags *config.Flags
	hints *hints.TypeHints

	ctxCounter int
	// receivers is the stack of names bound to the component instance
	receivers []string
}

// NewBuilder creates a Builder. hints may be nil.
func NewBuilder(flags *config.Flags, typeHints *hints.TypeHints) *Builder {
	if flags == nil {
		flags = config.DefaultFlags()
	}
	return &Builder{flags: flags, hints: typeHints, receivers: []string{"this"}}
}

// Reset clears the context-name counter and the receiver stack
func (b *Builder) Reset() {
	b.ctxCounter = 0
	b.receivers = []string{"this"}
}

func (b *Builder) nextContext() string {
	name := fmt.Sprintf("ctx%d", b.ctxCounter)
	b.ctxCounter++
	return name
}

func (b *Builder) receiver() string {
	return b.receivers[len(b.receivers)-1]
}

func (b *Builder) pushReceiver(name string) {
	b.receivers = append(b.receivers, name)
}

func (b *Builder) popReceiver() {
	if len(b.receivers) > 1 {
		b.receivers = b.receivers[:len(b.receivers)-1]
	}
}

func (b *Builder) compat() bool {
	return b.flags.IsGlimmerCompatMode
}

func prov(origin ir.Origin, name string) output.Provenance {
	return output.Provenance{SourceSpan: origin.SourceSpan, SourceKind: origin.SourceKind, Name: name}
}

// Template builds the template function:
//
//	function () {
//	  $_GET_ARGS(this, arguments);
//	  const $slots = $_GET_SLOTS(this, arguments);
//	  const $fw = $_GET_FW(this, arguments);
//	  const roots = [...];
//	  return $_fin(roots, this);
//	}
func (b *Builder) Template(children []ir.Child) *output.FunctionExpr {
	self := output.Ident("this")
	arguments := output.Ident("arguments")
	roots := output.NewArrayExpr(b.Children(children, RootContext), output.Provenance{})
	return output.NewFunctionExpr(nil, []output.JSStatement{
		output.NewExpressionStmt(output.Call(runtime.GetArgs, self, arguments), output.Provenance{}),
		output.NewDeclareVarStmt(runtime.SlotsValue, output.Call(runtime.GetSlots, self, arguments), false, output.Provenance{}),
		output.NewDeclareVarStmt(runtime.FwValue, output.Call(runtime.GetFW, self, arguments), false, output.Provenance{}),
		output.NewDeclareVarStmt(runtime.RootsName, roots, false, output.Provenance{}),
		output.NewReturnStmt(output.Call(runtime.Finalize, output.Ident(runtime.RootsName), self), output.Provenance{}),
	}, output.Provenance{})
}

// Children builds a children list rendered in context ctxName
func (b *Builder) Children(children []ir.Child, ctxName string) []output.JSExpression {
	out := make([]output.JSExpression, 0, len(children))
	for _, child := range children {
		if expr := b.Build(child, ctxName); expr != nil {
			out = append(out, expr)
		}
	}
	return out
}

// Build turns one IR child into an expression rendered in context ctxName
func (b *Builder) Build(child ir.Child, ctxName string) output.JSExpression {
	switch c := child.(type) {
	case *ir.Text:
		return output.NewLiteralExpr(c.Value, prov(c.Origin, ""))
	case *ir.HBSNode:
		return b.node(c, ctxName)
	case *ir.HBSControlExpression:
		return b.control(c, ctxName)
	case ir.SerializedValue:
		return b.Value(c)
	}
	return nil
}

// branch builds the callback of a control block. Branches without a stable
// first child render through the unstable child wrapper, which owns a fresh
// context.
func (b *Builder) branch(children []ir.Child, stable bool, params []string) *output.ArrowExpr {
	ctxName := b.nextContext()
	all := append(append([]string{}, params...), ctxName)
	if stable {
		return output.NewArrowExpr(all, output.NewArrayExpr(b.Children(children, ctxName), output.Provenance{}), output.Provenance{})
	}
	inner := b.nextContext()
	body := output.NewArrowExpr([]string{inner}, output.NewArrayExpr(b.Children(children, inner), output.Provenance{}), output.Provenance{})
	return output.NewArrowExpr(all, output.Call(runtime.UnstableChildWrapper, body, output.Ident(ctxName)), output.Provenance{})
}
