package ingest

import (
	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/runtime"
	"gxt-go/packages/compiler/src/scope"
)

const helperKind = scope.BindingHelper

// resolvePath resolves a dotted path against the current scope:
//
//	@name.rest  -> argument access
//	this.a.b    -> component property
//	bound name  -> the binding, renamed when the binding was
//	anything    -> a global identifier
func (v *Visitor) resolvePath(node *ast.PathExpression) *ir.Path {
	origin := v.ctx.Origin(node)
	switch node.HeadKind {
	case ast.PathHeadArg:
		return ir.NewPath(ir.RootArgs, node.Head, node.Tail, node.Original, origin)
	case ast.PathHeadThis:
		return ir.NewPath(ir.RootThis, node.Head, node.Tail, node.Original, origin)
	}
	if info, ok := v.ctx.Scope.Resolve(node.Head); ok {
		v.ctx.touch(info)
		path := ir.NewPath(ir.RootBinding, info.Name, node.Tail, node.Original, origin)
		path.Binding = info
		return path
	}
	return ir.NewPath(ir.RootGlobal, node.Head, node.Tail, node.Original, origin)
}

// resolveName resolves a bare name that does not come from a PathExpression,
// such as an element tag
func (v *Visitor) resolveName(name string, loc ast.Loc) *ir.Path {
	return v.resolvePath(ast.NewPathExpression(name, loc))
}

func isRedirection(name string) bool {
	_, ok := runtime.Redirections[name]
	return ok
}

// call lowers an invocation. Built-in helpers and redirections become
// runtime symbol calls; everything else becomes a user helper call.
func (v *Visitor) call(call *ast.Call, loc ast.Loc, origin ir.Origin) ir.SerializedValue {
	name := call.CalleeName()
	if runtime.IsBuiltinHelper(name) {
		return v.builtin(name, call, loc, origin)
	}
	if symbol, ok := runtime.Redirections[name]; ok {
		helper := ir.NewHelper(name, v.values(call.Params), v.named(call.Hash), origin)
		helper.Symbol = symbol
		return helper
	}
	return v.helper(call, loc, origin)
}

// helper builds a user helper or modifier invocation. A callee found in
// scope, or rooted at `this`/`@`, is kept as a reference; an unknown name is
// kept by name only and resolved at runtime.
func (v *Visitor) helper(call *ast.Call, loc ast.Loc, origin ir.Origin) *ir.Helper {
	helper := ir.NewHelper(call.CalleeName(), v.values(call.Params), v.named(call.Hash), origin)
	callee, ok := call.Path.(*ast.PathExpression)
	if !ok {
		v.ctx.Error(loc, "%s cannot be invoked", call.Path.Kind())
		return helper
	}
	path := v.resolvePath(callee)
	if path.Root != ir.RootGlobal || len(path.Tail) > 0 {
		helper.Callee = path
	}
	return helper
}
