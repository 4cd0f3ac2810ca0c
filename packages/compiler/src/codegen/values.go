package codegen

import (
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/output"
	"gxt-go/packages/compiler/src/runtime"
	"gxt-go/packages/compiler/src/util"
)

// Value builds a value in reactive position. In compat mode everything that
// may change is wrapped in a zero-argument getter; literals and values whose
// type hint proves them constant are not.
func (b *Builder) Value(value ir.SerializedValue) output.JSExpression {
	switch v := value.(type) {
	case *ir.Literal:
		return b.literal(v)
	case *ir.Path:
		if expr, ok := b.constant(v); ok {
			return expr
		}
		return b.wrap(b.path(v))
	case *ir.Helper, *ir.Concat:
		return b.wrap(b.Direct(v))
	case *ir.Getter:
		return output.NewReactiveGetterExpr(b.Direct(v.Value), output.Provenance{})
	}
	return b.Direct(value)
}

// Direct builds a value without any getter wrapping
func (b *Builder) Direct(value ir.SerializedValue) output.JSExpression {
	switch v := value.(type) {
	case nil:
		return output.NewUndefinedExpr(output.Provenance{})
	case *ir.Literal:
		return b.literal(v)
	case *ir.Path:
		return b.path(v)
	case *ir.Helper:
		return b.helper(v)
	case *ir.Concat:
		return b.concat(v)
	case *ir.Spread:
		return output.NewSpreadExpr(b.Direct(v.Value), prov(v.Origin, ""))
	case *ir.Raw:
		return output.NewRawExpr(v.Code, prov(v.Origin, ""))
	case *ir.Getter:
		return output.NewReactiveGetterExpr(b.Direct(v.Value), output.Provenance{})
	}
	return output.NewUndefinedExpr(output.Provenance{})
}

func (b *Builder) wrap(expr output.JSExpression) output.JSExpression {
	if !b.compat() {
		return expr
	}
	return output.NewReactiveGetterExpr(expr, output.Provenance{})
}

func (b *Builder) literal(l *ir.Literal) output.JSExpression {
	if l.Undefined {
		return output.NewUndefinedExpr(prov(l.Origin, ""))
	}
	return output.NewLiteralExpr(l.Value, prov(l.Origin, ""))
}

// constant consults the type hints for `this.x` and `@x`. A hinted literal
// value is inlined; any other constant is read once without a getter.
func (b *Builder) constant(p *ir.Path) (output.JSExpression, bool) {
	if !b.flags.WithTypeOptimization || b.hints == nil || len(p.Tail) > 0 || p.Head == "" {
		return nil, false
	}
	hint := b.hints.Property(p.Head)
	if p.Root == ir.RootArgs {
		hint = b.hints.Arg(p.Head)
	} else if p.Root != ir.RootThis {
		return nil, false
	}
	if !hint.IsConstant() {
		return nil, false
	}
	if hint.HasLiteral {
		return output.NewLiteralExpr(hint.LiteralValue, prov(p.Origin, p.Original)), true
	}
	return b.path(p), true
}

// path renders a resolved path. After the root the first segment is a plain
// member access and every further segment is optional:
//
//	@foo.bar.baz -> this[$args].foo?.bar?.baz
//	this.foo.bar -> this.foo?.bar
//	foo.bar      -> foo.bar
func (b *Builder) path(p *ir.Path) output.JSExpression {
	pv := prov(p.Origin, p.Original)
	var expr output.JSExpression
	var segments []string
	switch p.Root {
	case ir.RootThis:
		expr = output.Ident(b.receiver())
		segments = p.Segments()
	case ir.RootArgs:
		args := output.NewIdentifierExpr(runtime.ArgsSymbol, output.Provenance{SourceSpan: p.SourceSpan, SourceKind: p.SourceKind, Name: runtime.ArgsSymbol})
		expr = output.NewIndexExpr(output.Ident(b.receiver()), args, output.Provenance{})
		segments = p.Segments()
	default:
		if len(p.Tail) == 0 && (p.Binding == nil || !p.Binding.Lazy) {
			return output.NewIdentifierExpr(p.Head, pv)
		}
		expr = output.NewIdentifierExpr(p.Head, output.Provenance{})
		if p.Binding != nil && p.Binding.Lazy {
			expr = output.NewCallExpr(expr, nil, output.Provenance{})
		}
		segments = p.Tail
	}
	if len(segments) == 0 {
		if p.Root == ir.RootThis {
			return output.NewIdentifierExpr(b.receiver(), pv)
		}
		return withProvenance(expr, pv)
	}
	for i, segment := range segments {
		var mp output.Provenance
		if i == len(segments)-1 {
			mp = pv
		}
		expr = output.NewMemberExpr(expr, segment, i > 0, mp)
	}
	return expr
}

// withProvenance attaches pv to a synthesized call or index expression
func withProvenance(expr output.JSExpression, pv output.Provenance) output.JSExpression {
	switch e := expr.(type) {
	case *output.CallExpr:
		e.Provenance = pv
	case *output.MemberExpr:
		e.Provenance = pv
	}
	return expr
}

func (b *Builder) concat(c *ir.Concat) output.JSExpression {
	parts := make([]output.JSExpression, 0, len(c.Parts))
	for _, part := range c.Parts {
		parts = append(parts, b.Direct(part))
	}
	array := output.NewArrayExpr(parts, output.Provenance{})
	return output.NewMethodCallExpr(array, "join", []output.JSExpression{output.Str("")}, prov(c.Origin, ""))
}

func (b *Builder) arguments(values []ir.SerializedValue) []output.JSExpression {
	out := make([]output.JSExpression, 0, len(values))
	for _, v := range values {
		out = append(out, b.Value(v))
	}
	return out
}

func (b *Builder) hash(named []ir.NamedArg) *output.ObjectExpr {
	props := make([]*output.ObjectProp, 0, len(named))
	for _, arg := range named {
		props = append(props, &output.ObjectProp{Key: arg.Key, Value: b.Value(arg.Value)})
	}
	return output.NewObjectExpr(props, output.Provenance{})
}

// helper builds a helper invocation:
//
//	built-in       $__eq(a, b)
//	redirection    $_hasBlock($slots, 'name')
//	manager on     $_maybeHelper(ref, [args], {hash}, receiver)
//	manager off    ref(args, {hash})
func (b *Builder) helper(h *ir.Helper) output.JSExpression {
	pv := prov(h.Origin, h.Name)
	if h.IsBuiltin() {
		return b.builtin(h, pv)
	}
	positional := b.arguments(h.Positional)
	named := b.hash(h.Named)
	unbound := h.Callee == nil

	if b.flags.WithHelperManager || (unbound && !util.IsLegalIdentifier(h.Name)) {
		var ref output.JSExpression
		if unbound {
			ref = output.NewLiteralExpr(h.Name, output.Provenance{})
		} else {
			ref = b.path(h.Callee)
		}
		list := output.NewArrayExpr(positional, output.Provenance{})
		return output.NewCallExpr(output.Ref(runtime.MaybeHelper), []output.JSExpression{ref, list, named, output.Ident(b.receiver())}, pv)
	}

	var callee output.JSExpression
	if unbound {
		callee = output.Ident(h.Name)
	} else {
		callee = b.path(h.Callee)
	}
	if len(named.Props) > 0 {
		positional = append(positional, named)
	}
	return output.NewCallExpr(callee, positional, pv)
}

func (b *Builder) builtin(h *ir.Helper, pv output.Provenance) output.JSExpression {
	symbol := output.Ref(h.Symbol)
	switch h.Symbol {
	case runtime.HasBlock, runtime.HasBlockParams:
		args := append([]output.JSExpression{output.Ident(runtime.SlotsValue)}, b.directArguments(h.Positional)...)
		return output.NewCallExpr(symbol, args, pv)
	case runtime.ComponentHelper, runtime.HelperHelper, runtime.ModifierHelper:
		args := []output.JSExpression{output.NewArrayExpr(b.arguments(h.Positional), output.Provenance{}), b.hash(h.Named)}
		return output.NewCallExpr(symbol, args, pv)
	}
	if h.NamedAsObject {
		return output.NewCallExpr(symbol, []output.JSExpression{b.hash(h.Named)}, pv)
	}
	args := b.arguments(h.Positional)
	if h.WithReceiver {
		args = append([]output.JSExpression{output.Ident(b.receiver())}, args...)
		return output.NewMethodCallExpr(symbol, "call", args, pv)
	}
	return output.NewCallExpr(symbol, args, pv)
}

func (b *Builder) directArguments(values []ir.SerializedValue) []output.JSExpression {
	out := make([]output.JSExpression, 0, len(values))
	for _, v := range values {
		out = append(out, b.Direct(v))
	}
	return out
}
