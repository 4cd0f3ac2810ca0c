package codegen

import (
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/output"
	"gxt-go/packages/compiler/src/runtime"
	"gxt-go/packages/compiler/src/util"
)

var eventParams = []string{runtime.EventParam, runtime.NodeParam}

func (b *Builder) node(n *ir.HBSNode, ctxName string) output.JSExpression {
	if n.IsComponentLike() {
		return b.component(n, ctxName)
	}
	return b.element(n, ctxName)
}

// element builds `$_tag('div', [props, attrs, events], [children], ctx)`
func (b *Builder) element(n *ir.HBSNode, ctxName string) output.JSExpression {
	tag := output.NewLiteralExpr(n.Tag, output.Provenance{})
	children := output.NewArrayExpr(b.Children(n.Children, ctxName), output.Provenance{})
	return output.NewCallExpr(output.Ref(runtime.Tag), []output.JSExpression{
		tag,
		b.domProps(n),
		children,
		output.Ident(ctxName),
	}, prov(n.Origin, n.Tag))
}

// domProps builds the `[props, attrs, events]` triple, with `$fw` appended
// when the node forwards attributes. A node without any of them gets `$_edp`.
func (b *Builder) domProps(n *ir.HBSNode) output.JSExpression {
	if len(n.Properties) == 0 && len(n.Attributes) == 0 && len(n.Events) == 0 && !n.ForwardsAttributes {
		return output.Ref(runtime.EmptyDOMProps)
	}
	parts := []output.JSExpression{
		b.attrList(n.Properties),
		b.attrList(n.Attributes),
		b.events(n.Events),
	}
	if n.ForwardsAttributes {
		parts = append(parts, output.Ident(runtime.FwValue))
	}
	return output.NewArrayExpr(parts, output.Provenance{})
}

func (b *Builder) attrList(attrs []*ir.Attr) *output.ArrayExpr {
	out := make([]output.JSExpression, 0, len(attrs))
	for _, attr := range attrs {
		pair := []output.JSExpression{output.Str(attr.Name), b.Value(attr.Value)}
		out = append(out, output.NewArrayExpr(pair, prov(attr.Origin, attr.Name)))
	}
	return output.NewArrayExpr(out, output.Provenance{})
}

func (b *Builder) events(events []*ir.Event) *output.ArrayExpr {
	out := make([]output.JSExpression, 0, len(events))
	for _, ev := range events {
		var name string
		var handler output.JSExpression
		if ev.Kind == ir.EventListener {
			name, handler = ev.Name, b.listener(ev)
		} else {
			name, handler = "@oncreated", b.modifier(ev)
		}
		out = append(out, output.NewArrayExpr([]output.JSExpression{output.Str(name), handler}, prov(ev.Origin, ev.Name)))
	}
	return output.NewArrayExpr(out, output.Provenance{})
}

// listener builds an event handler. A `this.method` handler is bound to the
// component; extra arguments are appended after the event and the node.
func (b *Builder) listener(ev *ir.Event) output.JSExpression {
	args := b.directArguments(ev.Args)
	if path, ok := ev.Handler.(*ir.Path); ok && path.Root == ir.RootThis && path.Head != "" && len(path.Tail) == 0 {
		return output.NewMethodBindingExpr(output.Ident(b.receiver()), path.Head, eventParams, args, prov(path.Origin, path.Original))
	}
	handler := b.Direct(ev.Handler)
	if len(args) == 0 {
		return handler
	}
	callArgs := append([]output.JSExpression{output.Ident(runtime.EventParam), output.Ident(runtime.NodeParam)}, args...)
	return output.NewArrowExpr(eventParams, output.NewCallExpr(handler, callArgs, output.Provenance{}), output.Provenance{})
}

// modifier builds `($n) => $_maybeModifier(ref, $n, [args], {hash})`, or a
// direct `($n) => ref($n, args)` call without the modifier manager
func (b *Builder) modifier(ev *ir.Event) output.JSExpression {
	m := ev.Modifier
	node := output.Ident(runtime.NodeParam)
	positional := b.arguments(m.Positional)
	named := b.hash(m.Named)
	pv := prov(m.Origin, m.Name)

	var ref output.JSExpression
	if m.Callee != nil {
		ref = b.path(m.Callee)
	}
	if b.flags.WithModifierManager || (ref == nil && !util.IsLegalIdentifier(m.Name)) {
		if ref == nil {
			ref = output.Str(m.Name)
		}
		list := output.NewArrayExpr(positional, output.Provenance{})
		call := output.NewCallExpr(output.Ref(runtime.MaybeModifier), []output.JSExpression{ref, node, list, named}, pv)
		return output.NewArrowExpr([]string{runtime.NodeParam}, call, output.Provenance{})
	}
	if ref == nil {
		ref = output.Ident(m.Name)
	}
	args := append([]output.JSExpression{node}, positional...)
	if len(named.Props) > 0 {
		args = append(args, named)
	}
	return output.NewArrowExpr([]string{runtime.NodeParam}, output.NewCallExpr(ref, args, pv), output.Provenance{})
}

// component builds `$_c(Comp, $_args({args}, {slots}, [props, attrs, events]), ctx)`.
// Dynamic components pass a getter of the reference to `$_dc`.
func (b *Builder) component(n *ir.HBSNode, ctxName string) output.JSExpression {
	args := make([]*output.ObjectProp, 0, len(n.Args))
	for _, arg := range n.Args {
		args = append(args, &output.ObjectProp{Provenance: prov(arg.Origin, "@"+arg.Name), Key: arg.Name, Value: b.Value(arg.Value)})
	}
	slots := make([]*output.ObjectProp, 0, len(n.Slots))
	for _, slot := range n.Slots {
		slots = append(slots, &output.ObjectProp{Provenance: prov(slot.Origin, ""), Key: slot.Name, Value: b.slot(slot)})
	}
	props := b.domProps(n)
	if ref, ok := props.(*output.RuntimeRefExpr); ok && ref.Symbol == runtime.EmptyDOMProps {
		props = output.NewArrayExpr([]output.JSExpression{
			output.NewArrayExpr(nil, output.Provenance{}),
			output.NewArrayExpr(nil, output.Provenance{}),
			output.NewArrayExpr(nil, output.Provenance{}),
		}, output.Provenance{})
	}
	argsCall := output.Call(runtime.Args,
		output.NewObjectExpr(args, output.Provenance{}),
		output.NewObjectExpr(slots, output.Provenance{}),
		props,
	)

	var ref output.JSExpression
	if n.TagRef != nil {
		ref = b.path(n.TagRef)
	} else {
		ref = output.NewIdentifierExpr(util.SanitizeIdentifier(n.Tag), output.Provenance{})
	}
	symbol := runtime.Component
	if n.TagKind == ir.TagDynamic {
		symbol = runtime.DynamicComponent
		ref = output.NewReactiveGetterExpr(ref, output.Provenance{})
	}
	return output.NewCallExpr(output.Ref(symbol), []output.JSExpression{ref, argsCall, output.Ident(ctxName)}, prov(n.Origin, n.Tag))
}

// slot builds `(ctxN, ...params) => [...]`
func (b *Builder) slot(slot *ir.Slot) output.JSExpression {
	ctxName := b.nextContext()
	params := append([]string{ctxName}, slot.BlockParams...)
	if slot.HasStableChild {
		return output.NewArrowExpr(params, output.NewArrayExpr(b.Children(slot.Children, ctxName), output.Provenance{}), output.Provenance{})
	}
	inner := b.nextContext()
	body := output.NewArrowExpr([]string{inner}, output.NewArrayExpr(b.Children(slot.Children, inner), output.Provenance{}), output.Provenance{})
	return output.NewArrowExpr(params, output.Call(runtime.UnstableChildWrapper, body, output.Ident(ctxName)), output.Provenance{})
}
