package codegen

import (
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/output"
	"gxt-go/packages/compiler/src/runtime"
)

func (b *Builder) control(c *ir.HBSControlExpression, ctxName string) output.JSExpression {
	pv := prov(c.Origin, "")
	switch c.Type {
	case ir.ControlIf:
		return output.NewCallExpr(output.Ref(runtime.If), []output.JSExpression{
			b.Value(c.Condition),
			b.branch(c.Children, c.HasStableChild, nil),
			b.branch(c.Inverse, c.InverseHasStableChild, nil),
			output.Ident(ctxName),
		}, pv)
	case ir.ControlEach:
		return b.each(c, ctxName, pv)
	case ir.ControlYield:
		return b.yield(c, ctxName, pv)
	case ir.ControlInElement:
		return output.NewCallExpr(output.Ref(runtime.InElement), []output.JSExpression{
			b.Value(c.Condition),
			b.branch(c.Children, c.HasStableChild, nil),
			output.Ident(ctxName),
		}, pv)
	case ir.ControlLet:
		return b.let(c, ctxName, pv)
	}
	return nil
}

// each builds `$_each(items, (item, $index, ctxN) => [...], key, ctx)`; an
// inverse branch is passed as a fifth argument
func (b *Builder) each(c *ir.HBSControlExpression, ctxName string, pv output.Provenance) output.JSExpression {
	symbol := runtime.Each
	if c.IsSync {
		symbol = runtime.EachSync
	}
	args := []output.JSExpression{
		b.Value(c.Condition),
		b.branch(c.Children, c.HasStableChild, c.BlockParams[:2]),
		eachKey(c.Key),
		output.Ident(ctxName),
	}
	if c.Inverse != nil {
		args = append(args, b.branch(c.Inverse, c.InverseHasStableChild, nil))
	}
	return output.NewCallExpr(output.Ref(symbol), args, pv)
}

// eachKey builds `($item) => $item.key`, or the identity `($item) => $item`
func eachKey(key string) output.JSExpression {
	var body output.JSExpression = output.Ident(runtime.ItemParam)
	if key != "" {
		body = output.NewMemberExpr(body, key, false, output.Provenance{})
	}
	return output.NewArrowExpr([]string{runtime.ItemParam}, body, output.Provenance{})
}

// yield builds `$_slot('name', () => [params], $slots, ctx)`
func (b *Builder) yield(c *ir.HBSControlExpression, ctxName string, pv output.Provenance) output.JSExpression {
	params := output.NewArrayExpr(b.arguments(c.Params), output.Provenance{})
	return output.NewCallExpr(output.Ref(runtime.Slot), []output.JSExpression{
		output.Str(c.SlotName),
		output.NewArrowExpr(nil, params, output.Provenance{}),
		output.Ident(runtime.SlotsValue),
		output.Ident(ctxName),
	}, pv)
}

// let builds
//
//	...(() => { let self = this; let Let_x_scope0 = value; return [...]; })()
//
// Everything inside reads the component through `self`. Only the outermost
// let declares the alias; nested ones close over it.
func (b *Builder) let(c *ir.HBSControlExpression, ctxName string, pv output.Provenance) output.JSExpression {
	var statements []output.JSStatement
	if outer := b.receiver(); outer != runtime.SelfAlias {
		statements = append(statements, output.NewDeclareVarStmt(runtime.SelfAlias, output.Ident(outer), true, output.Provenance{}))
	}
	b.pushReceiver(runtime.SelfAlias)
	defer b.popReceiver()
	if ctxName == RootContext {
		ctxName = runtime.SelfAlias
	}

	for _, binding := range c.Bindings {
		statements = append(statements, output.NewDeclareVarStmt(binding.Name, b.Direct(binding.Value), true, output.Provenance{Name: binding.OriginalName}))
	}
	var children []output.JSExpression
	if c.HasStableChild {
		children = b.Children(c.Children, ctxName)
	} else {
		inner := b.nextContext()
		body := output.NewArrowExpr([]string{inner}, output.NewArrayExpr(b.Children(c.Children, inner), output.Provenance{}), output.Provenance{})
		children = []output.JSExpression{output.Call(runtime.UnstableChildWrapper, body, output.Ident(ctxName))}
	}
	statements = append(statements, output.NewReturnStmt(output.NewArrayExpr(children, output.Provenance{}), output.Provenance{}))
	return output.NewSpreadExpr(output.NewIIFEExpr(statements, pv), output.Provenance{})
}
