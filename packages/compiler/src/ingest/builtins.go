package ingest

import (
	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/runtime"
)

// builtinArity is the accepted positional argument range; -1 is unbounded
var builtinArity = map[string][2]int{
	"if":     {2, 3},
	"unless": {2, 3},
	"eq":     {2, -1},
	"not":    {1, 1},
	"or":     {1, -1},
	"and":    {1, -1},
	"fn":     {1, -1},
	"hash":   {0, 0},
}

// builtin rewrites a built-in helper to its runtime symbol. `unless` shares
// the `if` symbol with its branches swapped.
func (v *Visitor) builtin(name string, call *ast.Call, loc ast.Loc, origin ir.Origin) ir.SerializedValue {
	positional := v.values(call.Params)
	if bounds, ok := builtinArity[name]; ok {
		if n := len(positional); n < bounds[0] || (bounds[1] >= 0 && n > bounds[1]) {
			v.ctx.Error(loc, "helper %q called with %d positional arguments", name, n)
		}
	}

	helper := ir.NewHelper(name, positional, v.named(call.Hash), origin)
	helper.Symbol = runtime.BuiltinHelpers[name]

	switch name {
	case "if", "unless":
		for len(helper.Positional) < 3 {
			helper.Positional = append(helper.Positional, ir.NewUndefined(ir.Origin{}))
		}
		if name == "unless" {
			helper.Positional[1], helper.Positional[2] = helper.Positional[2], helper.Positional[1]
		}
	case "hash":
		helper.NamedAsObject = true
	case "debugger":
		helper.WithReceiver = true
	}
	return helper
}
