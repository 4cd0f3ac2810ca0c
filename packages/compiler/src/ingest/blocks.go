package ingest

import (
	"fmt"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/runtime"
	"gxt-go/packages/compiler/src/scope"
	"gxt-go/packages/compiler/src/util"
)

const indexKey = "@index"

// VisitBlock implements ast.Visitor
func (v *Visitor) VisitBlock(node *ast.BlockStatement, context interface{}) interface{} {
	name := node.CalleeName()
	switch name {
	case "if":
		return v.visitIf(node, false)
	case "unless":
		return v.visitIf(node, true)
	case "each":
		return v.visitEach(node)
	case "let":
		return v.visitLet(node)
	case "in-element":
		return v.visitInElement(node)
	}
	msg := fmt.Sprintf("unknown block {{#%s}}", name)
	if suggestion := suggestBlock(name); suggestion != "" {
		msg += fmt.Sprintf(", did you mean {{#%s}}?", suggestion)
	}
	v.ctx.Error(node.Loc, "%s", msg)
	return nil
}

// suggestBlock returns the known block name closest to name, or ""
func suggestBlock(name string) string {
	if name == "" {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, runtime.BlockNames)
	sort.Sort(ranks)
	if len(ranks) > 0 {
		return ranks[0].Target
	}
	best, bestDistance := "", 3
	for _, candidate := range runtime.BlockNames {
		if d := fuzzy.LevenshteinDistance(name, candidate); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}

func duplicateName(names []string) (string, bool) {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return name, true
		}
		seen[name] = true
	}
	return "", false
}

func (v *Visitor) branch(block *ast.Block) []ir.Child {
	if block == nil {
		return []ir.Child{}
	}
	return v.children(block.Body)
}

func (v *Visitor) condition(node *ast.BlockStatement) (ir.SerializedValue, bool) {
	if len(node.Params) != 1 {
		v.ctx.Error(node.Loc, "{{#%s}} expects exactly one argument, got %d", node.CalleeName(), len(node.Params))
		if len(node.Params) == 0 {
			return nil, false
		}
	}
	return v.value(node.Params[0]), true
}

// visitIf lowers if and unless. An absent else branch is an empty list.
func (v *Visitor) visitIf(node *ast.BlockStatement, negate bool) interface{} {
	cond, ok := v.condition(node)
	if !ok {
		return nil
	}
	c := ir.NewHBSControlExpression(ir.ControlIf, v.ctx.Origin(node))
	c.Condition = cond
	c.Children = v.branch(node.Program)
	c.Inverse = v.branch(node.Inverse)
	if negate {
		c.Children, c.Inverse = c.Inverse, c.Children
	}
	c.HasStableChild = ir.HasStableChild(c.Children)
	c.InverseHasStableChild = ir.HasStableChild(c.Inverse)
	if !c.HasContent() {
		return nil
	}
	return c
}

// visitEach lowers each. The item callback always receives an index
// parameter; a missing one is synthesized.
func (v *Visitor) visitEach(node *ast.BlockStatement) interface{} {
	items, ok := v.condition(node)
	if !ok {
		return nil
	}
	origin := v.ctx.Origin(node)
	var params []string
	if node.Program != nil {
		params = append(params, node.Program.BlockParams...)
	}
	if dup, found := duplicateName(params); found {
		v.ctx.Warn(node.Loc, "duplicate block param %q in {{#each}}; block skipped", dup)
		return nil
	}
	if len(params) > 2 {
		v.ctx.Warn(node.Loc, "{{#each}} yields an item and an index, got %d block params; block skipped", len(params))
		return nil
	}

	c := ir.NewHBSControlExpression(ir.ControlEach, origin)
	c.Condition = items
	c.Key = v.eachKey(node.Hash.Get("key"))
	if sync := node.Hash.Get("sync"); sync != nil {
		if lit, ok := sync.Value.(*ast.Literal); ok && lit.LiteralKind == ast.LiteralBoolean {
			c.IsSync = lit.Value.(bool)
		} else {
			v.ctx.Warn(sync.Loc, "sync= expects a boolean literal")
		}
	}

	v.ctx.Scope.EnterScope("each")
	for _, p := range params {
		v.ctx.Scope.AddBinding(p, scope.NewBindingInfo(scope.BindingBlockParam, p, origin.SourceSpan))
	}
	c.Children = v.branch(node.Program)
	v.exitScope()

	switch len(params) {
	case 0:
		params = []string{runtime.ItemParam, runtime.IndexParam}
	case 1:
		params = append(params, runtime.IndexParam)
	}
	c.BlockParams = params

	if node.Inverse != nil {
		c.Inverse = v.branch(node.Inverse)
		c.InverseHasStableChild = ir.HasStableChild(c.Inverse)
	}
	c.HasStableChild = ir.HasStableChild(c.Children)
	if !c.HasContent() {
		return nil
	}
	return c
}

// eachKey returns the item property used as key. Keys by index defeat
// reordering and fall back to identity.
func (v *Visitor) eachKey(pair *ast.HashPair) string {
	if pair == nil {
		return ""
	}
	lit, ok := pair.Value.(*ast.Literal)
	if !ok || lit.LiteralKind != ast.LiteralString {
		v.ctx.Warn(pair.Loc, "key= expects a string literal, falling back to identity")
		return ""
	}
	key := lit.Value.(string)
	switch key {
	case indexKey:
		v.ctx.Warn(pair.Loc, "key=%q breaks reordering, falling back to identity", indexKey)
		return ""
	case "@identity", "":
		return ""
	}
	return key
}

// visitLet binds each positional param to the matching block param. Literals
// and sub-expressions are bound directly; other values are bound as thunks
// and read by calling them.
func (v *Visitor) visitLet(node *ast.BlockStatement) interface{} {
	origin := v.ctx.Origin(node)
	if node.Program == nil || len(node.Params) == 0 {
		v.ctx.Error(node.Loc, "{{#let}} expects at least one argument")
		return nil
	}
	names := node.Program.BlockParams
	if dup, found := duplicateName(names); found {
		v.ctx.Warn(node.Loc, "duplicate block param %q in {{#let}}; block skipped", dup)
		return nil
	}
	if len(names) != len(node.Params) {
		v.ctx.Warn(node.Loc, "{{#let}} has %d arguments but %d block params", len(node.Params), len(names))
	}

	values := v.values(node.Params)
	c := ir.NewHBSControlExpression(ir.ControlLet, origin)
	n := v.ctx.nextLetScope()

	v.ctx.Scope.EnterScope("let")
	for i, name := range names {
		var value ir.SerializedValue = ir.NewUndefined(ir.Origin{})
		if i < len(values) {
			value = values[i]
		}
		lazy := !inlineable(value)
		if lazy {
			value = ir.NewGetter(value, ir.Origin{SourceSpan: value.Span(), SourceKind: value.Kind()})
		}
		emitted := fmt.Sprintf("Let_%s_scope%d", util.SanitizeIdentifier(name), n)
		info := scope.NewBindingInfo(scope.BindingLetBinding, emitted, origin.SourceSpan)
		info.OriginalName = name
		info.Lazy = lazy
		v.ctx.Scope.AddBinding(name, info)
		c.Bindings = append(c.Bindings, &ir.LetBinding{Name: emitted, OriginalName: name, Value: value})
	}
	c.BlockParams = names
	c.Children = v.branch(node.Program)
	v.exitScope()

	if node.Inverse != nil {
		v.ctx.Warn(node.Inverse.Loc, "{{else}} in {{#let}} is never rendered")
	}
	c.HasStableChild = ir.HasStableChild(c.Children)
	if !c.HasContent() {
		return nil
	}
	return c
}

func inlineable(value ir.SerializedValue) bool {
	switch value.(type) {
	case *ir.Literal, *ir.Helper:
		return true
	}
	return false
}

// visitInElement renders its body into another DOM node
func (v *Visitor) visitInElement(node *ast.BlockStatement) interface{} {
	dest, ok := v.condition(node)
	if !ok {
		return nil
	}
	for i := 0; i < node.Hash.Len(); i++ {
		if pair := node.Hash.Pairs[i]; pair.Key != "insertBefore" {
			v.ctx.Warn(pair.Loc, "unknown {{#in-element}} option %q ignored", pair.Key)
		}
	}
	c := ir.NewHBSControlExpression(ir.ControlInElement, v.ctx.Origin(node))
	c.Condition = dest
	c.Children = v.branch(node.Program)
	c.HasStableChild = ir.HasStableChild(c.Children)
	if !c.HasContent() {
		return nil
	}
	return c
}

// visitYield lowers `{{yield params to="name"}}`
func (v *Visitor) visitYield(node *ast.MustacheStatement) interface{} {
	c := ir.NewHBSControlExpression(ir.ControlYield, v.ctx.Origin(node))
	c.SlotName = "default"
	if to := node.Hash.Get("to"); to != nil {
		lit, ok := to.Value.(*ast.Literal)
		if !ok || lit.LiteralKind != ast.LiteralString {
			v.ctx.Error(to.Loc, "{{yield}} expects a string literal for to=")
		} else {
			c.SlotName = lit.Value.(string)
			if c.SlotName == "inverse" {
				c.SlotName = "else"
			}
		}
	}
	c.Params = v.values(node.Params)
	return c
}
