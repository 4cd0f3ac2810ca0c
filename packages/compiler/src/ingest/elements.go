package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/scope"
)

// domProperties lists the attributes of form controls that are set as DOM
// properties rather than attributes
var domProperties = map[string]map[string]bool{
	"input":    {"value": true, "checked": true, "disabled": true, "indeterminate": true},
	"textarea": {"value": true, "disabled": true},
	"select":   {"value": true, "disabled": true},
	"option":   {"value": true, "selected": true, "disabled": true},
	"button":   {"disabled": true},
}

const forwardAttributes = "...attributes"

func isProperty(tag, attr string) bool {
	return domProperties[tag][attr]
}

// classifyTag decides how an element tag renders: a named block, a component
// reached through a path or a local binding, a static component, or a plain
// DOM element.
func (v *Visitor) classifyTag(node *ast.ElementNode) (ir.TagKind, *ir.Path) {
	tag := node.Tag
	loc := node.TagLoc
	if loc.IsSynthetic() {
		loc = node.Loc
	}
	switch {
	case strings.HasPrefix(tag, ":"):
		return ir.TagNamedBlock, nil
	case strings.HasPrefix(tag, "@"), strings.HasPrefix(tag, "this."), strings.Contains(tag, "."):
		return ir.TagDynamic, v.resolveName(tag, loc)
	}
	if info, ok := v.ctx.Scope.Resolve(tag); ok {
		ref := v.resolveName(tag, loc)
		if info.Kind.IsLocal() {
			return ir.TagDynamic, ref
		}
		return ir.TagComponent, ref
	}
	if r, _ := utf8.DecodeRuneInString(tag); unicode.IsUpper(r) {
		return ir.TagComponent, v.resolveName(tag, loc)
	}
	return ir.TagElement, nil
}

// VisitElement implements ast.Visitor
func (v *Visitor) VisitElement(node *ast.ElementNode, context interface{}) interface{} {
	kind, ref := v.classifyTag(node)
	if kind == ir.TagNamedBlock {
		v.ctx.Warn(node.Loc, "named block <%s> is only allowed directly inside a component", node.Tag)
		return nil
	}

	n := ir.NewHBSNode(node.Tag, kind, v.ctx.Origin(node))
	n.TagRef = ref
	n.SelfClosing = node.SelfClosing
	v.attributes(node, n)
	for _, m := range node.Modifiers {
		v.ctx.seen[m] = nil
		if ev := v.modifier(m); ev != nil {
			n.Events = append(n.Events, ev)
		}
	}

	if n.IsComponentLike() {
		if !v.componentBody(node, n) {
			return nil
		}
		return n
	}

	if len(node.BlockParams) > 0 {
		v.ctx.Warn(node.Loc, "block params on <%s> are ignored; only components yield values", node.Tag)
	}
	n.Children = v.children(node.Children)
	n.HasStableChild = ir.HasStableChild(n.Children)
	return n
}

func (v *Visitor) attributes(node *ast.ElementNode, n *ir.HBSNode) {
	for _, attr := range node.Attributes {
		v.ctx.seen[attr] = nil
		origin := v.ctx.Origin(attr)
		switch {
		case attr.Name == forwardAttributes:
			n.ForwardsAttributes = true
		case strings.HasPrefix(attr.Name, "@"):
			if !n.IsComponentLike() {
				v.ctx.Warn(attr.Loc, "argument %s on plain element <%s> is ignored", attr.Name, node.Tag)
				continue
			}
			n.Args = append(n.Args, ir.NewAttr(attr.Name[1:], v.attrValue(attr), origin))
		case n.TagKind == ir.TagElement && isProperty(node.Tag, attr.Name):
			n.Properties = append(n.Properties, ir.NewAttr(attr.Name, v.attrValue(attr), origin))
		default:
			n.Attributes = append(n.Attributes, ir.NewAttr(attr.Name, v.attrValue(attr), origin))
		}
	}
}

func (v *Visitor) attrValue(attr *ast.AttrNode) ir.SerializedValue {
	if text, ok := attr.Value.(*ast.TextNode); ok {
		v.ctx.seen[text] = nil
		return ir.NewLiteral(text.Chars, v.ctx.Origin(text))
	}
	return v.value(attr.Value)
}

// modifier lowers `{{on "event" handler ...args}}` to a listener and any
// other element modifier to a modifier event
func (v *Visitor) modifier(m *ast.ElementModifierStatement) *ir.Event {
	origin := v.ctx.Origin(m)
	if m.CalleeName() == "on" {
		if len(m.Params) < 2 {
			v.ctx.Error(m.Loc, "{{on}} expects an event name and a handler")
			return nil
		}
		name, ok := m.Params[0].(*ast.Literal)
		if !ok || name.LiteralKind != ast.LiteralString {
			v.ctx.Error(m.Params[0].Location(), "{{on}} expects a string event name")
			return nil
		}
		return &ir.Event{
			Origin:  origin,
			Kind:    ir.EventListener,
			Name:    name.Value.(string),
			Handler: v.value(m.Params[1]),
			Args:    v.values(m.Params[2:]),
		}
	}
	return &ir.Event{
		Origin:   origin,
		Kind:     ir.EventModifier,
		Name:     m.CalleeName(),
		Modifier: v.helper(&m.Call, m.Loc, origin),
	}
}

// componentBody fills the slots of a component. `<:name>` children become
// named slots, everything else the default slot. It reports false when the
// component had to be skipped.
func (v *Visitor) componentBody(node *ast.ElementNode, n *ir.HBSNode) bool {
	var named []*ast.ElementNode
	var rest []ast.Node
	for _, child := range node.Children {
		if el, ok := child.(*ast.ElementNode); ok && strings.HasPrefix(el.Tag, ":") {
			named = append(named, el)
			continue
		}
		rest = append(rest, child)
	}

	if len(named) > 0 {
		for _, child := range rest {
			if text, ok := child.(*ast.TextNode); ok && strings.TrimSpace(text.Chars) == "" {
				continue
			}
			if _, ok := child.(*ast.CommentStatement); ok {
				continue
			}
			v.ctx.Error(child.Location(), "<%s> mixes named blocks with other content", node.Tag)
			break
		}
		for _, el := range named {
			v.ctx.seen[el] = nil
			if slot := v.slot(el.Tag[1:], el.BlockParams, el.Children, v.ctx.Origin(el)); slot != nil {
				n.Slots = append(n.Slots, slot)
			}
		}
		return true
	}

	if len(rest) == 0 && len(node.BlockParams) == 0 {
		return true
	}
	slot := v.slot("default", node.BlockParams, rest, v.ctx.Origin(node))
	if slot == nil {
		return false
	}
	if len(slot.Children) > 0 || len(slot.BlockParams) > 0 {
		n.Slots = append(n.Slots, slot)
	}
	return true
}

// slot visits slot content inside a scope holding its block params
func (v *Visitor) slot(name string, params []string, body []ast.Node, origin ir.Origin) *ir.Slot {
	if dup, ok := duplicateName(params); ok {
		v.ctx.WarnSpan(origin.SourceSpan, "duplicate block param %q in slot %q; slot skipped", dup, name)
		return nil
	}
	v.ctx.Scope.EnterScope("slot:" + name)
	for _, p := range params {
		v.ctx.Scope.AddBinding(p, scope.NewBindingInfo(scope.BindingBlockParam, p, origin.SourceSpan))
	}
	children := v.children(body)
	v.exitScope()
	return &ir.Slot{
		Origin:         origin,
		Name:           name,
		BlockParams:    params,
		Children:       children,
		HasStableChild: ir.HasStableChild(children),
	}
}

func (v *Visitor) exitScope() {
	if err := v.ctx.Scope.ExitScope(); err != nil {
		v.ctx.WarnSpan(nil, "%s", err)
	}
}
