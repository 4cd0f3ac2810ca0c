package ingest

import (
	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/runtime"
	"gxt-go/packages/compiler/src/util"
)

// Visitor turns AST nodes into IR. Visit returns a SerializedValue,
// *ir.Text, *ir.HBSNode, *ir.HBSControlExpression, []ir.Child or nil.
type Visitor struct {
	ctx *Context
}

// NewVisitor creates a Visitor bound to ctx
func NewVisitor(ctx *Context) *Visitor {
	return &Visitor{ctx: ctx}
}

// Build visits a whole template and returns its root children
func Build(ctx *Context, template *ast.Template) []ir.Child {
	if template == nil {
		return []ir.Child{}
	}
	children, _ := NewVisitor(ctx).Visit(template).([]ir.Child)
	if children == nil {
		children = []ir.Child{}
	}
	return children
}

// Visit dispatches on the node kind. A node reached a second time yields the
// result of its first visit.
func (v *Visitor) Visit(node ast.Node) interface{} {
	if node == nil {
		return nil
	}
	if result, ok := v.ctx.seen[node]; ok {
		return result
	}
	v.ctx.seen[node] = nil
	result := node.Visit(v, nil)
	v.ctx.seen[node] = result
	return result
}

// children visits a list of nodes in child position. Whitespace-only text
// and nodes that were already emitted elsewhere are dropped.
func (v *Visitor) children(nodes []ast.Node) []ir.Child {
	out := []ir.Child{}
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if _, seen := v.ctx.seen[node]; seen {
			v.ctx.duplicates++
			continue
		}
		switch r := v.Visit(node).(type) {
		case nil:
		case []ir.Child:
			out = append(out, r...)
		case ir.Child:
			out = append(out, r)
		}
	}
	return out
}

// value visits a node in argument position
func (v *Visitor) value(node ast.Node) ir.SerializedValue {
	if node == nil {
		return ir.NewUndefined(ir.Origin{})
	}
	switch r := v.Visit(node).(type) {
	case ir.SerializedValue:
		return r
	case *ir.Text:
		return ir.NewLiteral(r.Value, r.Origin)
	}
	v.ctx.Warn(node.Location(), "%s cannot be used as a value", node.Kind())
	return ir.NewUndefined(v.ctx.Origin(node))
}

func (v *Visitor) values(nodes []ast.Expression) []ir.SerializedValue {
	out := make([]ir.SerializedValue, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, v.value(node))
	}
	return out
}

func (v *Visitor) named(hash *ast.Hash) []ir.NamedArg {
	out := []ir.NamedArg{}
	if hash == nil {
		return out
	}
	for _, pair := range hash.Pairs {
		out = append(out, ir.NamedArg{Key: pair.Key, Value: v.value(pair.Value)})
	}
	return out
}

// VisitTemplate implements ast.Visitor
func (v *Visitor) VisitTemplate(node *ast.Template, context interface{}) interface{} {
	return v.children(node.Body)
}

// VisitText implements ast.Visitor
func (v *Visitor) VisitText(node *ast.TextNode, context interface{}) interface{} {
	if util.IsWhitespaceOnly(node.Chars) {
		return nil
	}
	return ir.NewText(node.Chars, v.ctx.Origin(node))
}

// VisitMustache implements ast.Visitor
func (v *Visitor) VisitMustache(node *ast.MustacheStatement, context interface{}) interface{} {
	switch callee := node.Path.(type) {
	case *ast.Literal:
		if node.HasArguments() {
			v.ctx.Error(node.Loc, "a literal cannot be invoked with arguments")
		}
		return v.literal(callee, v.ctx.Origin(node))
	case *ast.PathExpression:
		name := callee.Original
		if name == "yield" {
			return v.visitYield(node)
		}
		if node.HasArguments() || runtime.IsBuiltinHelper(name) || isRedirection(name) {
			return v.call(&node.Call, node.Loc, v.ctx.Origin(node))
		}
		path := v.resolvePath(callee)
		if path.Binding != nil && path.Binding.Kind == helperKind {
			return v.call(&node.Call, node.Loc, v.ctx.Origin(node))
		}
		return path
	case *ast.SubExpression:
		return v.value(callee)
	}
	v.ctx.Warn(node.Loc, "unsupported mustache callee %s", node.Path.Kind())
	return nil
}

// VisitSubExpression implements ast.Visitor
func (v *Visitor) VisitSubExpression(node *ast.SubExpression, context interface{}) interface{} {
	return v.call(&node.Call, node.Loc, v.ctx.Origin(node))
}

// VisitPath implements ast.Visitor
func (v *Visitor) VisitPath(node *ast.PathExpression, context interface{}) interface{} {
	if isRedirection(node.Original) {
		return v.call(&ast.Call{Path: node}, node.Loc, v.ctx.Origin(node))
	}
	return v.resolvePath(node)
}

// VisitLiteral implements ast.Visitor
func (v *Visitor) VisitLiteral(node *ast.Literal, context interface{}) interface{} {
	return v.literal(node, v.ctx.Origin(node))
}

func (v *Visitor) literal(node *ast.Literal, origin ir.Origin) *ir.Literal {
	if node.LiteralKind == ast.LiteralUndefined {
		return ir.NewUndefined(origin)
	}
	return ir.NewLiteral(node.Value, origin)
}

// VisitConcat implements ast.Visitor
func (v *Visitor) VisitConcat(node *ast.ConcatStatement, context interface{}) interface{} {
	parts := make([]ir.SerializedValue, 0, len(node.Parts))
	for _, part := range node.Parts {
		if text, ok := part.(*ast.TextNode); ok {
			if text.Chars != "" {
				parts = append(parts, ir.NewLiteral(text.Chars, v.ctx.Origin(text)))
			}
			continue
		}
		parts = append(parts, v.value(part))
	}
	return ir.NewConcat(parts, v.ctx.Origin(node))
}

// VisitHashPair implements ast.Visitor
func (v *Visitor) VisitHashPair(node *ast.HashPair, context interface{}) interface{} {
	return v.value(node.Value)
}

// VisitAttr implements ast.Visitor
func (v *Visitor) VisitAttr(node *ast.AttrNode, context interface{}) interface{} {
	return v.attrValue(node)
}

// VisitElementModifier implements ast.Visitor
func (v *Visitor) VisitElementModifier(node *ast.ElementModifierStatement, context interface{}) interface{} {
	v.ctx.Warn(node.Loc, "modifier %q outside of an element is ignored", node.CalleeName())
	return nil
}

// VisitComment implements ast.Visitor
func (v *Visitor) VisitComment(node *ast.CommentStatement, context interface{}) interface{} {
	return nil
}

// VisitUnknown implements ast.Visitor
func (v *Visitor) VisitUnknown(node *ast.UnknownNode, context interface{}) interface{} {
	v.ctx.Warn(node.Loc, "unsupported node type %q skipped", node.Type)
	return nil
}
