package ast

import (
	"fmt"

	"github.com/tidwall/gjson"

	"gxt-go/packages/compiler/src/util"
)

// FromJSON decodes a template tree serialized by the JavaScript Glimmer
// parser. source is the template text the tree was parsed from; it is used to
// turn `loc` line/column pairs into byte offsets. Node types the decoder does
// not know become *UnknownNode so the compiler can skip them with a warning.
func FromJSON(data []byte, source string) (*Template, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("template ast: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if t := root.Get("type").String(); t != "Template" {
		return nil, fmt.Errorf("template ast: expected root of type Template, got %q", t)
	}
	d := &jsonDecoder{lines: util.NewLineIndex(source), size: len(source)}
	tpl := NewTemplate(d.nodes(root.Get("body")), d.loc(root))
	tpl.BlockParams = d.blockParams(root)
	return tpl, nil
}

type jsonDecoder struct {
	lines *util.LineIndex
	size  int
}

func (d *jsonDecoder) loc(v gjson.Result) Loc {
	if r := v.Get("range"); r.IsArray() && len(r.Array()) == 2 {
		return d.clamp(int(r.Array()[0].Int()), int(r.Array()[1].Int()))
	}
	loc := v.Get("loc")
	if !loc.Exists() {
		return Synthetic
	}
	start, end := loc.Get("start"), loc.Get("end")
	if !start.Exists() || !end.Exists() {
		return Synthetic
	}
	return d.clamp(
		d.lines.Offset(int(start.Get("line").Int())-1, int(start.Get("column").Int())),
		d.lines.Offset(int(end.Get("line").Int())-1, int(end.Get("column").Int())),
	)
}

func (d *jsonDecoder) clamp(start, end int) Loc {
	if start < 0 || end < start || end > d.size {
		return Synthetic
	}
	return Loc{Start: start, End: end}
}

func (d *jsonDecoder) nodes(list gjson.Result) []Node {
	var out []Node
	list.ForEach(func(_, v gjson.Result) bool {
		if n := d.node(v); n != nil {
			out = append(out, n)
		}
		return true
	})
	return out
}

func (d *jsonDecoder) strings(list gjson.Result) []string {
	var out []string
	list.ForEach(func(_, v gjson.Result) bool {
		if v.IsObject() {
			out = append(out, v.Get("name").String())
		} else {
			out = append(out, v.String())
		}
		return true
	})
	return out
}

// blockParams supports both the `blockParams: ["x"]` and the newer
// `params: [{type: "VarHead", name: "x"}]` spellings.
func (d *jsonDecoder) blockParams(v gjson.Result) []string {
	if bp := v.Get("blockParams"); bp.IsArray() {
		return d.strings(bp)
	}
	if v.Get("type").String() == "ElementNode" || v.Get("type").String() == "Block" {
		if ps := v.Get("params"); ps.IsArray() {
			return d.strings(ps)
		}
	}
	return nil
}

func (d *jsonDecoder) hash(v gjson.Result) *Hash {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	var pairs []*HashPair
	v.Get("pairs").ForEach(func(_, p gjson.Result) bool {
		pairs = append(pairs, NewHashPair(p.Get("key").String(), d.node(p.Get("value")), d.loc(p)))
		return true
	})
	return NewHash(pairs, d.loc(v))
}

func (d *jsonDecoder) block(v gjson.Result) *Block {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	b := NewBlock(d.nodes(v.Get("body")), d.blockParams(v), d.loc(v))
	b.Chained = v.Get("chained").Bool()
	return b
}

func (d *jsonDecoder) node(v gjson.Result) Node {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	loc := d.loc(v)
	switch typ := v.Get("type").String(); typ {
	case "TextNode":
		return NewTextNode(v.Get("chars").String(), loc)
	case "ElementNode":
		el := NewElementNode(v.Get("tag").String(), loc)
		el.SelfClosing = v.Get("selfClosing").Bool()
		el.BlockParams = d.blockParams(v)
		v.Get("attributes").ForEach(func(_, a gjson.Result) bool {
			el.Attributes = append(el.Attributes, NewAttrNode(a.Get("name").String(), d.node(a.Get("value")), d.loc(a)))
			return true
		})
		v.Get("modifiers").ForEach(func(_, m gjson.Result) bool {
			el.Modifiers = append(el.Modifiers, NewElementModifierStatement(
				d.node(m.Get("path")), d.nodes(m.Get("params")), d.hash(m.Get("hash")), d.loc(m)))
			return true
		})
		el.Children = d.nodes(v.Get("children"))
		return el
	case "MustacheStatement":
		m := NewMustacheStatement(d.node(v.Get("path")), d.nodes(v.Get("params")), d.hash(v.Get("hash")), loc)
		if t := v.Get("trusting"); t.Exists() {
			m.Trusting = t.Bool()
		} else if e := v.Get("escaped"); e.Exists() {
			m.Trusting = !e.Bool()
		}
		return m
	case "BlockStatement":
		return NewBlockStatement(d.node(v.Get("path")), d.nodes(v.Get("params")), d.hash(v.Get("hash")),
			d.block(v.Get("program")), d.block(v.Get("inverse")), loc)
	case "SubExpression":
		return NewSubExpression(d.node(v.Get("path")), d.nodes(v.Get("params")), d.hash(v.Get("hash")), loc)
	case "ElementModifierStatement":
		return NewElementModifierStatement(d.node(v.Get("path")), d.nodes(v.Get("params")), d.hash(v.Get("hash")), loc)
	case "PathExpression":
		original := v.Get("original").String()
		if original == "" {
			original = d.pathFromHead(v)
		}
		return NewPathExpression(original, loc)
	case "StringLiteral":
		return NewStringLiteral(v.Get("value").String(), loc)
	case "NumberLiteral":
		return NewNumberLiteral(v.Get("value").Float(), loc)
	case "BooleanLiteral":
		return NewBooleanLiteral(v.Get("value").Bool(), loc)
	case "NullLiteral":
		return NewNullLiteral(loc)
	case "UndefinedLiteral":
		return NewUndefinedLiteral(loc)
	case "ConcatStatement":
		return NewConcatStatement(d.nodes(v.Get("parts")), loc)
	case "CommentStatement":
		return NewCommentStatement(v.Get("value").String(), false, loc)
	case "MustacheCommentStatement":
		return NewCommentStatement(v.Get("value").String(), true, loc)
	default:
		return NewUnknownNode(typ, loc)
	}
}

func (d *jsonDecoder) pathFromHead(v gjson.Result) string {
	head := v.Get("head")
	var out string
	switch head.Get("type").String() {
	case "ThisHead":
		out = "this"
	case "AtHead":
		out = head.Get("name").String()
		if len(out) == 0 || out[0] != '@' {
			out = "@" + out
		}
	default:
		out = head.Get("name").String()
	}
	for _, seg := range d.strings(v.Get("tail")) {
		out += "." + seg
	}
	return out
}
