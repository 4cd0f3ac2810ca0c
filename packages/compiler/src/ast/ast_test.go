package ast_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gxt-go/packages/compiler/src/ast"
)

func TestPathExpression(t *testing.T) {
	tests := []struct {
		original string
		kind     ast.PathHead
		head     string
		tail     []string
	}{
		{"foo", ast.PathHeadVar, "foo", []string{}},
		{"foo.bar.baz", ast.PathHeadVar, "foo", []string{"bar", "baz"}},
		{"this", ast.PathHeadThis, "", nil},
		{"this.foo.bar", ast.PathHeadThis, "foo", []string{"bar"}},
		{"@arg", ast.PathHeadArg, "arg", []string{}},
		{"@arg.x", ast.PathHeadArg, "arg", []string{"x"}},
		{"thisIsVar", ast.PathHeadVar, "thisIsVar", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.original, func(t *testing.T) {
			p := ast.NewPathExpression(tt.original, ast.Loc{})
			got := []interface{}{p.HeadKind, p.Head, p.Tail}
			want := []interface{}{tt.kind, tt.head, tt.tail}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHash(t *testing.T) {
	t.Run("should be nil safe", func(t *testing.T) {
		var h *ast.Hash
		if h.Len() != 0 || h.Get("key") != nil {
			t.Error("nil hash should be empty")
		}
	})

	t.Run("should find pairs by key", func(t *testing.T) {
		value := ast.NewStringLiteral("id", ast.Loc{})
		h := ast.NewHash([]*ast.HashPair{ast.NewHashPair("key", value, ast.Loc{})}, ast.Loc{})
		if pair := h.Get("key"); pair == nil || pair.Value != value {
			t.Errorf("Get(key) = %+v", pair)
		}
		if h.Get("missing") != nil {
			t.Error("unexpected pair")
		}
	})

	t.Run("should report arguments of a call", func(t *testing.T) {
		c := ast.Call{Path: ast.NewPathExpression("foo", ast.Loc{})}
		if c.HasArguments() {
			t.Error("call without params or hash")
		}
		if c.CalleeName() != "foo" {
			t.Errorf("CalleeName() = %q", c.CalleeName())
		}
	})
}

func TestFromJSON(t *testing.T) {
	source := "<p>{{this.name}}</p>"
	doc := `{
		"type": "Template",
		"body": [{
			"type": "ElementNode",
			"tag": "p",
			"loc": {"start": {"line": 1, "column": 0}, "end": {"line": 1, "column": 20}},
			"attributes": [],
			"modifiers": [],
			"children": [{
				"type": "MustacheStatement",
				"loc": {"start": {"line": 1, "column": 3}, "end": {"line": 1, "column": 16}},
				"path": {
					"type": "PathExpression",
					"head": {"type": "ThisHead"},
					"tail": ["name"],
					"loc": {"start": {"line": 1, "column": 5}, "end": {"line": 1, "column": 14}}
				},
				"params": [],
				"hash": {"type": "Hash", "pairs": []},
				"escaped": true
			}, {
				"type": "Glimmerish",
				"range": [0, 1]
			}]
		}]
	}`

	tpl, err := ast.FromJSON([]byte(doc), source)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("should decode elements and locations", func(t *testing.T) {
		el, ok := tpl.Body[0].(*ast.ElementNode)
		if !ok {
			t.Fatalf("expected an element, got %T", tpl.Body[0])
		}
		if el.Tag != "p" || el.Location() != (ast.Loc{Start: 0, End: 20}) {
			t.Errorf("element = %s %+v", el.Tag, el.Location())
		}
		if len(el.Children) != 2 {
			t.Fatalf("expected 2 children, got %d", len(el.Children))
		}
	})

	t.Run("should rebuild paths from their head", func(t *testing.T) {
		el := tpl.Body[0].(*ast.ElementNode)
		m := el.Children[0].(*ast.MustacheStatement)
		path := m.Path.(*ast.PathExpression)
		if path.Original != "this.name" || path.HeadKind != ast.PathHeadThis {
			t.Errorf("path = %+v", path)
		}
		if got := source[path.Location().Start:path.Location().End]; got != "this.name" {
			t.Errorf("path location covers %q", got)
		}
		if m.Trusting {
			t.Error("escaped mustache decoded as trusting")
		}
	})

	t.Run("should keep unknown nodes", func(t *testing.T) {
		el := tpl.Body[0].(*ast.ElementNode)
		u, ok := el.Children[1].(*ast.UnknownNode)
		if !ok || u.Type != "Glimmerish" {
			t.Errorf("expected an unknown node, got %#v", el.Children[1])
		}
	})

	t.Run("should reject other documents", func(t *testing.T) {
		for _, input := range []string{`{"type": "Block"}`, `not json`} {
			if _, err := ast.FromJSON([]byte(input), ""); err == nil {
				t.Errorf("FromJSON(%q) should fail", input)
			}
		}
	})
}
