package hbs_parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/hbs_parser"
)

func parse(t *testing.T, source string) []ast.Node {
	t.Helper()
	res := hbs_parser.Parse(source, "test.hbs")
	for _, e := range res.Errors {
		t.Errorf("unexpected error: %s", e.Msg)
	}
	return res.Template.Body
}

// kinds renders the node kinds of a body, recursing into elements and blocks
func kinds(nodes []ast.Node) []string {
	out := []string{}
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.ElementNode:
			out = append(out, "<"+v.Tag+">")
			out = append(out, kinds(v.Children)...)
			out = append(out, "</"+v.Tag+">")
		case *ast.BlockStatement:
			out = append(out, "#"+v.CalleeName())
			out = append(out, kinds(v.Program.Body)...)
			if v.Inverse != nil {
				out = append(out, "else")
				out = append(out, kinds(v.Inverse.Body)...)
			}
			out = append(out, "/"+v.CalleeName())
		default:
			out = append(out, n.Kind())
		}
	}
	return out
}

func TestParse(t *testing.T) {
	t.Run("should parse nested content", func(t *testing.T) {
		tests := []struct {
			name   string
			source string
			want   []string
		}{
			{"text", "hello", []string{"TextNode"}},
			{"element", "<div>hi</div>", []string{"<div>", "TextNode", "</div>"}},
			{"void element", "<input><br/>", []string{"<input>", "</input>", "<br>", "</br>"}},
			{"mustache", "{{foo}}", []string{"MustacheStatement"}},
			{"comments", "{{! a }}{{!-- b --}}<!-- c -->", []string{"MustacheCommentStatement", "MustacheCommentStatement", "CommentStatement"}},
			{"block", "{{#if a}}<p></p>{{else}}x{{/if}}", []string{"#if", "<p>", "</p>", "else", "TextNode", "/if"}},
			{"else if chain", "{{#if a}}1{{else if b}}2{{else}}3{{/if}}",
				[]string{"#if", "TextNode", "else", "#if", "TextNode", "else", "TextNode", "/if", "/if"}},
			{"named blocks", "<Card><:title>t</:title></Card>", []string{"<Card>", "<:title>", "TextNode", "</:title>", "</Card>"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if diff := cmp.Diff(tt.want, kinds(parse(t, tt.source))); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			})
		}
	})

	t.Run("should parse calls", func(t *testing.T) {
		body := parse(t, `{{format this.date "short" 1 true null undefined (upper @name) key=value}}`)
		m := body[0].(*ast.MustacheStatement)
		if m.CalleeName() != "format" {
			t.Errorf("callee = %q", m.CalleeName())
		}
		got := []string{}
		for _, p := range m.Params {
			got = append(got, p.Kind())
		}
		want := []string{"PathExpression", "StringLiteral", "NumberLiteral", "BooleanLiteral", "NullLiteral", "UndefinedLiteral", "SubExpression"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("params mismatch (-want +got):\n%s", diff)
		}
		if pair := m.Hash.Get("key"); pair == nil || pair.Value.(*ast.PathExpression).Original != "value" {
			t.Errorf("hash pair = %+v", pair)
		}
	})

	t.Run("should parse attributes and modifiers", func(t *testing.T) {
		body := parse(t, `<button type="button" class="a {{b}}" disabled={{this.off}} ...attributes {{on "click" this.go}}></button>`)
		el := body[0].(*ast.ElementNode)
		got := []string{}
		for _, a := range el.Attributes {
			kind := "none"
			if a.Value != nil {
				kind = a.Value.Kind()
			}
			got = append(got, a.Name+":"+kind)
		}
		want := []string{"type:TextNode", "class:ConcatStatement", "disabled:MustacheStatement", "...attributes:none"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("attributes mismatch (-want +got):\n%s", diff)
		}
		if len(el.Modifiers) != 1 || el.Modifiers[0].CalleeName() != "on" {
			t.Errorf("modifiers = %+v", el.Modifiers)
		}
	})

	t.Run("should read block params", func(t *testing.T) {
		body := parse(t, `{{#each this.list as |item i|}}{{item}}{{/each}}<List as |row|>{{row}}</List>`)
		block := body[0].(*ast.BlockStatement)
		if diff := cmp.Diff([]string{"item", "i"}, block.Program.BlockParams); diff != "" {
			t.Errorf("block params mismatch (-want +got):\n%s", diff)
		}
		el := body[1].(*ast.ElementNode)
		if diff := cmp.Diff([]string{"row"}, el.BlockParams); diff != "" {
			t.Errorf("element block params mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should honor whitespace control", func(t *testing.T) {
		body := parse(t, "a  {{~foo~}}  b")
		first := body[0].(*ast.TextNode)
		last := body[2].(*ast.TextNode)
		if first.Chars != "a" || last.Chars != "b" {
			t.Errorf("got %q and %q", first.Chars, last.Chars)
		}
	})

	t.Run("should keep escaped mustaches as text", func(t *testing.T) {
		body := parse(t, `\{{foo}}`)
		if text, ok := body[0].(*ast.TextNode); !ok || text.Chars != "{{foo}}" {
			t.Errorf("got %#v", body[0])
		}
	})

	t.Run("should record locations", func(t *testing.T) {
		source := "<p>{{this.name}}</p>"
		body := parse(t, source)
		m := body[0].(*ast.ElementNode).Children[0].(*ast.MustacheStatement)
		loc := m.Path.Location()
		if got := source[loc.Start:loc.End]; got != "this.name" {
			t.Errorf("path covers %q", got)
		}
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"unclosed element", "<div>", `Unclosed element "div"`},
		{"mismatched tag", "<div></span>", "Closing tag </span> did not match last open tag <div>"},
		{"stray closing tag", "</p>", `Unexpected closing tag "p"`},
		{"unclosed block", "{{#if a}}x", `Unclosed block "if"`},
		{"mismatched block", "{{#if a}}{{/each}}", "each doesn't match if"},
		{"stray else", "{{else}}", "Unexpected {{else}} outside of a block"},
		{"unterminated mustache", "{{foo", `Expected "}}" to close the mustache`},
		{"unterminated comment", "<!-- x", "Unterminated comment"},
		{"unterminated string", `{{foo "bar}}`, "Unterminated string literal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := hbs_parser.Parse(tt.source, "test.hbs")
			if res.Template == nil {
				t.Fatal("template should never be nil")
			}
			found := false
			for _, e := range res.Errors {
				if strings.Contains(e.Msg, tt.want) {
					found = true
				}
				if e.Span == nil {
					t.Errorf("error %q has no span", e.Msg)
				}
			}
			if !found {
				t.Errorf("expected %q among %d errors", tt.want, len(res.Errors))
			}
		})
	}
}
