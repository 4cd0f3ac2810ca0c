package compiler_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	compiler "gxt-go/packages/compiler/src"
	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/config"
	"gxt-go/packages/compiler/src/hints"
	"gxt-go/packages/compiler/src/output"
	"gxt-go/packages/compiler/src/util"
)

func messages(errs []*util.ParseError) []string {
	out := []string{}
	for _, e := range errs {
		out = append(out, e.Msg)
	}
	return out
}

func hasMessage(errs []*util.ParseError, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Msg, substr) {
			return true
		}
	}
	return false
}

func TestCompile(t *testing.T) {
	t.Run("should produce the template function", func(t *testing.T) {
		res := compiler.Compile(`<div class="{{a}} b {{c d}}"></div>`, &compiler.Options{Bindings: []string{"c"}})
		if err := res.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "$_tag('div', [[], [['class', () => [a, ' b ', c(() => d)].join('')]], []], [], this)"
		if !strings.Contains(res.Code, want) {
			t.Errorf("code does not contain %q:\n%s", want, res.Code)
		}
		if !strings.HasPrefix(res.Code, "function () {") {
			t.Errorf("code should start with the function header:\n%s", res.Code)
		}
		if diff := cmp.Diff([]string{"c"}, res.Bindings); diff != "" {
			t.Errorf("bindings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should be idempotent", func(t *testing.T) {
		source := `{{#each this.items key="id" as |item|}}<li>{{item.name}}</li>{{else}}none{{/each}}`
		first := compiler.Compile(source, nil)
		second := compiler.Compile(source, nil)
		if diff := cmp.Diff(first.Code, second.Code); diff != "" {
			t.Errorf("code differs between runs (-first +second):\n%s", diff)
		}
		if diff := cmp.Diff(first.SourceMap, second.SourceMap); diff != "" {
			t.Errorf("source map differs between runs (-first +second):\n%s", diff)
		}
	})

	t.Run("should restart context names for every compile", func(t *testing.T) {
		source := `{{#if this.x}}{{this.y}}{{/if}}`
		opts := &compiler.Options{Flags: config.NewFlags(config.WithCompatMode(false))}
		a := compiler.Compile(source, opts).Code
		b := compiler.Compile(source, opts).Code
		if a != b {
			t.Errorf("expected identical output, got\n%s\n%s", a, b)
		}
		if !strings.Contains(a, "ctx0") {
			t.Errorf("expected the first context to be ctx0:\n%s", a)
		}
	})

	t.Run("should resolve paths", func(t *testing.T) {
		tests := []struct {
			name   string
			source string
			want   string
		}{
			{"argument", "{{@foo.bar.baz}}", "this[$args].foo?.bar?.baz"},
			{"this", "{{this.foo.bar}}", "this.foo?.bar"},
			{"global", "{{foo.bar}}", "foo.bar"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				res := compiler.Compile(tt.source, &compiler.Options{Flags: config.NewFlags(config.WithCompatMode(false))})
				if !strings.Contains(res.Code, tt.want) {
					t.Errorf("code does not contain %q:\n%s", tt.want, res.Code)
				}
			})
		}
	})

	t.Run("should keep unstable branches behind the wrapper", func(t *testing.T) {
		res := compiler.Compile(`{{#if this.x}}{{this.y}}{{/if}}`, &compiler.Options{Flags: config.NewFlags(config.WithCompatMode(false))})
		if !strings.Contains(res.Code, "$_ucw(") {
			t.Errorf("expected $_ucw in\n%s", res.Code)
		}
		res = compiler.Compile(`{{#if this.x}}<p></p>{{/if}}`, &compiler.Options{Flags: config.NewFlags(config.WithCompatMode(false))})
		if strings.Contains(res.Code, "$_ucw(") {
			t.Errorf("stable branch should not be wrapped:\n%s", res.Code)
		}
	})

	t.Run("should fall back to identity for @index keys", func(t *testing.T) {
		res := compiler.Compile(`{{#each this.items key="@index" as |item|}}{{item}}{{/each}}`, nil)
		if err := res.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !hasMessage(res.Warnings, "@index") {
			t.Errorf("expected a warning about @index, got %v", messages(res.Warnings))
		}
		if !strings.Contains(res.Code, "($item) => $item,") {
			t.Errorf("expected the identity key in\n%s", res.Code)
		}
	})

	t.Run("should balance scopes", func(t *testing.T) {
		source := `{{#each this.a as |x|}}{{#let x as |y|}}{{#each y as |z|}}{{z}}{{/each}}{{/let}}{{/each}}`
		res := compiler.Compile(source, nil)
		if err := res.Err(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if hasMessage(res.Warnings, "left open") {
			t.Errorf("unexpected scope warning: %v", messages(res.Warnings))
		}
	})
}

func TestNestedLet(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		bindings []string
	}{
		{"let in let", `{{#let this.a as |a|}}{{#let a as |b|}}{{b}}{{/let}}{{/let}}`, nil},
		{"let in a slot of a let", `{{#let 1 as |a|}}<Foo as |y|>{{#let y as |b|}}{{b}}{{/let}}</Foo>{{/let}}`, []string{"Foo"}},
		{"let in each in let", `{{#let this.a as |a|}}{{#each a as |x|}}{{#let x as |b|}}{{b}}{{/let}}{{/each}}{{/let}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compiler.Compile(tt.source, &compiler.Options{Bindings: tt.bindings})
			if err := res.Err(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Contains(res.Code, "let self = self;") {
				t.Errorf("alias declared from itself:\n%s", res.Code)
			}
			if n := strings.Count(res.Code, "let self = this;"); n != 1 {
				t.Errorf("alias declared %d times:\n%s", n, res.Code)
			}
		})
	}

	t.Run("should keep sibling lets independent", func(t *testing.T) {
		res := compiler.Compile(`{{#let 1 as |a|}}{{a}}{{/let}}{{#let 2 as |b|}}{{b}}{{/let}}`, nil)
		if n := strings.Count(res.Code, "let self = this;"); n != 2 {
			t.Errorf("alias declared %d times:\n%s", n, res.Code)
		}
	})
}

func TestSharedNodes(t *testing.T) {
	template := "<p>{{this.title}}</p>"
	title := ast.NewMustacheStatement(ast.NewPathExpression("this.title", ast.Loc{Start: 5, End: 15}), nil, nil, ast.Loc{Start: 3, End: 17})
	first := ast.NewElementNode("p", ast.Loc{Start: 0, End: 21})
	first.Children = []ast.Node{title}
	second := ast.NewElementNode("p", ast.Loc{Start: 0, End: 21})
	second.Children = []ast.Node{title}

	res := compiler.CompileAST(ast.NewTemplate([]ast.Node{first, second}, ast.Loc{Start: 0, End: 21}), template, nil)
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := strings.Count(res.Code, "this.title"); n != 1 {
		t.Errorf("shared node emitted %d times:\n%s", n, res.Code)
	}
	if n := strings.Count(res.Code, "$_tag('p'"); n != 2 {
		t.Errorf("expected both elements, got %d:\n%s", n, res.Code)
	}
}

func TestUnknownNodes(t *testing.T) {
	template := "<b></b>"
	tpl := ast.NewTemplate([]ast.Node{
		ast.NewUnknownNode("Weird", ast.Loc{Start: 0, End: 7}),
	}, ast.Loc{Start: 0, End: 7})
	res := compiler.CompileAST(tpl, template, nil)
	if err := res.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{`unsupported node type "Weird" skipped`}, messages(res.Warnings)); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(res.Code, "const roots = [];") {
		t.Errorf("expected no roots:\n%s", res.Code)
	}
}

func TestConcurrentCompiles(t *testing.T) {
	source := `{{#let this.a as |a|}}<ul>{{#each this.items key="id" as |item|}}<li class="x {{item.kind}}">{{a}}</li>{{/each}}</ul>{{/let}}`
	opts := &compiler.Options{FileName: "list.hbs", Bindings: []string{"Card"}}
	want := compiler.Compile(source, opts)
	wantMap, err := want.SourceMap.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	const workers = 8
	codes := make([]string, workers)
	maps := make([][]byte, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res := compiler.Compile(source, opts)
			codes[i] = res.Code
			maps[i], _ = res.SourceMap.Marshal()
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if diff := cmp.Diff(want.Code, codes[i]); diff != "" {
			t.Errorf("worker %d code differs (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(string(wantMap), string(maps[i])); diff != "" {
			t.Errorf("worker %d source map differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestDiagnostics(t *testing.T) {
	t.Run("should suggest a known block", func(t *testing.T) {
		res := compiler.Compile(`{{#eahc this.items}}x{{/eahc}}`, nil)
		if !hasMessage(res.Errors, "did you mean {{#each}}") {
			t.Errorf("expected a suggestion, got %v", messages(res.Errors))
		}
		if res.Code == "" {
			t.Error("code should still be produced")
		}
	})

	t.Run("should aggregate errors", func(t *testing.T) {
		res := compiler.Compile(`{{#foo}}{{/foo}}{{#bar}}{{/bar}}`, nil)
		if len(res.Errors) != 2 {
			t.Fatalf("expected 2 errors, got %v", messages(res.Errors))
		}
		err := res.Err()
		if err == nil || !strings.Contains(err.Error(), "(and 1 more errors)") {
			t.Fatalf("unexpected aggregate error: %v", err)
		}
		var first *util.ParseError
		if !errors.As(err, &first) || first != res.Errors[0] {
			t.Error("aggregate should wrap the first error")
		}
	})

	t.Run("should report no error for a clean template", func(t *testing.T) {
		if err := compiler.Compile(`<p>hi</p>`, nil).Err(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("should fall back to an empty template on internal failure", func(t *testing.T) {
		tpl := ast.NewTemplate([]ast.Node{(*ast.TextNode)(nil)}, ast.Loc{})
		res := compiler.CompileAST(tpl, "", nil)
		if !hasMessage(res.Errors, "internal compiler error") {
			t.Fatalf("expected an internal error, got %v", messages(res.Errors))
		}
		if !strings.Contains(res.Code, "const roots = [];") {
			t.Errorf("expected an empty template function:\n%s", res.Code)
		}
		if res.Bindings == nil || res.Warnings == nil {
			t.Error("fallback result should have non-nil slices")
		}
	})
}

func TestTypeHints(t *testing.T) {
	provider := func(source, identifier string) *hints.TypeHints {
		th := hints.NewTypeHints()
		th.Properties["title"] = &hints.Hint{Kind: hints.Primitive, IsReadonly: true}
		th.Args["count"] = &hints.Hint{Kind: hints.Primitive, HasLiteral: true, LiteralValue: 3.0}
		return th
	}
	tests := []struct {
		name  string
		flags *config.Flags
		want  []string
	}{
		{
			name:  "optimized",
			flags: config.NewFlags(config.WithTypeOptimization(true)),
			want:  []string{"[this.title, 3]"},
		},
		{
			name:  "not optimized",
			flags: config.NewFlags(),
			want:  []string{"() => this.title", "() => this[$args].count"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compiler.Compile(`{{this.title}}{{@count}}`, &compiler.Options{Flags: tt.flags, TypeHints: provider, Identifier: "Card"})
			for _, want := range tt.want {
				if !strings.Contains(res.Code, want) {
					t.Errorf("code does not contain %q:\n%s", want, res.Code)
				}
			}
		})
	}

	t.Run("should consult the cache once per source", func(t *testing.T) {
		calls := 0
		cache := hints.NewCache(4)
		wrapped := cache.Wrap("card.gts", func(source, identifier string) *hints.TypeHints {
			calls++
			return provider(source, identifier)
		})
		opts := &compiler.Options{Flags: config.NewFlags(config.WithTypeOptimization(true)), TypeHints: wrapped}
		compiler.Compile(`{{this.title}}`, opts)
		compiler.Compile(`{{this.title}}`, opts)
		if calls != 1 {
			t.Errorf("expected 1 provider call, got %d", calls)
		}
	})
}

func TestSourceMap(t *testing.T) {
	t.Run("should decode to the collected mappings", func(t *testing.T) {
		res := compiler.Compile("<div>\n  {{this.name}}\n  <span title={{@title}}></span>\n</div>", &compiler.Options{FileName: "card.hbs"})
		if res.SourceMap == nil {
			t.Fatal("expected a source map")
		}
		collected := output.CollectMappings(res.MappingTree, res.Code)
		decoded, err := output.DecodeMappings(res.SourceMap.Mappings)
		if err != nil {
			t.Fatal(err)
		}
		if len(collected) == 0 {
			t.Fatal("expected mappings")
		}
		if len(decoded) != len(collected) {
			t.Fatalf("decoded %d segments, collected %d", len(decoded), len(collected))
		}
		for i, m := range collected {
			d := decoded[i]
			got := []int{d.GeneratedLine, d.GeneratedColumn, d.SourceLine, d.SourceColumn}
			want := []int{m.GeneratedLine, m.GeneratedColumn, m.SourceLine, m.SourceColumn}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("segment %d mismatch (-want +got):\n%s", i, diff)
			}
			if m.Name != "" && (d.NameIndex < 0 || res.SourceMap.Names[d.NameIndex] != m.Name) {
				t.Errorf("segment %d: expected name %q", i, m.Name)
			}
		}
		if err := res.MappingTree.Validate(); err != nil {
			t.Errorf("invalid mapping tree: %v", err)
		}
	})

	t.Run("should describe the files", func(t *testing.T) {
		template := "{{this.name}}"
		res := compiler.Compile(template, &compiler.Options{FileName: "src/card.hbs"})
		data, err := res.SourceMap.Marshal()
		if err != nil {
			t.Fatal(err)
		}
		doc := gjson.ParseBytes(data)
		if v := doc.Get("version").Int(); v != 3 {
			t.Errorf("version = %d", v)
		}
		if f := doc.Get("file").String(); f != "card.js" {
			t.Errorf("file = %q", f)
		}
		if s := doc.Get("sources.0").String(); s != "card.hbs" {
			t.Errorf("sources[0] = %q", s)
		}
		if c := doc.Get("sourcesContent.0").String(); c != template {
			t.Errorf("sourcesContent[0] = %q", c)
		}
	})

	t.Run("should point into the host file", func(t *testing.T) {
		template := "{{this.name}}"
		source := "const x = 1;\n<template>" + template + "</template>\n"
		res := compiler.Compile(template, &compiler.Options{
			FileName:       "card.gts",
			Source:         source,
			TemplateOffset: strings.Index(source, template),
		})
		if len(res.Warnings) != 0 {
			t.Fatalf("unexpected warnings: %v", messages(res.Warnings))
		}
		if got := *res.SourceMap.SourcesContent[0]; got != source {
			t.Errorf("sourcesContent should hold the host file, got %q", got)
		}
		decoded, err := output.DecodeMappings(res.SourceMap.Mappings)
		if err != nil {
			t.Fatal(err)
		}
		found := false
		for _, d := range decoded {
			if d.SourceLine == 1 && d.SourceColumn >= len("<template>") {
				found = true
			}
		}
		if !found {
			t.Errorf("no mapping points into the second line: %+v", decoded)
		}
	})

	t.Run("should ignore a mismatched host file", func(t *testing.T) {
		res := compiler.Compile("{{this.name}}", &compiler.Options{Source: "nothing here", TemplateOffset: 3})
		if !hasMessage(res.Warnings, "template not found") {
			t.Errorf("expected a warning, got %v", messages(res.Warnings))
		}
		if got := *res.SourceMap.SourcesContent[0]; got != "{{this.name}}" {
			t.Errorf("sourcesContent = %q", got)
		}
	})

	t.Run("should skip the map when disabled", func(t *testing.T) {
		res := compiler.Compile("{{this.name}}", &compiler.Options{Flags: config.NewFlags(config.WithSourceMap(false))})
		if res.SourceMap != nil {
			t.Error("expected no source map")
		}
		if res.MappingTree == nil {
			t.Error("the mapping tree is always built")
		}
	})
}
