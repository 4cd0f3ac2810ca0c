package output_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tidwall/gjson"

	"gxt-go/packages/compiler/src/output"
	"gxt-go/packages/compiler/src/util"
)

func TestSourceMapGeneration(t *testing.T) {
	t.Run("generation", func(t *testing.T) {
		t.Run("should generate a valid source map", func(t *testing.T) {
			gen := output.NewSourceMapGenerator("out.js")
			gen.AddSource("a.js", nil)
			add := func(col, line, srcCol int) {
				t.Helper()
				if err := gen.AddMapping(col, strPtr("a.js"), intPtr(line), intPtr(srcCol), nil); err != nil {
					t.Fatal(err)
				}
			}
			gen.AddLine()
			add(0, 0, 0)
			add(4, 0, 6)
			add(5, 0, 7)
			add(8, 0, 22)
			add(9, 0, 23)
			add(10, 0, 24)
			gen.AddLine()
			add(0, 1, 0)
			add(4, 1, 6)
			add(5, 1, 7)
			add(8, 1, 10)
			add(9, 1, 11)
			add(10, 1, 12)
			gen.AddLine()
			add(0, 3, 0)
			add(2, 3, 2)
			add(3, 3, 3)
			add(10, 3, 10)
			add(11, 3, 11)
			add(21, 3, 11)
			add(22, 3, 12)
			gen.AddLine()
			add(4, 4, 4)
			add(11, 4, 11)
			add(12, 4, 12)
			add(15, 4, 15)
			add(16, 4, 16)
			add(21, 4, 21)
			add(22, 4, 22)
			add(23, 4, 23)
			gen.AddLine()
			add(0, 5, 0)
			add(1, 5, 1)
			add(2, 5, 2)
			add(3, 5, 2)

			// produced by a TypeScript emit of the same input
			expected := "AAAA,IAAM,CAAC,GAAe,CAAC,CAAC;AACxB,IAAM,CAAC,GAAG,CAAC,CAAC;AAEZ,EAAE,CAAC,OAAO,CAAC,UAAA,CAAC;IACR,OAAO,CAAC,GAAG,CAAC,KAAK,CAAC,CAAC;AACvB,CAAC,CAAC,CAAA"
			if diff := cmp.Diff(expected, gen.ToJSON().Mappings); diff != "" {
				t.Errorf("mappings mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should include the files and their contents", func(t *testing.T) {
			gen := output.NewSourceMapGenerator("out.js")
			gen.AddSource("inline.hbs", strPtr("inline"))
			gen.AddSource("inline.hbs", strPtr("inline"))
			gen.AddSource("url.hbs", nil)
			gen.AddLine()
			if err := gen.AddMapping(0, strPtr("inline.hbs"), intPtr(0), intPtr(0), nil); err != nil {
				t.Fatal(err)
			}

			sm := gen.ToJSON()
			if sm.File != "out.js" {
				t.Errorf("file = %q", sm.File)
			}
			if diff := cmp.Diff([]string{"inline.hbs", "url.hbs"}, sm.Sources); diff != "" {
				t.Errorf("sources mismatch (-want +got):\n%s", diff)
			}
			if len(sm.SourcesContent) != 2 || *sm.SourcesContent[0] != "inline" || sm.SourcesContent[1] != nil {
				t.Errorf("unexpected sourcesContent %v", sm.SourcesContent)
			}
		})

		t.Run("should collect names in first-seen order", func(t *testing.T) {
			gen := output.NewSourceMapGenerator("out.js")
			gen.AddSource("a.hbs", nil)
			gen.AddLine()
			for i, name := range []string{"Button", "title", "Button", "$args"} {
				if err := gen.AddMapping(i*4, strPtr("a.hbs"), intPtr(0), intPtr(i), strPtr(name)); err != nil {
					t.Fatal(err)
				}
			}
			sm := gen.ToJSON()
			if diff := cmp.Diff([]string{"Button", "title", "$args"}, sm.Names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
			segments, err := output.DecodeMappings(sm.Mappings)
			if err != nil {
				t.Fatal(err)
			}
			var nameIndexes []int
			for _, seg := range segments {
				nameIndexes = append(nameIndexes, seg.NameIndex)
			}
			if diff := cmp.Diff([]int{0, 1, 0, 2}, nameIndexes); diff != "" {
				t.Errorf("name indexes mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should marshal the standard fields", func(t *testing.T) {
			gen := output.NewSourceMapGenerator("card.js")
			gen.AddSource("card.gts", strPtr("<div></div>"))
			gen.AddLine()
			if err := gen.AddMapping(0, strPtr("card.gts"), intPtr(0), intPtr(0), strPtr("div")); err != nil {
				t.Fatal(err)
			}
			data, err := gen.ToJSON().Marshal()
			if err != nil {
				t.Fatal(err)
			}
			doc := gjson.ParseBytes(data)
			if doc.Get("version").Int() != 3 {
				t.Errorf("version = %s", doc.Get("version").Raw)
			}
			if doc.Get("file").String() != "card.js" || doc.Get("sources.0").String() != "card.gts" {
				t.Errorf("unexpected file/sources in %s", data)
			}
			if doc.Get("sourcesContent.0").String() != "<div></div>" {
				t.Errorf("sourcesContent = %s", doc.Get("sourcesContent").Raw)
			}
			if doc.Get("names.0").String() != "div" || doc.Get("mappings").String() != "AAAAA" {
				t.Errorf("names/mappings = %s %s", doc.Get("names").Raw, doc.Get("mappings").Raw)
			}
			if doc.Get("sourceRoot").Exists() {
				t.Errorf("empty sourceRoot should be omitted")
			}
		})

		t.Run("should render an inline comment", func(t *testing.T) {
			gen := output.NewSourceMapGenerator("a.js")
			gen.AddSource("a.hbs", nil)
			gen.AddLine()
			if err := gen.AddMapping(0, strPtr("a.hbs"), intPtr(0), intPtr(0), nil); err != nil {
				t.Fatal(err)
			}
			comment, err := gen.ToJSON().ToJsComment()
			if err != nil {
				t.Fatal(err)
			}
			const prefix = "//# sourceMappingURL=data:application/json;base64,"
			if !strings.HasPrefix(comment, prefix) {
				t.Fatalf("unexpected comment %q", comment)
			}
			raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(comment, prefix))
			if err != nil {
				t.Fatal(err)
			}
			parsed, err := output.ParseSourceMap(raw)
			if err != nil {
				t.Fatal(err)
			}
			if parsed.File != "a.js" || parsed.Mappings != "AAAA" {
				t.Errorf("round trip lost data: %+v", parsed)
			}
		})
	})

	t.Run("decoding", func(t *testing.T) {
		t.Run("should invert the encoder", func(t *testing.T) {
			segments, err := output.DecodeMappings("AAAA,IAAM;;EAEY")
			if err != nil {
				t.Fatal(err)
			}
			want := []output.DecodedSegment{
				{GeneratedLine: 0, GeneratedColumn: 0, SourceIndex: 0, SourceLine: 0, SourceColumn: 0, NameIndex: -1},
				{GeneratedLine: 0, GeneratedColumn: 4, SourceIndex: 0, SourceLine: 0, SourceColumn: 6, NameIndex: -1},
				{GeneratedLine: 2, GeneratedColumn: 2, SourceIndex: 0, SourceLine: 2, SourceColumn: 18, NameIndex: -1},
			}
			if diff := cmp.Diff(want, segments); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
		})

		t.Run("should reject malformed input", func(t *testing.T) {
			for _, input := range []string{"A!AA", "AAg", "AA"} {
				if _, err := output.DecodeMappings(input); err == nil {
					t.Errorf("DecodeMappings(%q) should fail", input)
				}
			}
		})
	})

	t.Run("mapping tree", func(t *testing.T) {
		t.Run("should reproduce tree positions after decoding", func(t *testing.T) {
			src := util.NewParseSourceFile("<b>héllo</b>\n{{name}}", "t.hbs")
			emitter := output.NewCodeEmitter(src.Span(0, len(src.Content)), "Template")
			emitter.Emit("[")
			emitter.PushScope(src.Span(0, 13), "ElementNode", "b")
			emitter.Emit("$_tag(")
			emitter.EmitMapped("'b'", src.Span(1, 2), "ElementNode", "")
			emitter.Emit(")")
			emitter.PopScope()
			emitter.Emit(",")
			emitter.Newline()
			emitter.EmitMapped("name", src.Span(16, 20), "PathExpression", "name")
			emitter.Emit("]")

			tree := emitter.GetMappingTree()
			code := emitter.Code()
			if err := tree.Validate(); err != nil {
				t.Fatal(err)
			}
			sm, err := output.GenerateSourceMap(tree, code, "t.js", "t.hbs", src.Content)
			if err != nil {
				t.Fatal(err)
			}
			decoded, err := output.DecodeMappings(sm.Mappings)
			if err != nil {
				t.Fatal(err)
			}
			recorded := output.CollectMappings(tree, code)
			if len(decoded) != len(recorded) {
				t.Fatalf("decoded %d segments, recorded %d", len(decoded), len(recorded))
			}
			for i, m := range recorded {
				d := decoded[i]
				got := [4]int{d.GeneratedLine, d.GeneratedColumn, d.SourceLine, d.SourceColumn}
				want := [4]int{m.GeneratedLine, m.GeneratedColumn, m.SourceLine, m.SourceColumn}
				if got != want {
					t.Errorf("segment %d: got %v want %v", i, got, want)
				}
			}
			if diff := cmp.Diff([]string{"b", "name"}, sm.Names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
			last := recorded[len(recorded)-1]
			if last.SourceLine != 1 || last.SourceColumn != 2 || last.GeneratedLine != 1 {
				t.Errorf("unexpected last mapping %+v", last)
			}
		})
	})
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}
