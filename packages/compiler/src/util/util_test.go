package util_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gxt-go/packages/compiler/src/util"
)

func TestEscapeString(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		dollar bool
		want   string
	}{
		{"plain", "abc", false, "'abc'"},
		{"quote", "it's", false, `'it\'s'`},
		{"backslash", `a\b`, false, `'a\\b'`},
		{"newlines", "a\nb\rc", false, `'a\nb\rc'`},
		{"line separators", "a\u2028b\u2029", false, `'a\u2028b\u2029'`},
		{"dollar kept", "$x", false, "'$x'"},
		{"dollar escaped", "$x", true, `'\$x'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := util.EscapeString(tt.input, tt.dollar); got != tt.want {
				t.Errorf("EscapeString(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestIdentifiers(t *testing.T) {
	t.Run("should recognize legal identifiers", func(t *testing.T) {
		for name, want := range map[string]bool{
			"foo": true, "$_tag": true, "_x1": true,
			"1x": false, "my-helper": false, "class": false, "": false,
		} {
			if got := util.IsLegalIdentifier(name); got != want {
				t.Errorf("IsLegalIdentifier(%q) = %v", name, got)
			}
		}
		if !util.IsLegalPropertyName("class") {
			t.Error("reserved words are legal property names")
		}
	})

	t.Run("should sanitize identifiers", func(t *testing.T) {
		tests := map[string]string{
			"foo":      "foo",
			"my-thing": "my_thing",
			"1st":      "_1st",
			"class":    "_class",
			"":         "_",
		}
		for in, want := range tests {
			if got := util.SanitizeIdentifier(in); got != want {
				t.Errorf("SanitizeIdentifier(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("should convert dash case", func(t *testing.T) {
		if got := util.DashCaseToCamelCase("aria-label-by"); got != "ariaLabelBy" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("should detect whitespace only text", func(t *testing.T) {
		if !util.IsWhitespaceOnly(" \n\t") || util.IsWhitespaceOnly(" a ") {
			t.Error("IsWhitespaceOnly mismatch")
		}
	})
}

func TestLineIndex(t *testing.T) {
	content := "ab\n😀c\n"
	li := util.NewLineIndex(content)

	t.Run("should count lines", func(t *testing.T) {
		if li.LineCount() != 3 {
			t.Errorf("LineCount() = %d, want 3", li.LineCount())
		}
	})

	t.Run("should count columns in UTF-16 units", func(t *testing.T) {
		tests := []struct {
			offset, line, col int
		}{
			{0, 0, 0},
			{2, 0, 2},
			{3, 1, 0},
			{7, 1, 2},
			{8, 1, 3},
			{100, 2, 0},
		}
		for _, tt := range tests {
			line, col := li.Position(tt.offset)
			if diff := cmp.Diff([]int{tt.line, tt.col}, []int{line, col}); diff != "" {
				t.Errorf("Position(%d) mismatch (-want +got):\n%s", tt.offset, diff)
			}
		}
	})

	t.Run("should invert Position", func(t *testing.T) {
		for _, offset := range []int{0, 1, 3, 7, 8} {
			line, col := li.Position(offset)
			if got := li.Offset(line, col); got != offset {
				t.Errorf("Offset(Position(%d)) = %d", offset, got)
			}
		}
	})
}

func TestParseError(t *testing.T) {
	file := util.NewParseSourceFile("ab\ncd", "t.hbs")

	t.Run("should render position and message", func(t *testing.T) {
		err := util.NewParseError(file.Span(3, 5), "bad")
		if got := err.ShortString(); got != "t.hbs@1:0: bad" {
			t.Errorf("ShortString() = %q", got)
		}
		if got := file.Span(3, 5).String(); got != "cd" {
			t.Errorf("span text = %q", got)
		}
	})

	t.Run("should mark warnings", func(t *testing.T) {
		w := util.NewParseWarning(file.Span(0, 1), "careful")
		if w.Level != util.ParseErrorLevelWarning {
			t.Errorf("level = %v", w.Level)
		}
	})

	t.Run("should join errors one per line", func(t *testing.T) {
		errs := []*util.ParseError{
			util.NewParseError(nil, "first"),
			util.NewParseError(file.Span(1, 2), "second"),
		}
		want := "first\nt.hbs@0:1: second"
		if got := util.JoinErrors(errs); got != want {
			t.Errorf("JoinErrors() = %q, want %q", got, want)
		}
	})

	t.Run("should treat a missing span as empty", func(t *testing.T) {
		var span *util.ParseSourceSpan
		if !span.IsEmpty() || file.Span(0, 2).IsEmpty() {
			t.Error("IsEmpty mismatch")
		}
	})
}
