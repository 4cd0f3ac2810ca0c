package hints_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gxt-go/packages/compiler/src/hints"
)

func TestFromJSON(t *testing.T) {
	doc := `{
		"properties": {
			"title": {"kind": "primitive", "isReadonly": true},
			"items": {"kind": "object"},
			"label": {"kind": "primitive", "literalValue": "Save"}
		},
		"args": {
			"count": {"kind": "primitive", "literalValue": 3},
			"open": {"literalValue": false},
			"weird": {"literalValue": [1]}
		}
	}`
	th, err := hints.FromJSON([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	t.Run("should read hints", func(t *testing.T) {
		tests := []struct {
			name     string
			hint     *hints.Hint
			want     *hints.Hint
			constant bool
		}{
			{"readonly primitive", th.Property("title"), &hints.Hint{Kind: hints.Primitive, IsReadonly: true}, true},
			{"object", th.Property("items"), &hints.Hint{Kind: hints.Object}, false},
			{"string literal", th.Property("label"), &hints.Hint{Kind: hints.Primitive, HasLiteral: true, LiteralValue: "Save"}, true},
			{"number literal", th.Arg("count"), &hints.Hint{Kind: hints.Primitive, HasLiteral: true, LiteralValue: 3.0}, true},
			{"boolean literal", th.Arg("open"), &hints.Hint{HasLiteral: true, LiteralValue: false}, true},
			{"unsupported literal", th.Arg("weird"), &hints.Hint{}, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if diff := cmp.Diff(tt.want, tt.hint); diff != "" {
					t.Errorf("hint mismatch (-want +got):\n%s", diff)
				}
				if got := tt.hint.IsConstant(); got != tt.constant {
					t.Errorf("IsConstant() = %v", got)
				}
			})
		}
	})

	t.Run("should return nil for unknown names", func(t *testing.T) {
		if th.Property("nope") != nil || th.Arg("title") != nil {
			t.Error("expected nil hints")
		}
		var none *hints.TypeHints
		if none.Property("title").IsConstant() {
			t.Error("nil hints are never constant")
		}
	})

	t.Run("should reject invalid JSON", func(t *testing.T) {
		if _, err := hints.FromJSON([]byte(`{"properties":`)); err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("should name classifications", func(t *testing.T) {
		if hints.Cell.String() != "cell" || hints.Classification(99).String() != "unknown" {
			t.Error("String() mismatch")
		}
	})
}

func TestCache(t *testing.T) {
	calls := 0
	provider := func(source, identifier string) *hints.TypeHints {
		calls++
		th := hints.NewTypeHints()
		th.Properties[identifier] = &hints.Hint{Kind: hints.Primitive}
		return th
	}

	t.Run("should memoize per source and identifier", func(t *testing.T) {
		calls = 0
		cache := hints.NewCache(8)
		p := cache.Wrap("a.gts", provider)
		first := p("source", "A")
		second := p("source", "A")
		p("source", "B")
		p("changed", "A")
		if first != second {
			t.Error("expected the cached hints")
		}
		if calls != 3 {
			t.Errorf("provider called %d times, want 3", calls)
		}
		hits, misses := cache.Stats()
		if diff := cmp.Diff([]int{1, 3}, []int{hits, misses}); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should separate files", func(t *testing.T) {
		calls = 0
		cache := hints.NewCache(8)
		cache.Wrap("a.gts", provider)("s", "X")
		cache.Wrap("b.gts", provider)("s", "X")
		if calls != 2 || cache.Len() != 2 {
			t.Errorf("calls %d, len %d", calls, cache.Len())
		}
	})

	t.Run("should evict and clear", func(t *testing.T) {
		calls = 0
		cache := hints.NewCache(2)
		p := cache.Wrap("a.gts", provider)
		p("1", "")
		p("2", "")
		p("3", "")
		if cache.Len() != 2 {
			t.Errorf("len = %d, want 2", cache.Len())
		}
		cache.Clear()
		if cache.Len() != 0 {
			t.Error("Clear left entries")
		}
		if hits, misses := cache.Stats(); hits != 0 || misses != 0 {
			t.Error("Clear left counters")
		}
	})

	t.Run("should count concurrent lookups", func(t *testing.T) {
		var called atomic.Int64
		cache := hints.NewCache(8)
		p := cache.Wrap("a.gts", func(source, identifier string) *hints.TypeHints {
			called.Add(1)
			return hints.NewTypeHints()
		})
		p("source", "A")

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p("source", "A")
			}()
		}
		wg.Wait()
		hits, misses := cache.Stats()
		if diff := cmp.Diff([]int{16, 1}, []int{hits, misses}); diff != "" {
			t.Errorf("stats mismatch (-want +got):\n%s", diff)
		}
		if called.Load() != 1 {
			t.Errorf("provider called %d times, want 1", called.Load())
		}
	})

	t.Run("should pass a nil provider through", func(t *testing.T) {
		if hints.NewCache(0).Wrap("a.gts", nil) != nil {
			t.Error("expected a nil provider")
		}
	})

	t.Run("should hash keys", func(t *testing.T) {
		if hints.Key("a", "b", "c") == hints.Key("a", "bc", "") {
			t.Error("keys of different inputs collide")
		}
		if len(hints.Key("", "", "")) != 64 {
			t.Error("expected a hex sha256")
		}
	})
}
