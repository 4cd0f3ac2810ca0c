// Package hints models the static type information a host-language analysis
// can supply about a component class. The compiler consumes it through the
// Provider function type and never depends on how it was computed.
package hints

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Classification is the coarse type of a property or argument
type Classification int

const (
	Unknown Classification = iota
	Primitive
	Object
	Function
	Cell
)

var classificationNames = map[string]Classification{
	"unknown":   Unknown,
	"primitive": Primitive,
	"object":    Object,
	"function":  Function,
	"cell":      Cell,
}

func (c Classification) String() string {
	for name, v := range classificationNames {
		if v == c {
			return name
		}
	}
	return "unknown"
}

// Hint describes one property or argument
type Hint struct {
	Kind       Classification
	IsReadonly bool
	// LiteralValue is a string, float64, bool or nil; only meaningful when HasLiteral is set
	LiteralValue interface{}
	HasLiteral   bool
}

// IsConstant reports whether a value with this hint can never change after construction
func (h *Hint) IsConstant() bool {
	if h == nil {
		return false
	}
	return h.HasLiteral || (h.Kind == Primitive && h.IsReadonly)
}

// TypeHints groups the hints of one class or template identifier
type TypeHints struct {
	Properties map[string]*Hint
	Args       map[string]*Hint
}

// NewTypeHints creates empty TypeHints
func NewTypeHints() *TypeHints {
	return &TypeHints{Properties: map[string]*Hint{}, Args: map[string]*Hint{}}
}

// Property returns the hint of `this.name`
func (t *TypeHints) Property(name string) *Hint {
	if t == nil {
		return nil
	}
	return t.Properties[name]
}

// Arg returns the hint of `@name`
func (t *TypeHints) Arg(name string) *Hint {
	if t == nil {
		return nil
	}
	return t.Args[name]
}

// Provider computes type hints for identifier declared in source. It returns
// nil when nothing is known.
type Provider func(source, identifier string) *TypeHints

// FromJSON reads hints from a document of the form
//
//	{"properties": {"title": {"kind": "primitive", "isReadonly": true}},
//	 "args": {"count": {"kind": "primitive", "literalValue": 3}}}
func FromJSON(data []byte) (*TypeHints, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("type hints: invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	out := NewTypeHints()
	readGroup(doc.Get("properties"), out.Properties)
	readGroup(doc.Get("args"), out.Args)
	return out, nil
}

func readGroup(group gjson.Result, into map[string]*Hint) {
	group.ForEach(func(key, value gjson.Result) bool {
		h := &Hint{
			Kind:       classificationNames[value.Get("kind").String()],
			IsReadonly: value.Get("isReadonly").Bool(),
		}
		if lit := value.Get("literalValue"); lit.Exists() {
			h.HasLiteral = true
			switch lit.Type {
			case gjson.String:
				h.LiteralValue = lit.String()
			case gjson.Number:
				h.LiteralValue = lit.Float()
			case gjson.True, gjson.False:
				h.LiteralValue = lit.Bool()
			case gjson.Null:
				h.LiteralValue = nil
			default:
				h.HasLiteral = false
			}
		}
		into[key.String()] = h
		return true
	})
}
