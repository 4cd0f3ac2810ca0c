package config

import (
	"fmt"
	"sort"

	"github.com/tidwall/gjson"
)

// Flag names as they appear in build configuration
const (
	FlagGlimmerCompatMode = "IS_GLIMMER_COMPAT_MODE"
	FlagHelperManager     = "WITH_HELPER_MANAGER"
	FlagModifierManager   = "WITH_MODIFIER_MANAGER"
	FlagTypeOptimization  = "WITH_TYPE_OPTIMIZATION"
	FlagEmitSourceMap     = "WITH_SOURCE_MAP"
)

// Flags is the flat set of compiler switches
type Flags struct {
	// IsGlimmerCompatMode wraps reactive values in zero-argument closures
	IsGlimmerCompatMode bool
	// WithHelperManager routes non built-in helpers through $_maybeHelper
	WithHelperManager bool
	// WithModifierManager routes modifiers through $_maybeModifier
	WithModifierManager bool
	// WithTypeOptimization lets type hints skip getter wrapping
	WithTypeOptimization bool
	// WithSourceMap serializes a v3 source map into the compile result
	WithSourceMap bool
	// Extra holds extension flags; unknown names are kept, never rejected
	Extra map[string]bool
}

// FlagOption is a function that modifies Flags
type FlagOption func(*Flags)

// DefaultFlags returns the default flag set
func DefaultFlags() *Flags {
	return &Flags{
		IsGlimmerCompatMode: true,
		WithSourceMap:       true,
		Extra:               map[string]bool{},
	}
}

// NewFlags creates Flags from the defaults and the given options
func NewFlags(opts ...FlagOption) *Flags {
	f := DefaultFlags()
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithCompatMode sets IS_GLIMMER_COMPAT_MODE
func WithCompatMode(on bool) FlagOption {
	return func(f *Flags) {
		f.IsGlimmerCompatMode = on
	}
}

// WithHelperManager sets WITH_HELPER_MANAGER
func WithHelperManager(on bool) FlagOption {
	return func(f *Flags) {
		f.WithHelperManager = on
	}
}

// WithModifierManager sets WITH_MODIFIER_MANAGER
func WithModifierManager(on bool) FlagOption {
	return func(f *Flags) {
		f.WithModifierManager = on
	}
}

// WithTypeOptimization sets WITH_TYPE_OPTIMIZATION
func WithTypeOptimization(on bool) FlagOption {
	return func(f *Flags) {
		f.WithTypeOptimization = on
	}
}

// WithSourceMap sets WITH_SOURCE_MAP
func WithSourceMap(on bool) FlagOption {
	return func(f *Flags) {
		f.WithSourceMap = on
	}
}

// WithFlag sets a flag by name. Known names update the typed fields, all
// other names land in Extra.
func WithFlag(name string, on bool) FlagOption {
	return func(f *Flags) {
		f.Set(name, on)
	}
}

// Set assigns a flag by name
func (f *Flags) Set(name string, on bool) {
	switch name {
	case FlagGlimmerCompatMode:
		f.IsGlimmerCompatMode = on
	case FlagHelperManager:
		f.WithHelperManager = on
	case FlagModifierManager:
		f.WithModifierManager = on
	case FlagTypeOptimization:
		f.WithTypeOptimization = on
	case FlagEmitSourceMap:
		f.WithSourceMap = on
	default:
		if f.Extra == nil {
			f.Extra = map[string]bool{}
		}
		f.Extra[name] = on
	}
}

// Get returns a flag by name; unknown names are false
func (f *Flags) Get(name string) bool {
	switch name {
	case FlagGlimmerCompatMode:
		return f.IsGlimmerCompatMode
	case FlagHelperManager:
		return f.WithHelperManager
	case FlagModifierManager:
		return f.WithModifierManager
	case FlagTypeOptimization:
		return f.WithTypeOptimization
	case FlagEmitSourceMap:
		return f.WithSourceMap
	}
	return f.Extra[name]
}

// Clone returns a deep copy
func (f *Flags) Clone() *Flags {
	c := *f
	c.Extra = make(map[string]bool, len(f.Extra))
	for k, v := range f.Extra {
		c.Extra[k] = v
	}
	return &c
}

// String lists the enabled flags in a stable order
func (f *Flags) String() string {
	names := []string{}
	for _, name := range []string{FlagGlimmerCompatMode, FlagHelperManager, FlagModifierManager, FlagTypeOptimization, FlagEmitSourceMap} {
		if f.Get(name) {
			names = append(names, name)
		}
	}
	extra := []string{}
	for name, on := range f.Extra {
		if on {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return fmt.Sprint(append(names, extra...))
}

// ParseFlags reads flags from a JSON document, either flat
// (`{"IS_GLIMMER_COMPAT_MODE": false}`) or nested under a "flags" key.
// Values that are not booleans are ignored, and so are unknown names beyond
// being recorded in Extra.
func ParseFlags(data []byte, base *Flags) (*Flags, error) {
	if base == nil {
		base = DefaultFlags()
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("flags: invalid JSON")
	}
	flags := base.Clone()
	doc := gjson.ParseBytes(data)
	if nested := doc.Get("flags"); nested.IsObject() {
		doc = nested
	}
	if !doc.IsObject() {
		return nil, fmt.Errorf("flags: expected a JSON object")
	}
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.IsBool() {
			flags.Set(key.String(), value.Bool())
		}
		return true
	})
	return flags, nil
}
