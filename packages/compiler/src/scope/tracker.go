// Package scope tracks the lexical bindings visible while a template is
// compiled: names supplied by the host module, block params of `each`,
// `let` and component blocks, and the implicit `this`/argument bindings.
package scope

import (
	"fmt"

	"gxt-go/packages/compiler/src/util"
)

// BindingKind classifies what a name refers to
type BindingKind int

const (
	BindingComponent BindingKind = iota
	BindingHelper
	BindingModifier
	BindingBlockParam
	BindingLetBinding
	BindingArg
	BindingThis
)

var bindingKindNames = map[BindingKind]string{
	BindingComponent:  "component",
	BindingHelper:     "helper",
	BindingModifier:   "modifier",
	BindingBlockParam: "block-param",
	BindingLetBinding: "let-binding",
	BindingArg:        "arg",
	BindingThis:       "this",
}

func (k BindingKind) String() string {
	if name, ok := bindingKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BindingKind(%d)", int(k))
}

// IsLocal reports whether the binding was introduced by the template itself
func (k BindingKind) IsLocal() bool {
	return k == BindingBlockParam || k == BindingLetBinding
}

// BindingInfo describes one name in a scope frame
type BindingInfo struct {
	Kind BindingKind
	// Name is the identifier emitted for the binding
	Name string
	// OriginalName is the name written in the template when Name was renamed
	OriginalName string
	SourceSpan   *util.ParseSourceSpan
	// Lazy is set for let bindings stored as zero-argument thunks; reads call them
	Lazy bool
}

// NewBindingInfo creates a new BindingInfo
func NewBindingInfo(kind BindingKind, name string, span *util.ParseSourceSpan) *BindingInfo {
	return &BindingInfo{Kind: kind, Name: name, OriginalName: name, SourceSpan: span}
}

// Renamed reports whether the emitted name differs from the template name
func (b *BindingInfo) Renamed() bool {
	return b.OriginalName != "" && b.OriginalName != b.Name
}

// Frame is one lexical scope
type Frame struct {
	Name     string
	bindings map[string]*BindingInfo
	order    []string
}

func newFrame(name string) *Frame {
	return &Frame{Name: name, bindings: map[string]*BindingInfo{}}
}

// Names returns the names declared in the frame in declaration order
func (f *Frame) Names() []string {
	return append([]string(nil), f.order...)
}

// Tracker is a stack of scope frames. The bottom frame is the root scope and
// can never be popped. A Tracker belongs to exactly one compilation.
type Tracker struct {
	frames []*Frame
	enters int
	exits  int
}

// NewTracker creates a Tracker holding only the root frame
func NewTracker() *Tracker {
	return &Tracker{frames: []*Frame{newFrame("root")}}
}

// EnterScope pushes a new empty frame
func (t *Tracker) EnterScope(name string) {
	t.enters++
	t.frames = append(t.frames, newFrame(name))
}

// ExitScope pops the innermost frame. Popping the root frame is refused and
// reported as an error; the stack is left untouched.
func (t *Tracker) ExitScope() error {
	if len(t.frames) <= 1 {
		return fmt.Errorf("scope stack underflow: exitScope called without a matching enterScope")
	}
	t.exits++
	t.frames = t.frames[:len(t.frames)-1]
	return nil
}

// AddBinding declares name in the innermost frame, replacing a same-named
// binding of that frame. Bindings of outer frames are shadowed, not changed.
func (t *Tracker) AddBinding(name string, info *BindingInfo) {
	f := t.current()
	if _, exists := f.bindings[name]; !exists {
		f.order = append(f.order, name)
	}
	f.bindings[name] = info
}

// Resolve searches the frames from innermost to outermost
func (t *Tracker) Resolve(name string) (*BindingInfo, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if info, ok := t.frames[i].bindings[name]; ok {
			return info, true
		}
	}
	return nil, false
}

// HasBinding reports whether name resolves in any frame
func (t *Tracker) HasBinding(name string) bool {
	_, ok := t.Resolve(name)
	return ok
}

// HasLocalBinding only looks at the innermost frame
func (t *Tracker) HasLocalBinding(name string) bool {
	_, ok := t.current().bindings[name]
	return ok
}

// Depth returns the number of frames including the root
func (t *Tracker) Depth() int {
	return len(t.frames)
}

// Balance returns how many EnterScope calls are still waiting for their ExitScope
func (t *Tracker) Balance() int {
	return t.enters - t.exits
}

// Current returns the innermost frame
func (t *Tracker) Current() *Frame {
	return t.current()
}

// Unwind pops every frame above the root and returns how many were popped
func (t *Tracker) Unwind() int {
	n := 0
	for len(t.frames) > 1 {
		_ = t.ExitScope()
		n++
	}
	return n
}

func (t *Tracker) current() *Frame {
	return t.frames[len(t.frames)-1]
}
