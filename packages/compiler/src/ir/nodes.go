package ir

import "strings"

// TagKind classifies an element-like node
type TagKind int

const (
	// TagElement is a plain DOM element
	TagElement TagKind = iota
	// TagComponent is a component known at compile time
	TagComponent
	// TagDynamic is a component resolved from a runtime value
	TagDynamic
	// TagNamedBlock is a `<:name>` block passed to a component
	TagNamedBlock
)

// Attr is a name/value pair of an element or component
type Attr struct {
	Origin
	Name  string
	Value SerializedValue
}

// NewAttr creates a new Attr
func NewAttr(name string, value SerializedValue, origin Origin) *Attr {
	return &Attr{Origin: origin, Name: name, Value: value}
}

// EventKind tells listeners and modifiers apart
type EventKind int

const (
	// EventListener is `{{on "event" handler ...args}}`
	EventListener EventKind = iota
	// EventModifier is any other element modifier
	EventModifier
)

// Event is an entry of an element's event/modifier list
type Event struct {
	Origin
	Kind    EventKind
	Name    string
	Handler SerializedValue
	Args    []SerializedValue
	// Modifier is set for EventModifier
	Modifier *Helper
}

// Slot is a block of children passed to a component
type Slot struct {
	Origin
	Name           string
	BlockParams    []string
	Children       []Child
	HasStableChild bool
}

// HBSNode is an element or component instance
type HBSNode struct {
	Origin
	Tag     string
	TagKind TagKind
	// TagRef is the resolved reference of component and dynamic tags
	TagRef     *Path
	Attributes []*Attr
	Properties []*Attr
	Events     []*Event
	// Args are the `@name=` arguments of a component
	Args               []*Attr
	Children           []Child
	Slots              []*Slot
	BlockParams        []string
	SelfClosing        bool
	HasStableChild     bool
	ForwardsAttributes bool
}

// NewHBSNode creates a new HBSNode
func NewHBSNode(tag string, kind TagKind, origin Origin) *HBSNode {
	return &HBSNode{Origin: origin, Tag: tag, TagKind: kind, HasStableChild: true}
}

// IsComponentLike reports whether the node renders a component or a named block
func (n *HBSNode) IsComponentLike() bool {
	return n.TagKind != TagElement
}

// ControlKind is the kind of an HBSControlExpression
type ControlKind int

const (
	ControlIf ControlKind = iota
	ControlEach
	ControlYield
	ControlInElement
	ControlLet
)

var controlKindNames = map[ControlKind]string{
	ControlIf:        "if",
	ControlEach:      "each",
	ControlYield:     "yield",
	ControlInElement: "in-element",
	ControlLet:       "let",
}

func (k ControlKind) String() string {
	return controlKindNames[k]
}

// LetBinding is one local introduced by a `let` block
type LetBinding struct {
	Name         string
	OriginalName string
	Value        SerializedValue
}

// HBSControlExpression is a control-flow block
type HBSControlExpression struct {
	Origin
	Type      ControlKind
	Condition SerializedValue
	Children  []Child
	// Inverse is nil when the construct has no such branch
	Inverse     []Child
	BlockParams []string
	// Key is the property name used to key `each` items; empty means identity
	Key    string
	IsSync bool
	// yield
	SlotName string
	Params   []SerializedValue
	// let
	Bindings []*LetBinding

	HasStableChild        bool
	InverseHasStableChild bool
}

// NewHBSControlExpression creates a new HBSControlExpression with empty branches
func NewHBSControlExpression(typ ControlKind, origin Origin) *HBSControlExpression {
	return &HBSControlExpression{
		Origin:                origin,
		Type:                  typ,
		Children:              []Child{},
		HasStableChild:        true,
		InverseHasStableChild: true,
	}
}

// HasContent reports whether at least one branch renders something
func (c *HBSControlExpression) HasContent() bool {
	return len(c.Children) > 0 || len(c.Inverse) > 0
}

// HasStableChild reports whether the first meaningful child keeps its DOM
// identity across re-evaluation: text and plain lowercase elements do,
// control blocks, components, named blocks and dynamic values do not.
func HasStableChild(children []Child) bool {
	for _, child := range children {
		switch c := child.(type) {
		case *Text:
			if strings.TrimSpace(c.Value) == "" {
				continue
			}
			return true
		case *HBSNode:
			return c.TagKind == TagElement && isStableTag(c.Tag)
		case *HBSControlExpression:
			return false
		case *Literal:
			return true
		default:
			return false
		}
	}
	return true
}

func isStableTag(tag string) bool {
	if tag == "" || strings.HasPrefix(tag, ":") {
		return false
	}
	return strings.ToLower(tag[:1]) == tag[:1]
}
