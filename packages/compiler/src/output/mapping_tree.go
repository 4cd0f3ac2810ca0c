package output

import (
	"fmt"

	"gxt-go/packages/compiler/src/util"
)

// Range is a half-open byte range [Start, End) of the generated code
type Range struct {
	Start int
	End   int
}

// Len returns the width of the range
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether other lies within r
func (r Range) Contains(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// MappingTreeNode records which generated range a template range produced
type MappingTreeNode struct {
	// SourceSpan is nil for synthesized regions
	SourceSpan *util.ParseSourceSpan
	Generated  Range
	SourceKind string
	Name       string
	Children   []*MappingTreeNode
}

// NewMappingTreeNode creates a new MappingTreeNode
func NewMappingTreeNode(span *util.ParseSourceSpan, kind, name string, start int) *MappingTreeNode {
	return &MappingTreeNode{
		SourceSpan: span,
		Generated:  Range{Start: start, End: start},
		SourceKind: kind,
		Name:       name,
	}
}

// HasSource reports whether the node maps to a non-empty template range
func (n *MappingTreeNode) HasSource() bool {
	return n.SourceSpan != nil && !n.SourceSpan.IsEmpty()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the children of the current node.
func (n *MappingTreeNode) Walk(fn func(node *MappingTreeNode, depth int) bool) {
	n.walk(fn, 0)
}

func (n *MappingTreeNode) walk(fn func(node *MappingTreeNode, depth int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the tree
func (n *MappingTreeNode) Count() int {
	count := 0
	n.Walk(func(*MappingTreeNode, int) bool {
		count++
		return true
	})
	return count
}

// Validate checks that children lie within their parent and that siblings
// are ordered by generated position
func (n *MappingTreeNode) Validate() error {
	var err error
	n.Walk(func(node *MappingTreeNode, _ int) bool {
		if err != nil {
			return false
		}
		last := node.Generated.Start
		for _, child := range node.Children {
			if !node.Generated.Contains(child.Generated) {
				err = fmt.Errorf("mapping %s %v escapes parent %s %v", child.SourceKind, child.Generated, node.SourceKind, node.Generated)
				return false
			}
			if child.Generated.Start < last {
				err = fmt.Errorf("mapping %s %v starts before its previous sibling", child.SourceKind, child.Generated)
				return false
			}
			last = child.Generated.End
		}
		return true
	})
	return err
}

// String renders the tree one node per line, for debugging
func (n *MappingTreeNode) String() string {
	out := ""
	n.Walk(func(node *MappingTreeNode, depth int) bool {
		for i := 0; i < depth; i++ {
			out += "  "
		}
		src := "-"
		if node.SourceSpan != nil {
			src = fmt.Sprintf("%d:%d", node.SourceSpan.Start.Offset, node.SourceSpan.End.Offset)
		}
		out += fmt.Sprintf("%s [%d:%d] <- %s", node.SourceKind, node.Generated.Start, node.Generated.End, src)
		if node.Name != "" {
			out += " " + node.Name
		}
		out += "\n"
		return true
	})
	return out
}
