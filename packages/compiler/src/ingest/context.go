// Package ingest walks a template AST and produces the IR consumed by code
// generation. It resolves every path against the scope tracker, rewrites
// built-in helpers and lowers block statements into control expressions.
package ingest

import (
	"fmt"
	"sort"

	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/config"
	"gxt-go/packages/compiler/src/ir"
	"gxt-go/packages/compiler/src/scope"
	"gxt-go/packages/compiler/src/util"
)

// Context is the state of one compilation. Nothing in it is shared between
// compilations, so independent compiles may run concurrently.
type Context struct {
	// File is the host file; template offsets are shifted by Offset into it
	File   *util.ParseSourceFile
	Offset int
	Flags  *config.Flags
	Scope  *scope.Tracker

	Errors   []*util.ParseError
	Warnings []*util.ParseError

	referenced map[string]*scope.BindingInfo
	seen       map[ast.Node]interface{}
	duplicates int
	letBlocks  int
}

// NewContext creates a Context for a template located at offset within file
func NewContext(file *util.ParseSourceFile, offset int, flags *config.Flags) *Context {
	if flags == nil {
		flags = config.DefaultFlags()
	}
	return &Context{
		File:       file,
		Offset:     offset,
		Flags:      flags,
		Scope:      scope.NewTracker(),
		referenced: map[string]*scope.BindingInfo{},
		seen:       map[ast.Node]interface{}{},
	}
}

// DeclareBinding adds a host-module name to the root scope
func (c *Context) DeclareBinding(name string, kind scope.BindingKind) {
	c.Scope.AddBinding(name, scope.NewBindingInfo(kind, name, nil))
}

// Span converts a template location into a span of the host file. It
// returns nil for synthetic locations.
func (c *Context) Span(loc ast.Loc) *util.ParseSourceSpan {
	if loc.IsSynthetic() || c.File == nil {
		return nil
	}
	start, end := loc.Start+c.Offset, loc.End+c.Offset
	if limit := len(c.File.Content); end > limit {
		end = limit
		if start > end {
			start = end
		}
	}
	return c.File.Span(start, end)
}

// Origin returns the IR origin of an AST node
func (c *Context) Origin(node ast.Node) ir.Origin {
	return ir.Origin{SourceSpan: c.Span(node.Location()), SourceKind: node.Kind()}
}

// Error records a structural problem at loc
func (c *Context) Error(loc ast.Loc, format string, args ...interface{}) {
	c.Errors = append(c.Errors, util.NewParseError(c.Span(loc), fmt.Sprintf(format, args...)))
}

// Warn records a recoverable problem at loc
func (c *Context) Warn(loc ast.Loc, format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, util.NewParseWarning(c.Span(loc), fmt.Sprintf(format, args...)))
}

// WarnSpan records a recoverable problem at an already resolved span
func (c *Context) WarnSpan(span *util.ParseSourceSpan, format string, args ...interface{}) {
	c.Warnings = append(c.Warnings, util.NewParseWarning(span, fmt.Sprintf(format, args...)))
}

// touch records that a host-module binding was referenced
func (c *Context) touch(info *scope.BindingInfo) {
	if info.Kind.IsLocal() {
		return
	}
	c.referenced[info.OriginalName] = info
}

// ReferencedBindings returns the host-module names the template used, sorted
func (c *Context) ReferencedBindings() []string {
	names := make([]string, 0, len(c.referenced))
	for name := range c.referenced {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SkippedDuplicates returns how many AST nodes were reached a second time
// and not emitted again
func (c *Context) SkippedDuplicates() int {
	return c.duplicates
}

func (c *Context) nextLetScope() int {
	n := c.letBlocks
	c.letBlocks++
	return n
}
