// Package compiler is the entry point of the template compiler. Compile
// parses a template, visits it into the IR, generates the template function
// and its source map, and returns everything in one CompileResult.
package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/codegen"
	"gxt-go/packages/compiler/src/config"
	"gxt-go/packages/compiler/src/hbs_parser"
	"gxt-go/packages/compiler/src/hints"
	"gxt-go/packages/compiler/src/ingest"
	"gxt-go/packages/compiler/src/output"
	"gxt-go/packages/compiler/src/scope"
	"gxt-go/packages/compiler/src/util"
)

const defaultFileName = "template.hbs"

// Options configures one compilation
type Options struct {
	// FileName is the host file; its base name appears in the source map
	FileName string
	// Source is the full host file. When set, the template is expected at
	// TemplateOffset within it and the source map points into Source.
	Source         string
	TemplateOffset int

	Flags *config.Flags
	// Bindings are the names imported or declared by the host module.
	// Capitalized names are components, everything else helpers.
	Bindings []string

	// TypeHints is consulted with Source and Identifier when the type
	// optimization flag is on
	TypeHints  hints.Provider
	Identifier string

	Logger *slog.Logger
}

// CompileResult is the outcome of one compilation. It is never nil and is
// not modified after Compile returns.
type CompileResult struct {
	Code        string
	MappingTree *output.MappingTreeNode
	Errors      []*util.ParseError
	Warnings    []*util.ParseError
	// Bindings are the host-module names the template referenced, sorted
	Bindings  []string
	SourceMap *output.SourceMap
}

// Err returns nil when no error was collected, otherwise an error
// describing the first one
func (r *CompileResult) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return r.Errors[0]
	}
	return fmt.Errorf("%w (and %d more errors)", r.Errors[0], len(r.Errors)-1)
}

// Compile parses template and compiles it. Problems in the template are
// collected in the result; Compile itself never fails.
func Compile(template string, opts *Options) *CompileResult {
	opts = withDefaults(opts)
	parsed := hbs_parser.Parse(template, opts.FileName)
	return compile(parsed.Template, template, parsed.Errors, opts)
}

// CompileAST compiles a template parsed elsewhere, for example decoded with
// ast.FromJSON. Locations in tpl are offsets into template.
func CompileAST(tpl *ast.Template, template string, opts *Options) *CompileResult {
	return compile(tpl, template, nil, withDefaults(opts))
}

func compile(tpl *ast.Template, template string, parseErrors []*util.ParseError, opts *Options) (result *CompileResult) {
	started := time.Now()
	file, offset, misplaced := hostFile(template, opts)

	defer func() {
		if r := recover(); r != nil {
			result = emptyResult(opts, file, util.NewParseError(nil, fmt.Sprintf("internal compiler error: %v", r)))
		}
		opts.Logger.Debug("template compiled",
			slog.String("template", opts.FileName),
			slog.Duration("duration", time.Since(started)),
			slog.Int("errors", len(result.Errors)),
			slog.Int("warnings", len(result.Warnings)),
		)
		for _, w := range result.Warnings {
			opts.Logger.Warn(w.Msg, slog.String("template", opts.FileName), slog.String("at", position(w)))
		}
	}()

	ctx := ingest.NewContext(file, offset, opts.Flags)
	for _, e := range parseErrors {
		ctx.Errors = append(ctx.Errors, relocate(e, file, offset))
	}
	if misplaced != nil {
		ctx.Warnings = append(ctx.Warnings, misplaced)
	}
	for _, name := range opts.Bindings {
		ctx.DeclareBinding(name, bindingKind(name))
	}

	children := ingest.Build(ctx, tpl)
	if n := ctx.Scope.Balance(); n != 0 {
		ctx.WarnSpan(nil, "%d scope(s) left open after visiting the template", n)
		ctx.Scope.Unwind()
	}
	if dups := ctx.SkippedDuplicates(); dups > 0 {
		opts.Logger.Debug("skipped duplicate nodes", slog.String("template", opts.FileName), slog.Int("count", dups))
	}

	var typeHints *hints.TypeHints
	if opts.Flags.WithTypeOptimization && opts.TypeHints != nil {
		typeHints = opts.TypeHints(file.Content, opts.Identifier)
	}
	fn := codegen.NewBuilder(opts.Flags, typeHints).Template(children)

	result = &CompileResult{
		Errors:   ctx.Errors,
		Warnings: ctx.Warnings,
		Bindings: ctx.ReferencedBindings(),
	}
	emit(result, fn, file, opts)
	return result
}

// emit serializes fn into result, together with its mapping tree and source map
func emit(result *CompileResult, fn output.JSExpression, file *util.ParseSourceFile, opts *Options) {
	emitter := output.NewCodeEmitter(file.Span(0, len(file.Content)), "Template")
	output.NewSerializer(emitter, false).Serialize(fn)
	result.Code = emitter.Code()
	result.MappingTree = emitter.GetMappingTree()
	if !opts.Flags.WithSourceMap {
		return
	}
	base := filepath.Base(opts.FileName)
	jsName := strings.TrimSuffix(base, filepath.Ext(base)) + ".js"
	sm, err := output.GenerateSourceMap(result.MappingTree, result.Code, jsName, base, file.Content)
	if err != nil {
		result.Warnings = append(result.Warnings, util.NewParseWarning(nil, fmt.Sprintf("source map skipped: %v", err)))
		return
	}
	result.SourceMap = sm
}

// emptyResult is the well-formed fallback used when compilation cannot
// produce a template function
func emptyResult(opts *Options, file *util.ParseSourceFile, cause *util.ParseError) *CompileResult {
	result := &CompileResult{
		Errors:   []*util.ParseError{cause},
		Warnings: []*util.ParseError{},
		Bindings: []string{},
	}
	emit(result, codegen.NewBuilder(opts.Flags, nil).Template(nil), file, opts)
	return result
}

func withDefaults(opts *Options) *Options {
	o := Options{}
	if opts != nil {
		o = *opts
	}
	if o.FileName == "" {
		o.FileName = defaultFileName
	}
	if o.Flags == nil {
		o.Flags = config.DefaultFlags()
	}
	if o.Logger == nil {
		o.Logger = slog.New(discardHandler{})
	}
	return &o
}

// hostFile returns the file locations are reported against and the offset of
// the template within it. A Source that does not contain template at
// TemplateOffset is ignored with a warning.
func hostFile(template string, opts *Options) (*util.ParseSourceFile, int, *util.ParseError) {
	if opts.Source == "" {
		return util.NewParseSourceFile(template, opts.FileName), 0, nil
	}
	start, end := opts.TemplateOffset, opts.TemplateOffset+len(template)
	if template != "" && (start < 0 || end > len(opts.Source) || opts.Source[start:end] != template) {
		warning := util.NewParseWarning(nil, fmt.Sprintf("template not found at offset %d of %s; mapping to the template text", start, opts.FileName))
		return util.NewParseSourceFile(template, opts.FileName), 0, warning
	}
	return util.NewParseSourceFile(opts.Source, opts.FileName), opts.TemplateOffset, nil
}

// relocate moves a parser diagnostic from template coordinates into file
func relocate(e *util.ParseError, file *util.ParseSourceFile, offset int) *util.ParseError {
	if e.Span == nil || e.Span.Start == nil || e.Span.End == nil {
		return e
	}
	start, end := e.Span.Start.Offset+offset, e.Span.End.Offset+offset
	if end > len(file.Content) {
		end = len(file.Content)
	}
	if start > end {
		start = end
	}
	moved := *e
	moved.Span = file.Span(start, end)
	return &moved
}

func bindingKind(name string) scope.BindingKind {
	if r, _ := utf8.DecodeRuneInString(name); unicode.IsUpper(r) {
		return scope.BindingComponent
	}
	return scope.BindingHelper
}

func position(e *util.ParseError) string {
	if e.Span == nil || e.Span.Start == nil {
		return ""
	}
	return e.Span.Start.String()
}

// discardHandler drops every record
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
