package util

import (
	"fmt"
	"strings"
)

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// MoveBy moves the location by delta bytes, keeping line and column in sync
func (p *ParseLocation) MoveBy(delta int) *ParseLocation {
	offset := p.Offset + delta
	if offset < 0 {
		offset = 0
	}
	if offset > len(p.File.Content) {
		offset = len(p.File.Content)
	}
	return p.File.Location(offset)
}

// GetContext returns the source context around the location
func (p *ParseLocation) GetContext(maxChars, maxLines int) *Context {
	content := p.File.Content
	startOffset := p.Offset

	if startOffset < 0 || len(content) == 0 {
		return nil
	}
	if startOffset > len(content)-1 {
		startOffset = len(content) - 1
	}

	endOffset := startOffset
	ctxChars := 0
	ctxLines := 0

	for ctxChars < maxChars && startOffset > 0 {
		startOffset--
		ctxChars++
		if content[startOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				break
			}
		}
	}

	ctxChars = 0
	ctxLines = 0
	for ctxChars < maxChars && endOffset < len(content)-1 {
		endOffset++
		ctxChars++
		if content[endOffset] == '\n' {
			ctxLines++
			if ctxLines == maxLines {
				break
			}
		}
	}

	at := p.Offset
	if at > len(content) {
		at = len(content)
	}
	return &Context{
		Before: content[startOffset:at],
		After:  content[at : endOffset+1],
	}
}

// Context represents source context around a location
type Context struct {
	Before string
	After  string
}

// ParseSourceFile represents a source file
type ParseSourceFile struct {
	Content string
	URL     string

	index *LineIndex
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

// Lines returns the (lazily built) line index of the file
func (f *ParseSourceFile) Lines() *LineIndex {
	if f.index == nil {
		f.index = NewLineIndex(f.Content)
	}
	return f.index
}

// Location returns the location of a byte offset within the file.
// Columns are counted in UTF-16 code units.
func (f *ParseSourceFile) Location(offset int) *ParseLocation {
	line, col := f.Lines().Position(offset)
	return NewParseLocation(f, offset, line, col)
}

// Span returns the span covering the byte range [start, end)
func (f *ParseSourceFile) Span(start, end int) *ParseSourceSpan {
	if end < start {
		end = start
	}
	return NewParseSourceSpan(f.Location(start), f.Location(end), nil, nil)
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start     *ParseLocation
	End       *ParseLocation
	FullStart *ParseLocation
	Details   *string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation, fullStart *ParseLocation, details *string) *ParseSourceSpan {
	if fullStart == nil {
		fullStart = start
	}
	return &ParseSourceSpan{
		Start:     start,
		End:       end,
		FullStart: fullStart,
		Details:   details,
	}
}

// String returns the source code in this span
func (p *ParseSourceSpan) String() string {
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

// Width returns the number of bytes covered by the span
func (p *ParseSourceSpan) Width() int {
	if p == nil || p.Start == nil || p.End == nil {
		return 0
	}
	return p.End.Offset - p.Start.Offset
}

// IsEmpty reports whether the span is missing or collapsed to zero width
func (p *ParseSourceSpan) IsEmpty() bool {
	return p.Width() <= 0
}

// ParseErrorLevel represents the level of a parse error
type ParseErrorLevel int

const (
	ParseErrorLevelWarning ParseErrorLevel = iota
	ParseErrorLevelError
)

// ParseError represents a parse error
type ParseError struct {
	Span         *ParseSourceSpan
	Msg          string
	Level        ParseErrorLevel
	RelatedError error
}

// NewParseError creates a new ParseError
func NewParseError(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelError,
	}
}

// NewParseWarning creates a new ParseWarning
func NewParseWarning(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelWarning,
	}
}

// Error implements the error interface
func (p *ParseError) Error() string {
	return p.String()
}

// Unwrap returns the related error, if any
func (p *ParseError) Unwrap() error {
	return p.RelatedError
}

// ContextualMessage returns the error message with context
func (p *ParseError) ContextualMessage() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	ctx := p.Span.Start.GetContext(100, 3)
	if ctx != nil {
		levelStr := "ERROR"
		if p.Level == ParseErrorLevelWarning {
			levelStr = "WARNING"
		}
		return fmt.Sprintf(`%s ("%s[%s ->]%s")`, p.Msg, ctx.Before, levelStr, ctx.After)
	}
	return p.Msg
}

// String returns a string representation of the error
func (p *ParseError) String() string {
	if p.Span == nil {
		return p.Msg
	}
	details := ""
	if p.Span.Details != nil {
		details = fmt.Sprintf(", %s", *p.Span.Details)
	}
	if p.Span.Start == nil {
		return fmt.Sprintf("%s%s", p.ContextualMessage(), details)
	}
	return fmt.Sprintf("%s: %s%s", p.ContextualMessage(), p.Span.Start, details)
}

// ShortString renders the message with its position but without source context
func (p *ParseError) ShortString() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	return fmt.Sprintf("%s: %s", p.Span.Start, p.Msg)
}

// JoinErrors renders a list of parse errors one per line
func JoinErrors(errs []*ParseError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.ShortString())
	}
	return strings.Join(parts, "\n")
}
