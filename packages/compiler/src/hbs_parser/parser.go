// Package hbs_parser turns template text into an ast.Template. The compiler
// itself only depends on the ast package, so any parser producing the same
// tree (for example one decoded with ast.FromJSON) can be used instead.
package hbs_parser

import (
	"fmt"
	"strconv"
	"strings"

	"gxt-go/packages/compiler/src/ast"
	"gxt-go/packages/compiler/src/util"
)

// ParseTreeResult represents the result of parsing a template
type ParseTreeResult struct {
	Template *ast.Template
	Errors   []*util.ParseError
}

// Parse parses template source. Structural problems are reported in Errors
// and parsing continues, so Template is never nil.
func Parse(source, url string) *ParseTreeResult {
	p := newParser(source, url)
	body, term := p.parseNodes()
	for term.kind != termEOF {
		p.unexpected(term)
		more, next := p.parseNodes()
		body = append(body, more...)
		term = next
	}
	return &ParseTreeResult{
		Template: ast.NewTemplate(body, ast.Loc{Start: 0, End: len(source)}),
		Errors:   p.errors,
	}
}

type terminatorKind int

const (
	termEOF terminatorKind = iota
	termCloseTag
	termCloseBlock
	termElse
)

// terminator is whatever ended a run of sibling nodes
type terminator struct {
	kind terminatorKind
	name string
	loc  ast.Loc
	// set for `{{else if ...}}`
	chained *blockHeader
}

// blockHeader is the parsed content of `{{#name params hash as |x|}}`
type blockHeader struct {
	name        string
	call        ast.Call
	blockParams []string
	loc         ast.Loc
}

type parser struct {
	cursor
	file      *util.ParseSourceFile
	errors    []*util.ParseError
	stripNext bool
}

func newParser(source, url string) *parser {
	return &parser{
		cursor: cursor{src: source},
		file:   util.NewParseSourceFile(source, url),
	}
}

func (p *parser) error(start, end int, format string, args ...interface{}) {
	p.errors = append(p.errors, util.NewParseError(p.file.Span(start, end), fmt.Sprintf(format, args...)))
}

func (p *parser) unexpected(term terminator) {
	switch term.kind {
	case termCloseTag:
		p.error(term.loc.Start, term.loc.End, "Unexpected closing tag \"%s\"", term.name)
	case termCloseBlock:
		p.error(term.loc.Start, term.loc.End, "Unexpected closing block \"%s\"", term.name)
	case termElse:
		p.error(term.loc.Start, term.loc.End, "Unexpected {{else}} outside of a block")
	}
}

// parseNodes reads sibling nodes until a closing tag, a block close, an
// `{{else}}` or the end of input, and returns the consumed terminator.
func (p *parser) parseNodes() ([]ast.Node, terminator) {
	var nodes []ast.Node
	for !p.eof() {
		start := p.pos
		switch {
		case p.startsWith("{{"):
			node, term, ok := p.parseMustacheLike(&nodes)
			if ok {
				return nodes, term
			}
			if node != nil {
				nodes = append(nodes, node)
			}
		case p.startsWith("<!--"):
			nodes = append(nodes, p.parseHTMLComment())
		case p.startsWith("</"):
			p.pos += 2
			name := p.consumeWhile(isTagNameChar)
			p.skipWhitespace()
			if !p.attempt(">") {
				p.error(start, p.pos, "Unterminated closing tag \"%s\"", name)
			}
			return nodes, terminator{kind: termCloseTag, name: name, loc: ast.Loc{Start: start, End: p.pos}}
		case p.peek() == '<' && isTagStart(p.peekAt(1)):
			nodes = append(nodes, p.parseElement())
		default:
			if text := p.parseText(); text != nil {
				nodes = append(nodes, text)
			}
		}
	}
	return nodes, terminator{kind: termEOF, loc: ast.Loc{Start: len(p.src), End: len(p.src)}}
}

func (p *parser) parseText() ast.Node {
	start := p.pos
	var sb strings.Builder
	for !p.eof() {
		if p.startsWith("\\{{") {
			// escaped mustache: the braces up to the closing `}}` are text
			p.pos++
			end := strings.Index(p.src[p.pos:], "}}")
			if end < 0 {
				sb.WriteString(p.src[p.pos:])
				p.pos = len(p.src)
				break
			}
			sb.WriteString(p.src[p.pos : p.pos+end+2])
			p.pos += end + 2
			continue
		}
		if p.startsWith("{{") || p.startsWith("<!--") || p.startsWith("</") ||
			(p.peek() == '<' && isTagStart(p.peekAt(1))) {
			break
		}
		sb.WriteByte(p.peek())
		p.pos++
	}
	chars := sb.String()
	loc := ast.Loc{Start: start, End: p.pos}
	if p.stripNext {
		p.stripNext = false
		trimmed := strings.TrimLeft(chars, " \t\r\n\f")
		loc.Start += len(chars) - len(trimmed)
		chars = trimmed
	}
	if chars == "" {
		return nil
	}
	return ast.NewTextNode(chars, loc)
}

// stripTrailing implements `{{~`: whitespace at the end of the preceding text is dropped
func stripTrailing(nodes *[]ast.Node) {
	if len(*nodes) == 0 {
		return
	}
	last, ok := (*nodes)[len(*nodes)-1].(*ast.TextNode)
	if !ok {
		return
	}
	trimmed := strings.TrimRight(last.Chars, " \t\r\n\f")
	if trimmed == "" {
		*nodes = (*nodes)[:len(*nodes)-1]
		return
	}
	loc := last.Location()
	loc.End -= len(last.Chars) - len(trimmed)
	(*nodes)[len(*nodes)-1] = ast.NewTextNode(trimmed, loc)
}

func (p *parser) parseHTMLComment() ast.Node {
	start := p.pos
	p.pos += len("<!--")
	end := strings.Index(p.src[p.pos:], "-->")
	if end < 0 {
		p.error(start, len(p.src), "Unterminated comment")
		value := p.src[p.pos:]
		p.pos = len(p.src)
		return ast.NewCommentStatement(value, false, ast.Loc{Start: start, End: p.pos})
	}
	value := p.src[p.pos : p.pos+end]
	p.pos += end + len("-->")
	return ast.NewCommentStatement(value, false, ast.Loc{Start: start, End: p.pos})
}

// parseMustacheLike handles everything starting with `{{`. When the mustache
// terminates the current sibling list (`{{/x}}`, `{{else}}`) ok is true.
func (p *parser) parseMustacheLike(nodes *[]ast.Node) (ast.Node, terminator, bool) {
	start := p.pos
	p.pos += 2
	trusting := p.attempt("{")
	if p.attempt("~") {
		stripTrailing(nodes)
	}

	switch {
	case p.startsWith("!"):
		return p.parseMustacheComment(start), terminator{}, false
	case p.startsWith("#"):
		p.pos++
		header := p.parseBlockHeader(start)
		block, term := p.parseBlockFrom(header, false)
		return block, term, false
	case p.startsWith("/"):
		p.pos++
		p.skipWhitespace()
		name := p.consumeWhile(isPathChar)
		p.closeMustache(start, false)
		return nil, terminator{kind: termCloseBlock, name: name, loc: ast.Loc{Start: start, End: p.pos}}, true
	}

	save := p.pos
	p.skipWhitespace()
	if p.attempt("else") && (isWhitespace(p.peek()) || p.startsWith("}}") || p.startsWith("~")) {
		p.skipWhitespace()
		if p.startsWith("}}") || p.startsWith("~}}") {
			p.closeMustache(start, false)
			return nil, terminator{kind: termElse, loc: ast.Loc{Start: start, End: p.pos}}, true
		}
		header := p.parseBlockHeader(start)
		return nil, terminator{kind: termElse, loc: header.loc, chained: &header}, true
	}
	p.pos = save

	call := p.parseCall(start)
	p.closeMustache(start, trusting)
	m := ast.NewMustacheStatement(call.Path, call.Params, call.Hash, ast.Loc{Start: start, End: p.pos})
	m.Trusting = trusting
	return m, terminator{}, false
}

func (p *parser) parseMustacheComment(start int) ast.Node {
	p.pos++
	long := p.attempt("--")
	closer := "}}"
	if long {
		closer = "--}}"
	}
	end := strings.Index(p.src[p.pos:], closer)
	if end < 0 {
		p.error(start, len(p.src), "Unterminated comment")
		value := p.src[p.pos:]
		p.pos = len(p.src)
		return ast.NewCommentStatement(value, true, ast.Loc{Start: start, End: p.pos})
	}
	value := p.src[p.pos : p.pos+end]
	p.pos += end + len(closer)
	return ast.NewCommentStatement(strings.TrimSuffix(value, "~"), true, ast.Loc{Start: start, End: p.pos})
}

// closeMustache consumes an optional `~` and the closing braces
func (p *parser) closeMustache(start int, trusting bool) {
	p.skipWhitespace()
	if p.attempt("~") {
		p.stripNext = true
	}
	closer := "}}"
	if trusting {
		closer = "}}}"
	}
	if !p.attempt(closer) {
		p.error(start, p.pos, "Expected \"%s\" to close the mustache", closer)
		if idx := strings.Index(p.src[p.pos:], "}}"); idx >= 0 && !strings.Contains(p.src[p.pos:p.pos+idx], "{{") {
			p.pos += idx + 2
		}
	}
}

func (p *parser) parseBlockHeader(start int) blockHeader {
	call := p.parseCall(start)
	header := blockHeader{name: call.CalleeName(), call: call}
	p.skipWhitespace()
	if p.startsWith("as") && (isWhitespace(p.peekAt(2)) || p.peekAt(2) == '|') {
		p.pos += 2
		header.blockParams = p.parseBlockParams(start)
	}
	p.closeMustache(start, false)
	header.loc = ast.Loc{Start: start, End: p.pos}
	return header
}

func (p *parser) parseBlockParams(start int) []string {
	p.skipWhitespace()
	if !p.attempt("|") {
		p.error(start, p.pos, "Expected \"|\" to open block params")
		return nil
	}
	var params []string
	for {
		p.skipWhitespace()
		if p.eof() {
			p.error(start, p.pos, "Unterminated block params")
			return params
		}
		if p.attempt("|") {
			return params
		}
		name := p.consumeWhile(isPathChar)
		if name == "" {
			p.error(p.pos, p.pos+1, "Invalid character in block params")
			p.pos++
			continue
		}
		params = append(params, name)
	}
}

// parseBlockFrom parses the body of a block after its header. Chained
// `{{else if}}` blocks share the closing mustache of the outermost block,
// which is returned to the caller instead of being validated here.
func (p *parser) parseBlockFrom(header blockHeader, chained bool) (*ast.BlockStatement, terminator) {
	bodyStart := header.loc.End
	body, term := p.parseNodes()
	program := ast.NewBlock(body, header.blockParams, ast.Loc{Start: bodyStart, End: term.loc.Start})

	var inverse *ast.Block
	if term.kind == termElse {
		if term.chained != nil {
			nested, next := p.parseBlockFrom(*term.chained, true)
			inverse = ast.NewBlock([]ast.Node{nested}, nil, nested.Location())
			inverse.Chained = true
			term = next
		} else {
			invStart := term.loc.End
			invBody, next := p.parseNodes()
			inverse = ast.NewBlock(invBody, nil, ast.Loc{Start: invStart, End: next.loc.Start})
			term = next
			if term.kind == termElse {
				p.error(term.loc.Start, term.loc.End, "Unexpected second {{else}} in block \"%s\"", header.name)
				more, after := p.parseNodes()
				inverse.Body = append(inverse.Body, more...)
				term = after
			}
		}
	}

	end := term.loc.End
	if chained {
		end = term.loc.Start
	} else {
		switch term.kind {
		case termCloseBlock:
			if term.name != header.name {
				p.error(term.loc.Start, term.loc.End, "%s doesn't match %s", term.name, header.name)
			}
		case termEOF:
			p.error(header.loc.Start, header.loc.End, "Unclosed block \"%s\"", header.name)
		default:
			p.error(term.loc.Start, term.loc.End, "Unclosed block \"%s\"", header.name)
			if term.kind == termCloseTag {
				// give the tag back to the enclosing element
				p.pos = term.loc.Start
				end = term.loc.Start
			}
		}
	}
	block := ast.NewBlockStatement(header.call.Path, header.call.Params, header.call.Hash, program, inverse,
		ast.Loc{Start: header.loc.Start, End: end})
	return block, term
}

// parseCall reads `path params... key=value...` up to (not including) the closing braces
func (p *parser) parseCall(start int) ast.Call {
	p.skipWhitespace()
	call := ast.Call{Path: p.parseExpression(start)}
	var pairs []*ast.HashPair
	hashStart := -1
	for {
		p.skipWhitespace()
		if p.eof() || p.startsWith("}}") || p.startsWith("~}}") || p.startsWith(")") ||
			(p.startsWith("as") && (isWhitespace(p.peekAt(2)) || p.peekAt(2) == '|')) {
			break
		}
		if key, ok := p.peekHashKey(); ok {
			pairStart := p.pos
			if hashStart < 0 {
				hashStart = pairStart
			}
			p.pos += len(key) + 1
			value := p.parseExpression(start)
			pairs = append(pairs, ast.NewHashPair(key, value, ast.Loc{Start: pairStart, End: p.pos}))
			continue
		}
		before := p.pos
		expr := p.parseExpression(start)
		if p.pos == before {
			p.error(p.pos, p.pos+1, "Unexpected character %q in mustache", p.peek())
			p.pos++
			continue
		}
		call.Params = append(call.Params, expr)
	}
	if len(pairs) > 0 {
		call.Hash = ast.NewHash(pairs, ast.Loc{Start: hashStart, End: pairs[len(pairs)-1].Location().End})
	}
	return call
}

func (p *parser) peekHashKey() (string, bool) {
	i := p.pos
	for i < len(p.src) && isPathChar(p.src[i]) && p.src[i] != '.' {
		i++
	}
	if i > p.pos && i < len(p.src) && p.src[i] == '=' {
		return p.src[p.pos:i], true
	}
	return "", false
}

func (p *parser) parseExpression(start int) ast.Expression {
	p.skipWhitespace()
	exprStart := p.pos
	switch ch := p.peek(); {
	case ch == '(':
		p.pos++
		call := p.parseCall(start)
		p.skipWhitespace()
		if !p.attempt(")") {
			p.error(exprStart, p.pos, "Unterminated sub-expression")
		}
		return ast.NewSubExpression(call.Path, call.Params, call.Hash, ast.Loc{Start: exprStart, End: p.pos})
	case ch == '"' || ch == '\'':
		p.pos++
		end := strings.IndexByte(p.src[p.pos:], ch)
		if end < 0 {
			p.error(exprStart, len(p.src), "Unterminated string literal")
			value := p.src[p.pos:]
			p.pos = len(p.src)
			return ast.NewStringLiteral(value, ast.Loc{Start: exprStart, End: p.pos})
		}
		value := p.src[p.pos : p.pos+end]
		p.pos += end + 1
		return ast.NewStringLiteral(value, ast.Loc{Start: exprStart, End: p.pos})
	case isDigit(ch) || (ch == '-' && isDigit(p.peekAt(1))):
		text := p.consumeWhile(isPathChar)
		if n, err := strconv.ParseFloat(text, 64); err == nil {
			return ast.NewNumberLiteral(n, ast.Loc{Start: exprStart, End: p.pos})
		}
		return ast.NewPathExpression(text, ast.Loc{Start: exprStart, End: p.pos})
	}
	text := p.consumeWhile(isPathChar)
	loc := ast.Loc{Start: exprStart, End: p.pos}
	switch text {
	case "":
		return nil
	case "true", "false":
		return ast.NewBooleanLiteral(text == "true", loc)
	case "null":
		return ast.NewNullLiteral(loc)
	case "undefined":
		return ast.NewUndefinedLiteral(loc)
	}
	return ast.NewPathExpression(text, loc)
}

func (p *parser) parseElement() ast.Node {
	start := p.pos
	p.pos++
	tag := p.consumeWhile(isTagNameChar)
	el := ast.NewElementNode(tag, ast.Loc{Start: start})
	el.TagLoc = ast.Loc{Start: start + 1, End: p.pos}

	for {
		p.skipWhitespace()
		if p.eof() {
			p.error(start, p.pos, "Unterminated start tag \"%s\"", tag)
			el.Loc.End = p.pos
			return el
		}
		if p.attempt("/>") {
			el.SelfClosing = true
			el.Loc.End = p.pos
			return el
		}
		if p.attempt(">") {
			break
		}
		attrStart := p.pos
		switch {
		case p.startsWith("{{"):
			p.pos += 2
			call := p.parseCall(attrStart)
			p.closeMustache(attrStart, false)
			el.Modifiers = append(el.Modifiers, ast.NewElementModifierStatement(call.Path, call.Params, call.Hash,
				ast.Loc{Start: attrStart, End: p.pos}))
		case p.startsWith("as") && (isWhitespace(p.peekAt(2)) || p.peekAt(2) == '|'):
			p.pos += 2
			el.BlockParams = p.parseBlockParams(attrStart)
		default:
			attr := p.parseAttribute()
			if attr == nil {
				p.error(p.pos, p.pos+1, "Unexpected character %q in tag \"%s\"", p.peek(), tag)
				p.pos++
				continue
			}
			el.Attributes = append(el.Attributes, attr)
		}
	}

	if IsVoidElement(tag) {
		el.Loc.End = p.pos
		return el
	}
	children, term := p.parseNodes()
	el.Children = children
	switch {
	case term.kind == termCloseTag && term.name == tag:
		el.Loc.End = term.loc.End
	case term.kind == termCloseTag:
		p.error(term.loc.Start, term.loc.End,
			"Closing tag </%s> did not match last open tag <%s>", term.name, tag)
		el.Loc.End = term.loc.End
	default:
		p.error(start, el.TagLoc.End, "Unclosed element \"%s\"", tag)
		el.Loc.End = term.loc.Start
		if term.kind != termEOF {
			// hand the block terminator back to the enclosing block
			p.pos = term.loc.Start
		}
	}
	return el
}

func (p *parser) parseAttribute() *ast.AttrNode {
	start := p.pos
	name := p.consumeWhile(isAttrNameChar)
	if name == "" {
		return nil
	}
	nameLoc := ast.Loc{Start: start, End: p.pos}
	var value ast.Node
	if p.attempt("=") {
		value = p.parseAttributeValue()
	} else if name != "...attributes" {
		value = ast.NewTextNode("", ast.Loc{Start: p.pos, End: p.pos})
	}
	attr := ast.NewAttrNode(name, value, ast.Loc{Start: start, End: p.pos})
	attr.NameLoc = nameLoc
	return attr
}

func (p *parser) parseAttributeValue() ast.Node {
	start := p.pos
	switch ch := p.peek(); {
	case ch == '"' || ch == '\'':
		p.pos++
		var parts []ast.Node
		textStart := p.pos
		flush := func() {
			if p.pos > textStart {
				parts = append(parts, ast.NewTextNode(p.src[textStart:p.pos], ast.Loc{Start: textStart, End: p.pos}))
			}
		}
		for !p.eof() && p.peek() != ch {
			if p.startsWith("{{") {
				flush()
				mStart := p.pos
				p.pos += 2
				trusting := p.attempt("{")
				call := p.parseCall(mStart)
				p.closeMustache(mStart, trusting)
				parts = append(parts, ast.NewMustacheStatement(call.Path, call.Params, call.Hash, ast.Loc{Start: mStart, End: p.pos}))
				textStart = p.pos
				continue
			}
			p.pos++
		}
		flush()
		if !p.attempt(string(ch)) {
			p.error(start, p.pos, "Unterminated attribute value")
		}
		loc := ast.Loc{Start: start, End: p.pos}
		dynamic := false
		for _, part := range parts {
			if _, ok := part.(*ast.MustacheStatement); ok {
				dynamic = true
			}
		}
		if dynamic {
			return ast.NewConcatStatement(parts, loc)
		}
		return ast.NewTextNode(p.src[start+1:maxInt(start+1, p.pos-1)], loc)
	case p.startsWith("{{"):
		p.pos += 2
		trusting := p.attempt("{")
		call := p.parseCall(start)
		p.closeMustache(start, trusting)
		return ast.NewMustacheStatement(call.Path, call.Params, call.Hash, ast.Loc{Start: start, End: p.pos})
	default:
		text := p.consumeWhile(func(c byte) bool { return !isWhitespace(c) && c != '>' && !(c == '/' && p.peekAt(1) == '>') })
		return ast.NewTextNode(text, ast.Loc{Start: start, End: p.pos})
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
