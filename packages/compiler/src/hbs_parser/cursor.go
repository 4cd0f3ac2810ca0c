package hbs_parser

import "strings"

// cursor walks the template text byte by byte
type cursor struct {
	src string
	pos int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

func (c *cursor) peek() byte {
	if c.pos >= len(c.src) {
		return 0
	}
	return c.src[c.pos]
}

func (c *cursor) peekAt(n int) byte {
	if c.pos+n >= len(c.src) {
		return 0
	}
	return c.src[c.pos+n]
}

func (c *cursor) startsWith(s string) bool {
	return strings.HasPrefix(c.src[c.pos:], s)
}

// attempt consumes s when the input continues with it
func (c *cursor) attempt(s string) bool {
	if c.startsWith(s) {
		c.pos += len(s)
		return true
	}
	return false
}

func (c *cursor) skipWhitespace() {
	for !c.eof() && isWhitespace(c.peek()) {
		c.pos++
	}
}

// consumeWhile advances while pred holds and returns the consumed text
func (c *cursor) consumeWhile(pred func(byte) bool) string {
	start := c.pos
	for !c.eof() && pred(c.peek()) {
		c.pos++
	}
	return c.src[start:c.pos]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isTagStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == ':' || ch == '@' || ch == '_'
}

func isTagNameChar(ch byte) bool {
	return !isWhitespace(ch) && ch != '>' && ch != '/' && ch != 0 && ch != '{' && ch != '"' && ch != '\'' && ch != '='
}

func isAttrNameChar(ch byte) bool {
	return !isWhitespace(ch) && ch != '>' && ch != '/' && ch != '=' && ch != 0 && ch != '"' && ch != '\'' && ch != '{'
}

// isPathChar reports characters allowed inside a mustache identifier path
func isPathChar(ch byte) bool {
	switch ch {
	case 0, ' ', '\t', '\n', '\r', '\f', '}', ')', '(', '=', '"', '\'', '|', '~':
		return false
	}
	return true
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "command": true,
	"embed": true, "hr": true, "img": true, "input": true, "keygen": true,
	"link": true, "meta": true, "param": true, "source": true, "track": true,
	"wbr": true,
}

// IsVoidElement reports whether the tag never has children or a closing tag
func IsVoidElement(tag string) bool {
	return voidElements[strings.ToLower(tag)]
}
