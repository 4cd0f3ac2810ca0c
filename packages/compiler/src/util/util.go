package util

import (
	"regexp"
	"strings"
)

var (
	singleQuoteEscapeStringRe = regexp.MustCompile("'|\\\\|\n|\r|\u2028|\u2029|\\$")
	legalIdentifierRe         = regexp.MustCompile(`(?i)^[$A-Z_][0-9A-Z_$]*$`)
	nonWordRe                 = regexp.MustCompile(`[^0-9A-Za-z_$]`)
	dashCaseRegexp            = regexp.MustCompile(`-+([a-z0-9])`)
)

// reservedWords cannot be used as bare identifiers or property names without quoting
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "let": true, "static": true, "await": true,
}

// EscapeString is the one routine every emitted string literal goes through.
// It returns the value wrapped in single quotes.
func EscapeString(input string, escapeDollar bool) string {
	body := singleQuoteEscapeStringRe.ReplaceAllStringFunc(input, func(match string) string {
		switch match {
		case "$":
			if escapeDollar {
				return "\\$"
			}
			return "$"
		case "\n":
			return "\\n"
		case "\r":
			return "\\r"
		case "\u2028":
			return "\\u2028"
		case "\u2029":
			return "\\u2029"
		default:
			return "\\" + match
		}
	})
	return "'" + body + "'"
}

// IsLegalIdentifier reports whether name can be emitted as a bare JS identifier
func IsLegalIdentifier(name string) bool {
	return legalIdentifierRe.MatchString(name) && !reservedWords[name]
}

// IsLegalPropertyName reports whether name can follow a `.` in a member access
func IsLegalPropertyName(name string) bool {
	return legalIdentifierRe.MatchString(name)
}

// SanitizeIdentifier replaces every character that is not legal in a JS identifier with `_`
func SanitizeIdentifier(name string) string {
	out := nonWordRe.ReplaceAllString(name, "_")
	if out == "" {
		return "_"
	}
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}
	if reservedWords[out] {
		out = "_" + out
	}
	return out
}

// DashCaseToCamelCase converts a dash-case string to camelCase
func DashCaseToCamelCase(input string) string {
	return dashCaseRegexp.ReplaceAllStringFunc(input, func(match string) string {
		parts := dashCaseRegexp.FindStringSubmatch(match)
		if len(parts) > 1 {
			return strings.ToUpper(parts[1])
		}
		return match
	})
}

// IsWhitespaceOnly reports whether s consists only of HTML whitespace
func IsWhitespaceOnly(s string) bool {
	return strings.TrimLeft(s, " \t\n\r\f") == ""
}
