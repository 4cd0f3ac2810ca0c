package util

import (
	"sort"
	"unicode/utf8"
)

// LineIndex converts byte offsets into zero-based line and column pairs.
// Columns are UTF-16 code units, which is what source maps and JavaScript
// tooling count in.
type LineIndex struct {
	content    string
	lineStarts []int
}

// NewLineIndex creates a LineIndex for the given content
func NewLineIndex(content string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{content: content, lineStarts: starts}
}

// LineCount returns the number of lines (a trailing newline opens a new empty line)
func (li *LineIndex) LineCount() int {
	return len(li.lineStarts)
}

// LineStart returns the byte offset where the given line begins
func (li *LineIndex) LineStart(line int) int {
	if line < 0 {
		return 0
	}
	if line >= len(li.lineStarts) {
		return len(li.content)
	}
	return li.lineStarts[line]
}

// Position returns the zero-based line and UTF-16 column of a byte offset
func (li *LineIndex) Position(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(li.content) {
		offset = len(li.content)
	}
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > offset
	}) - 1
	return line, utf16Len(li.content[li.lineStarts[line]:offset])
}

// Offset is the inverse of Position. Columns past the end of the line clamp
// to the line end.
func (li *LineIndex) Offset(line, col int) int {
	if line >= len(li.lineStarts) {
		return len(li.content)
	}
	start := li.LineStart(line)
	end := len(li.content)
	if line+1 < len(li.lineStarts) {
		end = li.lineStarts[line+1] - 1
	}
	units := 0
	for i, r := range li.content[start:end] {
		if units >= col {
			return start + i
		}
		units += runeUnits(r)
	}
	return end
}

func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		n += runeUnits(r)
	}
	return n
}

// runeUnits is the number of UTF-16 code units encoding r
func runeUnits(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
