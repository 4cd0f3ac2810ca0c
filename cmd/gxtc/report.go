package main

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/term"

	compiler "gxt-go/packages/compiler/src"
	"gxt-go/packages/compiler/src/util"
)

const (
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// diagnostic is the -json form of one error or warning
type diagnostic struct {
	File    string `json:"file"`
	Level   string `json:"level"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type reporter struct {
	w     io.Writer
	color bool
	enc   *jsoniter.Encoder
}

func newReporter(w *os.File, jsonOut bool) *reporter {
	r := &reporter{w: w}
	if jsonOut {
		r.enc = jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	} else {
		r.color = term.IsTerminal(int(w.Fd()))
	}
	return r
}

func (r *reporter) report(file string, res *compiler.CompileResult) {
	for _, e := range res.Errors {
		r.print(file, "error", e)
	}
	for _, w := range res.Warnings {
		r.print(file, "warning", w)
	}
}

func (r *reporter) print(file, level string, e *util.ParseError) {
	if r.enc != nil {
		d := diagnostic{File: file, Level: level, Message: e.Msg}
		if e.Span != nil && e.Span.Start != nil {
			d.Line, d.Column = e.Span.Start.Line+1, e.Span.Start.Col+1
		}
		// a failed write to stderr has nowhere to be reported
		_ = r.enc.Encode(d)
		return
	}
	label := level
	if r.color {
		c := colorYellow
		if level == "error" {
			c = colorRed
		}
		label = c + level + colorReset
	}
	fmt.Fprintf(r.w, "%s: %s\n", label, e.String())
}
