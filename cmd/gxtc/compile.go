package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	compiler "gxt-go/packages/compiler/src"
	"gxt-go/packages/compiler/src/ast"
)

type compileFlags struct {
	commonFlags
	out      string
	writeMap bool
	name     string
	astIn    bool
	source   string
}

func runCompile(args []string) error {
	var cf compileFlags
	fs := flag.NewFlagSet("compile", flag.ExitOnError)
	cf.register(fs)
	fs.StringVar(&cf.out, "o", "", "output file (only with a single input; default: input with .js extension, - for stdout)")
	fs.BoolVar(&cf.writeMap, "map", false, "write a .js.map next to the output and link it")
	fs.StringVar(&cf.name, "name", "", "file name reported in diagnostics and the source map")
	fs.BoolVar(&cf.astIn, "ast", false, "inputs are Glimmer AST JSON documents")
	fs.StringVar(&cf.source, "src", "", "template text the -ast input was parsed from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("compile: no input files")
	}
	if cf.out != "" && fs.NArg() > 1 {
		return fmt.Errorf("compile: -o needs a single input, got %d", fs.NArg())
	}

	base, err := cf.options()
	if err != nil {
		return err
	}
	if cf.writeMap {
		base.Flags.WithSourceMap = true
	}
	rep := newReporter(os.Stderr, cf.jsonOut)
	failed := false
	for _, path := range fs.Args() {
		opts := *base
		opts.FileName = path
		if cf.name != "" {
			opts.FileName = cf.name
		}
		res, err := cf.compileFile(path, &opts)
		if err != nil {
			return err
		}
		rep.report(opts.FileName, res)
		if res.Err() != nil {
			failed = true
			continue
		}
		if err := cf.write(path, res); err != nil {
			return err
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

func (cf *compileFlags) compileFile(path string, opts *compiler.Options) (*compiler.CompileResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	if !cf.astIn {
		return compiler.Compile(string(data), opts), nil
	}

	var template string
	if cf.source != "" {
		text, err := os.ReadFile(cf.source)
		if err != nil {
			return nil, fmt.Errorf("reading template source: %w", err)
		}
		template = string(text)
		if cf.name == "" {
			opts.FileName = cf.source
		}
	}
	tpl, err := ast.FromJSON(data, template)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return compiler.CompileAST(tpl, template, opts), nil
}

// write stores the generated code and, with -map, its source map
func (cf *compileFlags) write(input string, res *compiler.CompileResult) error {
	if cf.out == "-" {
		_, err := fmt.Fprintln(os.Stdout, res.Code)
		return err
	}
	out := cf.out
	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + ".js"
	}
	code := res.Code + "\n"
	if cf.writeMap && res.SourceMap != nil {
		res.SourceMap.File = filepath.Base(out)
		data, err := res.SourceMap.Marshal()
		if err != nil {
			return err
		}
		mapFile := out + ".map"
		if err := os.WriteFile(mapFile, data, 0o644); err != nil {
			return fmt.Errorf("writing source map: %w", err)
		}
		code += "//# sourceMappingURL=" + filepath.Base(mapFile) + "\n"
	}
	if err := os.WriteFile(out, []byte(code), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
