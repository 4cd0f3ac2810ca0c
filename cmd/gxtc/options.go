package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	compiler "gxt-go/packages/compiler/src"
	"gxt-go/packages/compiler/src/config"
	"gxt-go/packages/compiler/src/hints"
)

// errFailed is returned when templates compiled with errors; the diagnostics
// have already been printed
var errFailed = errors.New("compilation failed")

// commonFlags are shared by every command that compiles
type commonFlags struct {
	flagsFile string
	bindings  string
	hintsFile string
	jsonOut   bool
	verbose   bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.flagsFile, "flags", "", "JSON file with compiler flags")
	fs.StringVar(&c.bindings, "bindings", "", "comma separated names in scope of the template (Capitalized names are components)")
	fs.StringVar(&c.hintsFile, "hints", "", "JSON file with type hints; enables WITH_TYPE_OPTIMIZATION")
	fs.BoolVar(&c.jsonOut, "json", false, "print diagnostics as JSON lines")
	fs.BoolVar(&c.verbose, "v", false, "verbose logging")
}

// options builds the compile options shared by every template of a run
func (c *commonFlags) options() (*compiler.Options, error) {
	flags := config.DefaultFlags()
	if c.flagsFile != "" {
		data, err := os.ReadFile(c.flagsFile)
		if err != nil {
			return nil, fmt.Errorf("reading flags: %w", err)
		}
		if flags, err = config.ParseFlags(data, flags); err != nil {
			return nil, err
		}
	}

	opts := &compiler.Options{Flags: flags, Logger: c.logger()}
	for _, name := range strings.Split(c.bindings, ",") {
		if name = strings.TrimSpace(name); name != "" {
			opts.Bindings = append(opts.Bindings, name)
		}
	}

	if c.hintsFile != "" {
		data, err := os.ReadFile(c.hintsFile)
		if err != nil {
			return nil, fmt.Errorf("reading type hints: %w", err)
		}
		th, err := hints.FromJSON(data)
		if err != nil {
			return nil, err
		}
		flags.WithTypeOptimization = true
		opts.TypeHints = func(string, string) *hints.TypeHints { return th }
	}
	return opts, nil
}

func (c *commonFlags) logger() *slog.Logger {
	level := slog.LevelError
	if c.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
