package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	compiler "gxt-go/packages/compiler/src"
	"gxt-go/packages/compiler/src/config"
	"gxt-go/packages/compiler/src/hints"
)

var templateRe = regexp.MustCompile(`<template>([\s\S]*?)</template>`)

// hostExtensions are the module files that embed <template> blocks
var hostExtensions = map[string]bool{".gts": true, ".gjs": true}

type scanStats struct {
	files     int
	templates int
	errors    int
	warnings  int
}

func runScan(args []string) error {
	var cf commonFlags
	var configPath string
	flags := flag.NewFlagSet("scan", flag.ExitOnError)
	cf.register(flags)
	flags.StringVar(&configPath, "config", "", "project configuration (default: "+config.ProjectFileName+" in path, when present)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	root := "."
	if flags.NArg() > 0 {
		root = flags.Arg(0)
	}

	project, err := loadProject(root, configPath)
	if err != nil {
		return err
	}
	if cf.hintsFile == "" {
		cf.hintsFile = project.Hints
	}
	base, err := cf.options()
	if err != nil {
		return err
	}
	if cf.flagsFile == "" {
		projectFlags := project.Flags.Clone()
		projectFlags.WithTypeOptimization = projectFlags.WithTypeOptimization || base.TypeHints != nil
		base.Flags = projectFlags
	}
	base.Bindings = append(base.Bindings, project.Bindings...)

	cache := hints.NewCache(hints.DefaultCacheSize)
	rep := newReporter(os.Stderr, cf.jsonOut)
	var stats scanStats

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); path != root && (name == "node_modules" || name[0] == '.') {
				return filepath.SkipDir
			}
			return nil
		}
		if !hostExtensions[filepath.Ext(path)] {
			return nil
		}
		if rel, err := filepath.Rel(root, path); err == nil && !project.Matches(rel) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		stats.files++
		source := string(data)
		for _, m := range templateRe.FindAllStringSubmatchIndex(source, -1) {
			opts := *base
			opts.FileName = path
			opts.Source = source
			opts.TemplateOffset = m[2]
			opts.TypeHints = cache.Wrap(path, base.TypeHints)

			res := compiler.Compile(source[m[2]:m[3]], &opts)
			rep.report(path, res)
			stats.templates++
			stats.errors += len(res.Errors)
			stats.warnings += len(res.Warnings)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !cf.jsonOut {
		hits, _ := cache.Stats()
		fmt.Fprintf(os.Stderr, "Scan complete: %d templates in %d files, %d errors, %d warnings\n",
			stats.templates, stats.files, stats.errors, stats.warnings)
		if cf.verbose && cache.Len() > 0 {
			fmt.Fprintf(os.Stderr, "type hints: %d analyses, %d reused\n", cache.Len(), hits)
		}
	}
	if stats.errors > 0 {
		return errFailed
	}
	return nil
}

// loadProject reads the project configuration at path, or the default one
// under root. A project without configuration gets the defaults.
func loadProject(root, path string) (*config.ProjectConfig, error) {
	if path == "" {
		candidate := filepath.Join(root, config.ProjectFileName)
		if _, err := os.Stat(candidate); err != nil {
			return &config.ProjectConfig{Flags: config.DefaultFlags()}, nil
		}
		path = candidate
	}
	return config.ParseProjectConfig(path)
}
