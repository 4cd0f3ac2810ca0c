package main

import (
	"fmt"
	"os"

	"gxt-go/packages/compiler/src/runtime"
)

func usage() {
	fmt.Printf(`gxtc - template compiler (runtime contract v%d)
Usage: gxtc <command> [flags] [args]

Commands:
  compile [flags] <file>...   Compile .hbs templates (or AST JSON with -ast) to .js
  scan [flags] <path>         Compile every <template> block of .gts/.gjs files under path
  help                        Show help

Run 'gxtc <command> -h' for the flags of a command.
`, runtime.Version)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	var err error
	switch os.Args[1] {
	case "help", "-h", "--help":
		usage()
		return
	case "compile":
		err = runCompile(os.Args[2:])
	case "scan":
		err = runScan(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gxtc: %v\n", err)
		os.Exit(1)
	}
}
