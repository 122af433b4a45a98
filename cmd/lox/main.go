// Command lox is the CLI entry point for the interpreter: with zero
// arguments it starts an interactive REPL, with one argument it runs the
// file at that path, and with more it prints usage and exits 64. This is
// the "external collaborator" spec §1 keeps out of the core: it owns file
// reading, the REPL read loop, and error display, and nothing else.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/loxlang/golox/lox"
)

// noPrompt suppresses the REPL banner, grounded in the teacher's own
// flag.Bool("no-fail-stderr", ...) pattern for a single boolean CLI switch.
var noPrompt = flag.Bool("no-prompt", false, "Suppress the REPL banner (for scripted/piped input).")

func main() {
	flag.Parse()
	args := flag.Args()

	switch len(args) {
	case 0:
		runREPL()
	case 1:
		runFile(args[0])
	default:
		fmt.Fprintln(os.Stderr, "Usage: lox [-no-prompt] [script]")
		os.Exit(64)
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	reporter := lox.NewConsoleReporter(os.Stderr)
	runner := lox.NewRunner(os.Stdout, reporter)
	runner.Run(string(source))

	switch {
	case reporter.HadRuntimeError():
		os.Exit(70)
	case reporter.HadError():
		os.Exit(65)
	}
}

var (
	bannerColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

const banner = `golox ` + version + ` — a tree-walking interpreter
type a statement (ending in ';'); Ctrl-D to exit`

const version = "0.1.0"
