package main

import (
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/loxlang/golox/lox"
)

// runREPL starts an interactive read-eval-print loop. Each line runs
// through the same Run pipeline a file would, but against a Runner that
// keeps its interpreter and globals alive across lines — so a variable
// declared on one line is visible on the next, the way a REPL user expects.
//
// Grounded in akashmaji946-go-mix's repl.Start: readline for history and
// line editing, colored banner, and a reporter reset between lines so one
// bad line doesn't wedge the session (spec §7: runtime errors "do not
// affect subsequent independent REPL entries").
func runREPL() {
	if !*noPrompt {
		bannerColor.Println(banner)
	}

	rl, err := readline.New("lox> ")
	if err != nil {
		errorColor.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	reporter := lox.NewConsoleReporter(os.Stderr)
	runner := lox.NewRunner(os.Stdout, reporter)

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			bannerColor.Println("bye")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		reporter.Reset()
		runner.Run(line)
	}
}
