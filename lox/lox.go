// Package lox is the embedding surface for the interpreter core: it wires
// together the scanner, parser, resolver, and interpreter behind a single
// Run call and an ErrorReporter interface, exactly the boundary spec §6
// describes. Nothing in this package touches a terminal, a file, or a REPL
// loop — those are cmd/lox's job.
package lox

import (
	"io"
	"strconv"

	"github.com/loxlang/golox/internal/ast"
	"github.com/loxlang/golox/internal/interpreter"
	"github.com/loxlang/golox/internal/parser"
	"github.com/loxlang/golox/internal/resolver"
	"github.com/loxlang/golox/internal/scanner"
)

// ErrorReporter accepts every diagnostic the pipeline can produce: scan,
// parse, and resolve errors all carry a line and a message; a runtime error
// additionally carries the interpreter.RuntimeError that produced it. It
// also tracks whether any error of each severity has been seen, so a host
// (the CLI, a test) can decide an exit code without re-deriving it.
type ErrorReporter interface {
	ReportError(line int, message string)
	ReportRuntimeError(err *interpreter.RuntimeError)
	HadError() bool
	HadRuntimeError() bool
}

// ConsoleReporter is the default ErrorReporter: it writes "[line N] Error: msg"
// to Stderr for scan/parse/resolve errors, and "msg\n[line N]" for a runtime
// error, matching the convention set by the book this interpreter descends
// from and carried through the teacher's own error formatting.
type ConsoleReporter struct {
	Stderr io.Writer

	hadError        bool
	hadRuntimeError bool
}

// NewConsoleReporter creates a ConsoleReporter writing to stderr.
func NewConsoleReporter(stderr io.Writer) *ConsoleReporter {
	return &ConsoleReporter{Stderr: stderr}
}

func (r *ConsoleReporter) ReportError(line int, message string) {
	r.hadError = true
	io.WriteString(r.Stderr, formatLineError(line, message))
}

func (r *ConsoleReporter) ReportRuntimeError(err *interpreter.RuntimeError) {
	r.hadRuntimeError = true
	io.WriteString(r.Stderr, err.Message+"\n[line "+strconv.Itoa(err.Token.Line)+"]\n")
}

func (r *ConsoleReporter) HadError() bool        { return r.hadError }
func (r *ConsoleReporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Reset clears both error flags, allowing a single reporter to be reused
// across independent REPL entries (spec §7: "Runtime errors ... do not
// affect subsequent independent REPL entries.").
func (r *ConsoleReporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}

func formatLineError(line int, message string) string {
	return "[line " + strconv.Itoa(line) + "] Error: " + message + "\n"
}

// Runner holds interpreter state across multiple Run calls, so globals and
// a REPL's variable bindings persist between lines the way a REPL user
// expects.
type Runner struct {
	interp   *interpreter.Interpreter
	Reporter ErrorReporter
}

// NewRunner creates a Runner that writes `print` output to stdout and
// reports diagnostics to reporter.
func NewRunner(stdout io.Writer, reporter ErrorReporter) *Runner {
	return &Runner{interp: interpreter.New(stdout), Reporter: reporter}
}

// Run executes source through the full pipeline: scan, parse, resolve,
// interpret. Any phase that reports an error halts the remaining phases —
// scan/parse/resolve errors prevent interpretation entirely (spec §7).
func (rn *Runner) Run(source string) {
	rep := &phaseAdapter{ErrorReporter: rn.Reporter}

	toks := scanner.New(source, rep).Scan()
	if rep.HadError() {
		return
	}

	stmts := parser.New(toks, rep).Parse()
	if rep.HadError() {
		return
	}

	locals := resolver.New(rep).Resolve(stmts)
	if rep.HadError() {
		return
	}

	if err := rn.interp.Interpret(stmts, locals); err != nil {
		rn.Reporter.ReportRuntimeError(err)
	}
}

// phaseAdapter satisfies scanner.ErrorReporter, parser.ErrorReporter, and
// resolver.ErrorReporter (all the same one-method shape) by forwarding to
// the embedded ErrorReporter.
type phaseAdapter struct {
	ErrorReporter
}

func (p *phaseAdapter) Error(line int, message string) {
	p.ReportError(line, message)
}

// Parse exposes the parser directly for tooling (e.g. a future formatter)
// that wants the AST without running it.
func Parse(source string, reporter ErrorReporter) []ast.Stmt {
	rep := &phaseAdapter{ErrorReporter: reporter}
	toks := scanner.New(source, rep).Scan()
	if rep.HadError() {
		return nil
	}
	return parser.New(toks, rep).Parse()
}
