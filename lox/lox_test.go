package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSource(t *testing.T, source string) (stdout, stderr string, reporter *ConsoleReporter) {
	t.Helper()
	var out, errOut bytes.Buffer
	reporter = NewConsoleReporter(&errOut)
	runner := NewRunner(&out, reporter)
	runner.Run(source)
	return out.String(), errOut.String(), reporter
}

func TestRunPrintsExpressionResult(t *testing.T) {
	out, _, rep := runSource(t, `print 1 + 2;`)
	assert.Equal(t, "3\n", out)
	assert.False(t, rep.HadError())
	assert.False(t, rep.HadRuntimeError())
}

func TestRunParseErrorStopsBeforeInterpreting(t *testing.T) {
	out, stderr, rep := runSource(t, `print ;`)
	assert.Empty(t, out)
	assert.True(t, rep.HadError())
	assert.False(t, rep.HadRuntimeError())
	assert.Contains(t, stderr, "Error:")
}

func TestRunRuntimeErrorReportsAndHaltsRemainingStatements(t *testing.T) {
	out, stderr, rep := runSource(t, `
		print "before";
		print 1 / 0;
		print "after";
	`)
	assert.Equal(t, "before\n", out, "statements after the runtime error must not execute")
	assert.True(t, rep.HadRuntimeError())
	assert.Contains(t, stderr, "Can not divide by zero.")
}

func TestRunnerPersistsGlobalsAcrossCalls(t *testing.T) {
	var out bytes.Buffer
	reporter := NewConsoleReporter(&bytes.Buffer{})
	runner := NewRunner(&out, reporter)

	runner.Run(`var x = 1;`)
	runner.Run(`x = x + 1;`)
	runner.Run(`print x;`)

	assert.Equal(t, "2\n", out.String())
}

func TestReporterResetClearsErrorFlagsForIndependentEntries(t *testing.T) {
	var out bytes.Buffer
	var errOut bytes.Buffer
	reporter := NewConsoleReporter(&errOut)
	runner := NewRunner(&out, reporter)

	runner.Run(`print 1 / 0;`)
	require.True(t, reporter.HadRuntimeError())

	reporter.Reset()
	assert.False(t, reporter.HadRuntimeError())

	runner.Run(`print "recovered";`)
	assert.False(t, reporter.HadRuntimeError())
	assert.Contains(t, out.String(), "recovered")
}

func TestParseExposesASTWithoutRunning(t *testing.T) {
	var errOut bytes.Buffer
	reporter := NewConsoleReporter(&errOut)
	stmts := Parse(`1 + 2;`, reporter)
	assert.Len(t, stmts, 1)
	assert.False(t, reporter.HadError())
}
