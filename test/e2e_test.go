// Package test holds end-to-end scenarios driven through the public lox
// package, the same surface cmd/lox uses. Where the teacher's own test/
// harness ran two binaries and diffed their stdout, there is only one
// implementation here, so each case instead asserts directly on stdout,
// stderr, and the reporter's error flags.
package test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loxlang/golox/lox"
)

type result struct {
	stdout          string
	stderr          string
	hadError        bool
	hadRuntimeError bool
}

func exec(source string) result {
	var out, errOut bytes.Buffer
	reporter := lox.NewConsoleReporter(&errOut)
	runner := lox.NewRunner(&out, reporter)
	runner.Run(source)
	return result{
		stdout:          out.String(),
		stderr:          errOut.String(),
		hadError:        reporter.HadError(),
		hadRuntimeError: reporter.HadRuntimeError(),
	}
}

func TestArithmeticExpression(t *testing.T) {
	r := exec(`print 1 + 2;`)
	assert.Equal(t, "3\n", r.stdout)
	assert.False(t, r.hadError)
}

func TestClosureCountsAcrossCalls(t *testing.T) {
	r := exec(`
		fun makeCounter() {
			var i = 0;
			fun next() {
				i = i + 1;
				return i;
			}
			return next;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.False(t, r.hadError)
	require.False(t, r.hadRuntimeError)
	assert.Equal(t, "1\n2\n3\n", r.stdout)
}

func TestForLoopDesugaring(t *testing.T) {
	r := exec(`
		var total = 0;
		for (var i = 1; i <= 5; i = i + 1) {
			total = total + i;
		}
		print total;
	`)
	require.False(t, r.hadRuntimeError)
	assert.Equal(t, "15\n", r.stdout)
}

func TestClassInitMethodAndThis(t *testing.T) {
	r := exec(`
		class Counter {
			init() {
				this.count = 0;
			}
			increment() {
				this.count = this.count + 1;
				return this.count;
			}
		}
		var c = Counter();
		print c.increment();
		print c.increment();
	`)
	require.False(t, r.hadRuntimeError)
	assert.Equal(t, "1\n2\n", r.stdout)
}

func TestListAppendDeleteIndex(t *testing.T) {
	r := exec(`
		var xs = [10, 20, 30];
		xs.append(40);
		xs.delete(1);
		print xs;
		print xs[1];
	`)
	require.False(t, r.hadRuntimeError)
	assert.Equal(t, "[10, 30, 40]\n30\n", r.stdout)
}

func TestDivideByZeroIsRuntimeErrorWithLine(t *testing.T) {
	r := exec(`
		print "start";
		print 10 / 0;
	`)
	assert.Equal(t, "start\n", r.stdout)
	assert.True(t, r.hadRuntimeError)
	assert.Contains(t, r.stderr, "Can not divide by zero.")
	assert.Contains(t, r.stderr, "[line 3]")
}

func TestUnterminatedStringIsScanError(t *testing.T) {
	r := exec(`print "oops;`)
	assert.True(t, r.hadError)
	assert.False(t, r.hadRuntimeError)
	assert.Contains(t, r.stderr, "Unterminated string.")
}

func TestUndefinedVariableAccessIsRuntimeError(t *testing.T) {
	r := exec(`print missing;`)
	assert.True(t, r.hadRuntimeError)
	assert.Contains(t, r.stderr, "Undefined variable 'missing'.")
}
