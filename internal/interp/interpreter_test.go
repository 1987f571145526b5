package interp_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam-decook/glox/internal/diag"
	"github.com/sam-decook/glox/internal/interp"
	"github.com/sam-decook/glox/internal/parser"
	"github.com/sam-decook/glox/internal/resolver"
	"github.com/sam-decook/glox/internal/scanner"
)

// run scans, parses, resolves and interprets src, returning everything
// written to stdout and the first runtime error (if any). It mirrors
// the pipeline cmd/lox wires up, so these tests exercise the whole
// front-to-back path rather than poking the evaluator in isolation.
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	sink := &diag.Sink{}
	toks := scanner.New([]byte(src), sink).Scan()
	require.False(t, sink.HasErrors(), "scan errors: %v", sink.Diagnostics())

	p := parser.New(toks, sink)
	stmts := p.Parse()
	require.False(t, sink.HasErrors(), "parse errors: %v", sink.Diagnostics())

	res := resolver.New(sink)
	locals := res.Resolve(stmts)
	require.False(t, sink.HasErrors(), "resolve errors: %v", sink.Diagnostics())

	var out bytes.Buffer
	in := interp.New(&out)
	err := in.Interpret(stmts, locals)
	return out.String(), err
}

func TestInterpretArithmeticAndPrecedence(t *testing.T) {
	out, err := run(t, `print 2 + 3 * 4;`)
	require.NoError(t, err)
	assert.Equal(t, "14\n", out)
}

func TestInterpretStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestInterpretComparisonAndEquality(t *testing.T) {
	out, err := run(t, `
		print 1 < 2;
		print 1 == 1.0;
		print "a" == "a";
		print nil == nil;
		print nil == false;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\ntrue\ntrue\ntrue\nfalse\n", out)
}

func TestInterpretTruthiness(t *testing.T) {
	out, err := run(t, `
		if (0) print "zero is truthy"; else print "zero is falsy";
		if ("") print "empty string is truthy"; else print "empty string is falsy";
		if (nil) print "nil is truthy"; else print "nil is falsy";
	`)
	require.NoError(t, err)
	assert.Equal(t, "zero is truthy\nempty string is truthy\nnil is falsy\n", out)
}

func TestInterpretDivisionByZero(t *testing.T) {
	out, err := run(t, `
		print 1 / 0;
		print -1 / 0;
		print 0 / 0;
	`)
	require.NoError(t, err)
	assert.Equal(t, "inf\n-inf\nNaN\n", out)
}

func TestInterpretNumberFormatting(t *testing.T) {
	out, err := run(t, `
		print 3.0;
		print 3.5;
		print 10;
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n3.5\n10\n", out)
}

func TestInterpretRuntimeTypeError(t *testing.T) {
	_, err := run(t, `print "a" - 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be numbers.")
}

func TestInterpretForLoopDesugarsToWhile(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

// TestInterpretClosureCapture is the canonical counter closure: each
// call to the returned function shares the one "i" cell captured from
// makeCounter's frame.
func TestInterpretClosureCapture(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				print i;
			}
			return count;
		}
		var counter = makeCounter();
		counter();
		counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestInterpretClassInitAndMethod(t *testing.T) {
	out, err := run(t, `
		class Cake {
			init(flavor) {
				this.flavor = flavor;
			}
			taste() {
				print "The " + this.flavor + " cake is delicious!";
			}
		}
		var cake = Cake("chocolate");
		cake.taste();
	`)
	require.NoError(t, err)
	assert.Equal(t, "The chocolate cake is delicious!\n", out)
}

// TestInterpretInheritanceAndSuper walks a three-level class chain
// (A -> B -> C) where C's greet() calls super.greet(), which runs B's
// greet(), which in turn calls super.greet() on A.
func TestInterpretInheritanceAndSuper(t *testing.T) {
	out, err := run(t, `
		class A {
			greet() {
				print "A";
			}
		}
		class B < A {
			greet() {
				super.greet();
				print "B";
			}
		}
		class C < B {
			greet() {
				super.greet();
				print "C";
			}
		}
		C().greet();
	`)
	require.NoError(t, err)
	assert.Equal(t, "A\nB\nC\n", out)
}

func TestInterpretUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print nope;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'nope'.")
}

func TestInterpretCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var x = 1;
		x();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes.")
}

func TestInterpretWrongArityIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestInterpretSuperclassMustBeClassIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		var NotAClass = 1;
		class Bad < NotAClass {}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Superclass must be a class.")
}

func TestInterpretEvaluationOrderIsLeftToRight(t *testing.T) {
	out, err := run(t, `
		fun trace(n) {
			print n;
			return n;
		}
		print trace(1) + trace(2);
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpretClockBuiltinUsesInjectedSource(t *testing.T) {
	fixed := time.Unix(100, 0)
	var out bytes.Buffer
	in := interp.New(&out, interp.WithClock(func() time.Time { return fixed }))

	sink := &diag.Sink{}
	toks := scanner.New([]byte(`print clock();`), sink)
	stmts := parser.New(toks.Scan(), sink).Parse()
	locals := resolver.New(sink).Resolve(stmts)
	require.False(t, sink.HasErrors())

	require.NoError(t, in.Interpret(stmts, locals))
	assert.True(t, strings.HasPrefix(out.String(), "100"))
}
