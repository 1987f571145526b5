package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam-decook/glox/internal/ast"
	"github.com/sam-decook/glox/internal/diag"
	"github.com/sam-decook/glox/internal/parser"
	"github.com/sam-decook/glox/internal/scanner"
)

func parse(t *testing.T, src string) ([]ast.Stmt, *diag.Sink) {
	t.Helper()
	var sink diag.Sink
	toks := scanner.New([]byte(src), &sink).Scan()
	require.False(t, sink.HasErrors(), "scan errors: %v", sink.Diagnostics())
	stmts := parser.New(toks, &sink).Parse()
	return stmts, &sink
}

func TestParseExpressionStatement(t *testing.T) {
	stmts, sink := parse(t, "1 + 2 * 3;")
	require.False(t, sink.HasErrors())
	require.Len(t, stmts, 1)
	es, ok := stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	assert.Equal(t, "(+ 1 (* 2 3))", es.Expr.String())
}

func TestParseVarDecl(t *testing.T) {
	stmts, sink := parse(t, "var a = 1;")
	require.False(t, sink.HasErrors())
	require.Len(t, stmts, 1)
	vd, ok := stmts[0].(*ast.Var)
	require.True(t, ok)
	assert.Equal(t, "a", vd.Name.Lexeme)
}

func TestParseForDesugarsToWhile(t *testing.T) {
	stmts, sink := parse(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.False(t, sink.HasErrors())
	require.Len(t, stmts, 1)

	block, ok := stmts[0].(*ast.Block)
	require.True(t, ok)
	require.Len(t, block.Stmts, 2)
	_, isVar := block.Stmts[0].(*ast.Var)
	assert.True(t, isVar)
	while, ok := block.Stmts[1].(*ast.While)
	require.True(t, ok)

	innerBlock, ok := while.Body.(*ast.Block)
	require.True(t, ok)
	require.Len(t, innerBlock.Stmts, 2)
}

func TestParseClassWithSuperclassAndMethods(t *testing.T) {
	stmts, sink := parse(t, `class B < A { method() { return 1; } }`)
	require.False(t, sink.HasErrors())
	require.Len(t, stmts, 1)

	cd, ok := stmts[0].(*ast.Class)
	require.True(t, ok)
	assert.Equal(t, "B", cd.Name.Lexeme)
	require.NotNil(t, cd.Superclass)
	assert.Equal(t, "A", cd.Superclass.Name.Lexeme)
	require.Len(t, cd.Methods, 1)
	assert.Equal(t, "method", cd.Methods[0].Name.Lexeme)
}

func TestParseGetSetAndThisAndSuper(t *testing.T) {
	stmts, sink := parse(t, `class A { method() { print "A"; } }
class B < A { test() { this.x = 1; super.method(); return this.x; } }`)
	require.False(t, sink.HasErrors())
	require.Len(t, stmts, 2)

	b := stmts[1].(*ast.Class)
	body := b.Methods[0].Body
	require.Len(t, body, 3)

	exprStmt := body[0].(*ast.ExprStmt)
	setExpr, ok := exprStmt.Expr.(*ast.Set)
	require.True(t, ok)
	_, thisOk := setExpr.Object.(*ast.This)
	assert.True(t, thisOk)

	superCall := body[1].(*ast.ExprStmt).Expr.(*ast.Call)
	_, superOk := superCall.Callee.(*ast.Super)
	assert.True(t, superOk)
}

func TestParseCallChainAndPropertyAccess(t *testing.T) {
	stmts, sink := parse(t, "a.b.c(1, 2);")
	require.False(t, sink.HasErrors())
	es := stmts[0].(*ast.ExprStmt)
	call, ok := es.Expr.(*ast.Call)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
	get, ok := call.Callee.(*ast.Get)
	require.True(t, ok)
	assert.Equal(t, "c", get.Name.Lexeme)
}

func TestParseInvalidAssignmentTargetIsReportedButRecovers(t *testing.T) {
	stmts, sink := parse(t, "1 = 2; print 3;")
	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Diagnostics()[0].Message, "Invalid assignment target")
	// the parser still returns both statements: assignment target errors
	// don't discard the parsed expression, just flag it.
	require.Len(t, stmts, 2)
}

func TestParseMissingLeftHandOperandRecovers(t *testing.T) {
	stmts, sink := parse(t, "+ 1; print 2;")
	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Diagnostics()[0].Message, "Missing left-hand operand")
	require.Len(t, stmts, 2)
	_, ok := stmts[1].(*ast.Print)
	assert.True(t, ok)
}

func TestParseErrorRecoverySurfacesMultipleDiagnostics(t *testing.T) {
	// Two separate malformed statements, each missing its initializer
	// expression, should both be reported rather than stopping at the first.
	_, sink := parse(t, "var a = ; var b = ;")
	require.True(t, sink.HasErrors())
	assert.GreaterOrEqual(t, len(sink.Diagnostics()), 2)
}

func TestParseTooManyArguments(t *testing.T) {
	src := "fn("
	for i := 0; i < 256; i++ {
		if i > 0 {
			src += ", "
		}
		src += "1"
	}
	src += ");"

	_, sink := parse(t, src)
	require.True(t, sink.HasErrors())
	assert.Contains(t, sink.Diagnostics()[0].Message, "Can't have more than 255 arguments")
}
