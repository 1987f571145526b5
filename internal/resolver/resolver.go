// Package resolver performs a single static pass over the parsed
// program: for every variable-use expression it computes the
// scope-distance at which its binding lives, and it enforces the
// static rules around self-initializers, redeclaration, and misuse of
// this/super/return. It never mutates the AST and never evaluates
// anything; violations are reported through a shared sink and walking
// continues, rather than exiting on the first one.
package resolver

import (
	"github.com/sam-decook/glox/internal/ast"
	"github.com/sam-decook/glox/internal/diag"
	"github.com/sam-decook/glox/internal/token"
)

type functionType int

const (
	noFunction functionType = iota
	regularFunction
	initializerFunction
	methodFunction
)

type classType int

const (
	noClass classType = iota
	inClass
	inSubclass
)

// scope maps a name to whether it has merely been declared or fully
// defined. Declared-but-not-defined is how "var a = a;" inside its own
// initializer is caught.
type scope map[string]bool

// Resolver computes the resolution table: expression identity (the
// node's own pointer) to scope distance.
type Resolver struct {
	locals      map[ast.Expr]int
	scopes      []scope
	currentFn   functionType
	currentCls  classType
	sink        *diag.Sink
}

// New creates a Resolver reporting diagnostics to sink.
func New(sink *diag.Sink) *Resolver {
	return &Resolver{locals: make(map[ast.Expr]int), sink: sink}
}

// Resolve walks the statement list and returns the completed
// expression-to-depth table. Missing entries mean "resolve globally".
func (r *Resolver) Resolve(stmts []ast.Stmt) map[ast.Expr]int {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, scope{}) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()

	case *ast.Class:
		r.resolveClass(s)

	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)

	case *ast.Function:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, regularFunction)

	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}

	case *ast.Print:
		r.resolveExpr(s.Expr)

	case *ast.Return:
		if r.currentFn == noFunction {
			r.report(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFn == initializerFunction {
				r.report(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}

	case *ast.Var:
		r.declare(s.Name)
		if s.Initializer != nil {
			r.resolveExpr(s.Initializer)
		}
		r.define(s.Name)

	case *ast.While:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Body)

	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) resolveClass(c *ast.Class) {
	enclosingClass := r.currentCls
	r.currentCls = inClass

	r.declare(c.Name)
	r.define(c.Name)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.report(c.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentCls = inSubclass
		r.resolveExpr(c.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, m := range c.Methods {
		fnType := methodFunction
		if m.Name.Lexeme == "init" {
			fnType = initializerFunction
		}
		r.resolveFunction(m, fnType)
	}

	r.endScope()
	if c.Superclass != nil {
		r.endScope()
	}

	r.currentCls = enclosingClass
}

func (r *Resolver) resolveFunction(fn *ast.Function, typ functionType) {
	enclosingFn := r.currentFn
	r.currentFn = typ

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFn = enclosingFn
}

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)

	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}

	case *ast.Get:
		r.resolveExpr(e.Object)

	case *ast.Grouping:
		r.resolveExpr(e.Inner)

	case *ast.Literal:
		// nothing to resolve

	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)

	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)

	case *ast.Super:
		switch r.currentCls {
		case noClass:
			r.report(e.Keyword, "Can't use 'super' outside of a class.")
		case inClass:
			r.report(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.This:
		if r.currentCls == noClass {
			r.report(e.Keyword, "Can't use 'this' outside of a class.")
		}
		r.resolveLocal(e, e.Keyword)

	case *ast.Unary:
		r.resolveExpr(e.Right)

	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
				r.report(e.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name)

	default:
		panic("resolver: unhandled expression type")
	}
}

// declare inserts name into the innermost scope as Declared. It is a
// no-op at global scope, where redeclaration is legal.
func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	s := r.scopes[len(r.scopes)-1]
	if _, ok := s[name.Lexeme]; ok {
		r.report(name, "Already a variable with this name in this scope.")
	}
	s[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal scans scopes innermost-outward; if found, records the
// scope distance (0 = innermost) keyed by the expression's own
// identity. An unresolved name is left out of the table entirely, and
// the evaluator falls back to the global environment for it.
func (r *Resolver) resolveLocal(expr ast.Expr, name token.Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) report(tok token.Token, msg string) {
	r.sink.Report(diag.Resolve, tok, msg)
}
