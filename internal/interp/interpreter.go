// Package interp is the tree-walking evaluator: it executes a resolved
// statement list over lexical environments, with first-class
// functions/closures, single-inheritance classes, and bound methods.
// Runtime values, the environment chain, and the evaluator itself live
// in one package because they are mutually recursive — a Function's
// Call method must drive the very Interpreter that holds it.
package interp

import (
	"fmt"
	"io"
	"time"

	"github.com/sam-decook/glox/internal/ast"
	"github.com/sam-decook/glox/internal/token"
)

// Interpreter executes an already-resolved statement list.
type Interpreter struct {
	globals *Environment
	env     *Environment
	locals  map[ast.Expr]int
	out     io.Writer
	clock   ClockSource
}

// Option configures an Interpreter at construction time.
type Option func(*Interpreter)

// WithClock overrides the wall-clock source the clock() builtin reads,
// for deterministic tests.
func WithClock(clock ClockSource) Option {
	return func(in *Interpreter) { in.clock = clock }
}

// New creates an Interpreter that writes "print" output to out, rather
// than a global writer.
func New(out io.Writer, opts ...Option) *Interpreter {
	globals := NewEnvironment(nil)
	in := &Interpreter{
		globals: globals,
		env:     globals,
		out:     out,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(in)
	}
	defineBuiltins(globals, in.clock)
	return in
}

// Interpret runs a resolved statement list against the resolution
// table the resolver produced. It returns the first runtime error
// encountered, if any; earlier print side effects already happened.
func (in *Interpreter) Interpret(stmts []ast.Stmt, locals map[ast.Expr]int) error {
	in.locals = locals
	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) exec(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Block:
		return in.execBlock(s.Stmts, NewEnvironment(in.env))

	case *ast.Class:
		return in.execClass(s)

	case *ast.ExprStmt:
		_, err := in.eval(s.Expr)
		return err

	case *ast.Function:
		fn := &Function{Decl: s, Closure: in.env}
		in.env.Define(s.Name.Lexeme, fn)
		return nil

	case *ast.If:
		cond, err := in.eval(s.Cond)
		if err != nil {
			return err
		}
		if IsTruthy(cond) {
			return in.exec(s.Then)
		}
		if s.Else != nil {
			return in.exec(s.Else)
		}
		return nil

	case *ast.Print:
		v, err := in.eval(s.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, v.String())
		return nil

	case *ast.Return:
		var value Value = NilValue
		if s.Value != nil {
			v, err := in.eval(s.Value)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{Value: value}

	case *ast.Var:
		value := Value(NilValue)
		if s.Initializer != nil {
			v, err := in.eval(s.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		in.env.Define(s.Name.Lexeme, value)
		return nil

	case *ast.While:
		for {
			cond, err := in.eval(s.Cond)
			if err != nil {
				return err
			}
			if !IsTruthy(cond) {
				return nil
			}
			if err := in.exec(s.Body); err != nil {
				return err
			}
		}

	default:
		panic("interp: unhandled statement type")
	}
}

// execBlock runs stmts against env, restoring the interpreter's
// previous environment on every exit path: normal completion, an early
// return, or a runtime error.
func (in *Interpreter) execBlock(stmts []ast.Stmt, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, s := range stmts {
		if err := in.exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) execClass(c *ast.Class) error {
	var superclass *Class
	if c.Superclass != nil {
		v, err := in.eval(c.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*Class)
		if !ok {
			return runtimeErr(c.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	// Declare the name first (bound to nil) so the class body, and any
	// method, can refer to the class by name recursively.
	in.env.Define(c.Name.Lexeme, NilValue)

	classEnv := in.env
	if superclass != nil {
		classEnv = NewEnvironment(in.env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(c.Methods))
	for _, m := range c.Methods {
		methods[m.Name.Lexeme] = &Function{
			Decl:          m,
			Closure:       classEnv,
			IsInitializer: m.Name.Lexeme == "init",
		}
	}

	class := &Class{ClassName: c.Name.Lexeme, Superclass: superclass, Methods: methods}
	in.env.Assign(c.Name.Lexeme, class)
	return nil
}

func (in *Interpreter) eval(e ast.Expr) (Value, error) {
	switch e := e.(type) {
	case *ast.Assign:
		return in.evalAssign(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Call:
		return in.evalCall(e)
	case *ast.Get:
		return in.evalGet(e)
	case *ast.Grouping:
		return in.eval(e.Inner)
	case *ast.Literal:
		return literalValue(e), nil
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Set:
		return in.evalSet(e)
	case *ast.Super:
		return in.evalSuper(e)
	case *ast.This:
		return in.lookupVariable(e.Keyword.Lexeme, e, e.Keyword)
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Variable:
		return in.lookupVariable(e.Name.Lexeme, e, e.Name)
	default:
		panic("interp: unhandled expression type")
	}
}

func literalValue(l *ast.Literal) Value {
	switch l.Value.Kind {
	case token.NumberLiteral:
		return Number(l.Value.Number)
	case token.StringLiteral:
		return String(l.Value.Str)
	case token.BoolLiteral:
		return Bool(l.Value.Bool)
	default:
		return NilValue
	}
}

// lookupVariable consults the resolution table: a recorded depth
// reads/writes env.ancestor(d), otherwise the name is looked up (and,
// on assignment, assigned) in the global frame. tok identifies the
// offending identifier for an "undefined variable" error.
func (in *Interpreter) lookupVariable(name string, expr ast.Expr, tok token.Token) (Value, error) {
	if dist, ok := in.locals[expr]; ok {
		return in.env.GetAt(dist, name), nil
	}
	if v, ok := in.globals.Get(name); ok {
		return v, nil
	}
	return nil, runtimeErr(tok, "Undefined variable '%s'.", name)
}

func (in *Interpreter) evalAssign(a *ast.Assign) (Value, error) {
	value, err := in.eval(a.Value)
	if err != nil {
		return nil, err
	}
	if dist, ok := in.locals[a]; ok {
		in.env.AssignAt(dist, a.Name.Lexeme, value)
		return value, nil
	}
	if in.globals.Assign(a.Name.Lexeme, value) {
		return value, nil
	}
	return nil, runtimeErr(a.Name, "Undefined variable '%s'.", a.Name.Lexeme)
}

func (in *Interpreter) evalLogical(l *ast.Logical) (Value, error) {
	left, err := in.eval(l.Left)
	if err != nil {
		return nil, err
	}
	if l.Op.Type == token.Or {
		if IsTruthy(left) {
			return left, nil
		}
	} else { // and
		if !IsTruthy(left) {
			return left, nil
		}
	}
	return in.eval(l.Right)
}

func (in *Interpreter) evalUnary(u *ast.Unary) (Value, error) {
	right, err := in.eval(u.Right)
	if err != nil {
		return nil, err
	}
	switch u.Op.Type {
	case token.Bang:
		return Bool(!IsTruthy(right)), nil
	default: // minus
		n, ok := right.(Number)
		if !ok {
			return nil, runtimeErr(u.Op, "Operand must be a number.")
		}
		return -n, nil
	}
}

func (in *Interpreter) evalCall(c *ast.Call) (Value, error) {
	calleeVal, err := in.eval(c.Callee)
	if err != nil {
		return nil, err
	}

	callee, ok := calleeVal.(Callable)
	if !ok {
		return nil, runtimeErr(c.ClosingParen, "Can only call functions and classes.")
	}

	args := make([]Value, len(c.Args))
	for i, a := range c.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if len(args) != callee.Arity() {
		return nil, runtimeErr(c.ClosingParen, "Expected %d arguments but got %d.", callee.Arity(), len(args))
	}

	return callee.Call(in, args)
}

func (in *Interpreter) evalGet(g *ast.Get) (Value, error) {
	obj, err := in.eval(g.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeErr(g.Name, "Only instances have properties.")
	}
	v, ok := instance.Get(g.Name.Lexeme)
	if !ok {
		return nil, runtimeErr(g.Name, "Undefined property '%s'.", g.Name.Lexeme)
	}
	return v, nil
}

func (in *Interpreter) evalSet(s *ast.Set) (Value, error) {
	obj, err := in.eval(s.Object)
	if err != nil {
		return nil, err
	}
	instance, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeErr(s.Name, "Only instances have fields.")
	}
	value, err := in.eval(s.Value)
	if err != nil {
		return nil, err
	}
	instance.Set(s.Name.Lexeme, value)
	return value, nil
}

// evalSuper reads `super` at its resolved depth and `this` one frame
// nearer than it (depth-1): the resolver pushes the `super` scope
// immediately enclosing the `this` scope, so this arithmetic always
// lands on the right frame.
func (in *Interpreter) evalSuper(s *ast.Super) (Value, error) {
	dist := in.locals[s]
	superVal := in.env.GetAt(dist, "super")
	super := superVal.(*Class)
	instance := in.env.GetAt(dist-1, "this").(*Instance)

	method := super.FindMethod(s.Method.Lexeme)
	if method == nil {
		return nil, runtimeErr(s.Method, "Undefined property '%s'.", s.Method.Lexeme)
	}
	return method.bind(instance), nil
}
