package interp

import (
	"fmt"

	"github.com/sam-decook/glox/internal/ast"
)

// Callable is anything invocable at runtime: a native builtin, a
// user-defined function, or a class (calling a class constructs an
// instance). Call returns a Go error rather than exiting the process,
// so a runtime error unwinds cleanly through every caller.
type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	Name() string
}

// Native is a builtin callable implemented in Go, such as clock().
type Native struct {
	NameStr string
	Ar      int
	Fn      func(in *Interpreter, args []Value) (Value, error)
}

func (*Native) value()            {}
func (n *Native) String() string  { return fmt.Sprintf("<native fn %s>", n.NameStr) }
func (n *Native) Arity() int      { return n.Ar }
func (n *Native) Name() string    { return n.NameStr }
func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Fn(in, args)
}

// Function is a user-defined function or method: its declaration plus
// the closure frame captured the moment the Function statement (or
// method body, at class-evaluation time) executed — never at parse
// time.
type Function struct {
	Decl          *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (*Function) value()           {}
func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Decl.Name.Lexeme) }
func (f *Function) Name() string   { return f.Decl.Name.Lexeme }
func (f *Function) Arity() int     { return len(f.Decl.Params) }

// Call builds a new frame as a child of the captured closure, binds
// parameters by order, and executes the body. A bare "return" statement
// or falling off the end of the body yields nil, except for an
// initializer, which always yields the bound "this" one frame up in
// the closure.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := in.execBlock(f.Decl.Body, env)
	if ret, ok := err.(*returnSignal); ok {
		if f.IsInitializer {
			return f.Closure.GetAt(0, "this"), nil
		}
		return ret.Value, nil
	}
	if err != nil {
		return nil, err
	}

	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	return NilValue, nil
}

// bind returns a copy of f whose closure is a fresh child frame
// defining "this" as instance — the mechanism behind bound methods.
func (f *Function) bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// Class is a class value: constructing an instance is calling it.
type Class struct {
	ClassName  string
	Superclass *Class
	Methods    map[string]*Function
}

func (*Class) value()           {}
func (c *Class) String() string { return c.ClassName }
func (c *Class) Name() string   { return c.ClassName }

// Arity is the initializer's arity, or 0 if there is none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance, running its initializer (if any)
// with the given arguments, and returns the instance.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	instance := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// FindMethod walks the class and its ancestors for a method, the
// mechanism both bound calls and super.method lookups share.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Instance is a runtime object: a class tag plus its own field map.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (*Instance) value()           {}
func (i *Instance) String() string { return i.Class.ClassName + " instance" }

// Get implements property access: fields shadow methods, and a found
// method comes back bound to this instance.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.bind(i), true
	}
	return nil, false
}

// Set always writes to the field map, never to methods.
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}
