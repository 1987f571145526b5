package interp

import (
	"math"
	"strconv"
	"strings"
)

// Value is any Lox runtime value: Nil, Bool, Number, String, a
// Callable (native fn, user function, or class), or an Instance. This
// is the tagged variant from the language spec's data model; Go's type
// switch over a small closed interface plays the role a sum-type match
// would in a language that has one.
type Value interface {
	value()
	String() string
}

// Nil is the Lox nil value. There is exactly one meaningful instance,
// NilValue, used everywhere nil is needed.
type Nil struct{}

func (Nil) value()         {}
func (Nil) String() string { return "nil" }

// NilValue is the canonical nil; comparisons and returns use this
// rather than allocating a fresh Nil{}.
var NilValue Value = Nil{}

// Bool wraps a Lox boolean.
type Bool bool

func (Bool) value() {}
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Number wraps a Lox number (IEEE-754 double).
type Number float64

func (Number) value() {}

// String stringifies the number: integer-valued doubles print WITHOUT
// a trailing ".0"; everything else uses Go's shortest round-trip
// formatting.
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f):
		return strings.TrimSuffix(strconv.FormatFloat(f, 'f', 1, 64), ".0")
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// String wraps a Lox string.
type String string

func (String) value()         {}
func (s String) String() string { return string(s) }

// IsTruthy implements Lox truthiness: nil and false are falsy,
// everything else (including 0 and "") is truthy.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case Nil:
		return false
	case Bool:
		return bool(v)
	default:
		return true
	}
}

// IsEqual implements Lox equality: nil equals only nil;
// numbers/strings compare by value (including NaN != NaN, inherited
// from Go's float64 equality); callables/classes/instances compare by
// reference identity.
func IsEqual(a, b Value) bool {
	_, aNil := a.(Nil)
	_, bNil := b.(Nil)
	if aNil || bNil {
		return aNil && bNil
	}

	if an, ok := a.(Number); ok {
		bn, ok := b.(Number)
		return ok && an == bn
	}
	if as, ok := a.(String); ok {
		bs, ok := b.(String)
		return ok && as == bs
	}
	if ab, ok := a.(Bool); ok {
		bb, ok := b.(Bool)
		return ok && ab == bb
	}

	// Callables, classes, and instances are always pointer types; Go
	// interface equality on those already is reference equality.
	return a == b
}
