package interp

import (
	"fmt"

	"github.com/sam-decook/glox/internal/token"
)

// RuntimeError is raised by the evaluator and carries the offending
// token for line info. It unwinds through every Eval/Exec call as an
// ordinary Go error until the top-level driver reports it and sets
// exit code 70.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string { return e.Message }

func runtimeErr(tok token.Token, format string, args ...any) error {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// returnSignal is the evaluator's own internal, non-error control-flow
// mechanism for "return": a narrow sum-type-like signal threaded
// through Exec via Go's ordinary error return, recognized with a type
// assertion and caught exactly once, at the call site inside
// Function.Call. It is never observed outside this package.
type returnSignal struct {
	Value Value
}

func (r *returnSignal) Error() string { return "return outside of a function call" }
