package ast

import (
	"fmt"
	"strings"

	"github.com/sam-decook/glox/internal/token"
)

// String implementations render each node as a lisp-ish parenthesized
// expression, used by the "parse" CLI subcommand and by tests that
// check parser shape without a full equality comparison.

func (l *Literal) String() string {
	switch l.Value.Kind {
	case token.NumberLiteral:
		return fmt.Sprintf("%v", l.Value.Number)
	case token.StringLiteral:
		return l.Value.Str
	default:
		return l.Token.Lexeme
	}
}

func (u *Unary) String() string {
	return fmt.Sprintf("(%s %s)", u.Op.Lexeme, u.Right)
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op.Lexeme, b.Left, b.Right)
}

func (l *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Op.Lexeme, l.Left, l.Right)
}

func (g *Grouping) String() string {
	return fmt.Sprintf("(group %s)", g.Inner)
}

func (v *Variable) String() string {
	return v.Name.Lexeme
}

func (a *Assign) String() string {
	return fmt.Sprintf("(= %s %s)", a.Name.Lexeme, a.Value)
}

func (c *Call) String() string {
	sb := strings.Builder{}
	sb.WriteString(c.Callee.String())
	sb.WriteByte('(')
	for i, arg := range c.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (g *Get) String() string {
	return fmt.Sprintf("%s.%s", g.Object, g.Name.Lexeme)
}

func (s *Set) String() string {
	return fmt.Sprintf("(= %s.%s %s)", s.Object, s.Name.Lexeme, s.Value)
}

func (t *This) String() string { return "this" }

func (s *Super) String() string {
	return fmt.Sprintf("super.%s", s.Method.Lexeme)
}

func (es *ExprStmt) String() string { return es.Expr.String() }

func (p *Print) String() string { return "print " + p.Expr.String() }

func (v *Var) String() string {
	if v.Initializer == nil {
		return "var " + v.Name.Lexeme
	}
	return fmt.Sprintf("var %s = %s", v.Name.Lexeme, v.Initializer)
}

func (b *Block) String() string {
	sb := strings.Builder{}
	sb.WriteString("{\n")
	for _, stmt := range b.Stmts {
		sb.WriteString("    " + stmt.String() + "\n")
	}
	sb.WriteByte('}')
	return sb.String()
}

func (i *If) String() string {
	sb := strings.Builder{}
	sb.WriteString("if (" + i.Cond.String() + ") " + i.Then.String())
	if i.Else != nil {
		sb.WriteString(" else " + i.Else.String())
	}
	return sb.String()
}

func (w *While) String() string {
	return fmt.Sprintf("while (%s) %s", w.Cond, w.Body)
}

func (f *Function) String() string {
	sb := strings.Builder{}
	sb.WriteString("fun " + f.Name.Lexeme + "(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Lexeme)
	}
	sb.WriteString(") {\n")
	for _, stmt := range f.Body {
		sb.WriteString("    " + stmt.String() + "\n")
	}
	sb.WriteByte('}')
	return sb.String()
}

func (r *Return) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}

func (c *Class) String() string {
	sb := strings.Builder{}
	sb.WriteString("class " + c.Name.Lexeme)
	if c.Superclass != nil {
		sb.WriteString(" < " + c.Superclass.Name.Lexeme)
	}
	sb.WriteString(" {\n")
	for _, m := range c.Methods {
		sb.WriteString("    " + m.String() + "\n")
	}
	sb.WriteByte('}')
	return sb.String()
}

// PrintProgram renders a full program (statement list) for the "parse"
// subcommand and for debugging dumps.
func PrintProgram(stmts []Stmt) string {
	sb := strings.Builder{}
	for _, s := range stmts {
		sb.WriteString(s.String() + "\n")
	}
	return sb.String()
}
