// Package parser is a hand-written recursive-descent parser, one token
// of lookahead over a random-access token buffer. It covers classes,
// get/set/this/super, synchronize()-based error recovery, and the
// "missing left-hand operand" recovery path.
package parser

import (
	"github.com/sam-decook/glox/internal/ast"
	"github.com/sam-decook/glox/internal/diag"
	"github.com/sam-decook/glox/internal/token"
)

const maxArgs = 255

// parseError is the parser's own internal control-flow signal: it
// unwinds to the nearest declaration() boundary, which reports nothing
// further (consume/error already reported it) and calls synchronize().
// It never escapes Parse.
type parseError struct{}

// Parser turns a token slice into a statement list.
type Parser struct {
	tokens []token.Token
	idx    int
	sink   *diag.Sink
}

// New creates a Parser over tokens, reporting diagnostics to sink.
func New(tokens []token.Token, sink *diag.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

// Parse returns the full statement list. It always terminates and
// always returns, even in the presence of syntax errors — callers
// check sink.HasErrors() to decide whether to proceed to resolution.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.atEnd() {
		if stmt := p.safeDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// ParseExpression parses a single expression, for the REPL, where a
// bare expression (not terminated by ";") may be entered.
func (p *Parser) ParseExpression() ast.Expr {
	defer func() { recover() }()
	return p.expression()
}

func (p *Parser) safeDeclaration() (stmt ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseError); !ok {
				panic(r)
			}
			p.synchronize()
			stmt = nil
		}
	}()
	return p.declaration()
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.Class):
		return p.classDecl()
	case p.match(token.Fun):
		return p.function("function")
	case p.match(token.Var):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect class name.")

	var superclass *ast.Variable
	if p.match(token.Less) {
		p.consume(token.Identifier, "Expect superclass name.")
		superclass = &ast.Variable{Name: p.previous()}
	}

	p.consume(token.LeftBrace, "Expect '{' before class body.")

	var methods []*ast.Function
	for !p.check(token.RightBrace) && !p.atEnd() {
		methods = append(methods, p.function("method"))
	}

	p.consume(token.RightBrace, "Expect '}' after class body.")

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}
}

func (p *Parser) function(kind string) *ast.Function {
	name := p.consume(token.Identifier, "Expect "+kind+" name.")
	p.consume(token.LeftParen, "Expect '(' after "+kind+" name.")

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAtCurrent("Can't have more than 255 parameters.")
			}
			params = append(params, p.consume(token.Identifier, "Expect parameter name."))
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.consume(token.RightParen, "Expect ')' after parameters.")

	p.consume(token.LeftBrace, "Expect '{' before "+kind+" body.")
	body := p.blockStmts()

	return &ast.Function{Name: name, Params: params, Body: body}
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Identifier, "Expect variable name.")

	var initializer ast.Expr
	if p.match(token.Equal) {
		initializer = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after variable declaration.")

	return &ast.Var{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.For):
		return p.forStmt()
	case p.match(token.If):
		return p.ifStmt()
	case p.match(token.Print):
		return p.printStmt()
	case p.match(token.Return):
		return p.returnStmt()
	case p.match(token.While):
		return p.whileStmt()
	case p.match(token.LeftBrace):
		return &ast.Block{Stmts: p.blockStmts()}
	default:
		return p.exprStmt()
	}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after expression.")
	return &ast.ExprStmt{Expr: expr}
}

func (p *Parser) printStmt() ast.Stmt {
	expr := p.expression()
	p.consume(token.Semicolon, "Expect ';' after value.")
	return &ast.Print{Expr: expr}
}

func (p *Parser) returnStmt() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.Semicolon) {
		value = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after return value.")
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) ifStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'if'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after if condition.")

	then := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.Else) {
		elseBranch = p.statement()
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBranch}
}

func (p *Parser) whileStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'while'.")
	cond := p.expression()
	p.consume(token.RightParen, "Expect ')' after condition.")
	body := p.statement()
	return &ast.While{Cond: cond, Body: body}
}

// forStmt desugars "for" into the equivalent Block([init, While(cond,
// Block([body, increment]))]), per the language spec.
func (p *Parser) forStmt() ast.Stmt {
	p.consume(token.LeftParen, "Expect '(' after 'for'.")

	var initializer ast.Stmt
	switch {
	case p.match(token.Semicolon):
		initializer = nil
	case p.match(token.Var):
		initializer = p.varDecl()
	default:
		initializer = p.exprStmt()
	}

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "Expect ';' after loop condition.")

	var increment ast.Expr
	if !p.check(token.RightParen) {
		increment = p.expression()
	}
	p.consume(token.RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if increment != nil {
		body = &ast.Block{Stmts: []ast.Stmt{body, &ast.ExprStmt{Expr: increment}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: token.Literal{Kind: token.BoolLiteral, Bool: true}}
	}
	var loop ast.Stmt = &ast.While{Cond: cond, Body: body}
	if initializer != nil {
		loop = &ast.Block{Stmts: []ast.Stmt{initializer, loop}}
	}
	return loop
}

func (p *Parser) blockStmts() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RightBrace) && !p.atEnd() {
		if stmt := p.safeDeclaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(token.RightBrace, "Expect '}' after block.")
	return stmts
}

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment parses "( call "." )? IDENT "=" assignment | logic_or". The
// left-hand side is parsed as an ordinary expression and only inspected
// after the "=" is seen, to validate it as an assignment target.
func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.Equal) {
		equals := p.previous()
		value := p.assignment()

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.errorAt(equals, "Invalid assignment target.")
			return expr
		}
	}

	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.Or) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.And) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EqualEqual, token.BangEqual) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.Less, token.LessEqual, token.Greater, token.GreaterEqual) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	for p.match(token.Star, token.Slash) {
		op := p.previous()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right := p.unary()
		return &ast.Unary{Op: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()

	for {
		switch {
		case p.match(token.LeftParen):
			expr = p.finishCall(expr)
		case p.match(token.Dot):
			name := p.consume(token.Identifier, "Expect property name after '.'.")
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAtCurrent("Can't have more than 255 arguments.")
			}
			args = append(args, p.expression())
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closingParen := p.consume(token.RightParen, "Expect ')' after arguments.")
	return &ast.Call{Callee: callee, ClosingParen: closingParen, Args: args}
}

// primary implements the grammar's primary production. When the current
// token is itself a binary operator, the left-hand operand is missing:
// report it, consume a right-hand operand so the caller's loop keeps
// making progress for further diagnostics, and return a placeholder
// literal rather than letting a malformed node reach the resolver or
// evaluator.
func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.True):
		return &ast.Literal{Token: p.previous(), Value: token.Literal{Kind: token.BoolLiteral, Bool: true}}
	case p.match(token.False):
		return &ast.Literal{Token: p.previous(), Value: token.Literal{Kind: token.BoolLiteral, Bool: false}}
	case p.match(token.Nil):
		return &ast.Literal{Token: p.previous(), Value: token.Literal{Kind: token.NilLiteral}}
	case p.match(token.Number):
		tok := p.previous()
		return &ast.Literal{Token: tok, Value: token.Literal{Kind: token.NumberLiteral, Number: tok.Literal.Number}}
	case p.match(token.String):
		tok := p.previous()
		return &ast.Literal{Token: tok, Value: token.Literal{Kind: token.StringLiteral, Str: tok.Literal.Str}}
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.Super):
		keyword := p.previous()
		p.consume(token.Dot, "Expect '.' after 'super'.")
		method := p.consume(token.Identifier, "Expect superclass method name.")
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.LeftParen):
		group := p.expression()
		p.consume(token.RightParen, "Expect ')' after expression.")
		return &ast.Grouping{Inner: group}
	case p.checkAny(token.Plus, token.Slash, token.Star, token.EqualEqual, token.BangEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual):
		op := p.current()
		p.errorAtCurrent("Missing left-hand operand.")
		p.advance()
		p.unary() // consume a right-hand operand for further diagnostics
		return &ast.Literal{Token: op, Value: token.Literal{Kind: token.NilLiteral}}
	default:
		p.errorAtCurrent("Expect expression.")
		panic(parseError{})
	}
}

// --------------- Helpers --------------- //

func (p *Parser) match(types ...token.Type) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) checkAny(types ...token.Type) bool {
	for _, typ := range types {
		if p.check(typ) {
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ token.Type, msg string) token.Token {
	if p.check(typ) {
		return p.advance()
	}
	p.errorAtCurrent(msg)
	panic(parseError{})
}

func (p *Parser) check(typ token.Type) bool {
	return !p.atEnd() && p.current().Type == typ
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *Parser) atEnd() bool {
	return p.current().Type == token.EOF
}

func (p *Parser) current() token.Token {
	return p.tokens[p.idx]
}

func (p *Parser) previous() token.Token {
	if p.idx > 0 {
		return p.tokens[p.idx-1]
	}
	return p.current()
}

func (p *Parser) errorAtCurrent(msg string) {
	p.sink.Report(diag.Parse, p.current(), msg)
}

func (p *Parser) errorAt(tok token.Token, msg string) {
	p.sink.Report(diag.Parse, tok, msg)
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so one bad declaration does not prevent the rest of the
// file from being checked.
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.previous().Type == token.Semicolon {
			return
		}
		switch p.current().Type {
		case token.Class, token.Fun, token.Var, token.For, token.If, token.While, token.Print, token.Return:
			return
		}
		p.advance()
	}
}
