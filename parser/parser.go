package parser

import (
	"errors"
	"fmt"

	"github.com/nt54hamnghi/rslox/ast"
	"github.com/nt54hamnghi/rslox/token"
	"github.com/nt54hamnghi/rslox/utils"
)

// MaxArguments bounds the argument and parameter count of a call.
const MaxArguments = 255

type Parser struct {
	tokens  []token.Token
	current int
	err     error

	// panicMode marks a structural error; declaration resynchronizes
	// at the next statement boundary and clears it.
	panicMode bool
}

func NewParser(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens, current: 0, err: nil}
}

// Parse parses a whole program. It keeps going after a syntax error by
// discarding tokens up to the next statement boundary, so one run can
// report every independent error. The returned program is best-effort:
// declarations hit by an error are dropped, the rest survive.
func (p *Parser) Parse() ([]ast.Node, error) {
	p.err = nil
	p.panicMode = false
	program := []ast.Node{}
	for !p.IsAtEnd() {
		if decl := p.declaration(); decl != nil {
			program = append(program, decl)
		}
	}

	return program, p.err
}

// ParseExpr is the reduced entry point for the parse verb: a single
// expression, no statement grammar, no synchronization.
func (p *Parser) ParseExpr() (ast.Node, error) {
	p.err = nil
	p.panicMode = false
	node := p.expression()

	return node, p.err
}

// declaration = funDecl | varDecl | statement ;
func (p *Parser) declaration() ast.Node {
	var node ast.Node
	switch {
	case p.match(token.FUN):
		node = p.funDecl()
	case p.match(token.VAR):
		node = p.varDecl()
	default:
		node = p.statement()
	}

	if p.panicMode {
		p.panicMode = false
		p.synchronize()

		return nil
	}

	return node
}

// funDecl = "fun" IDENT "(" params? ")" block ;
// params = IDENT ("," IDENT)* ;
func (p *Parser) funDecl() *ast.FuncDecl {
	p.consume(token.FUN, "'fun'")
	name := p.consume(token.IDENTIFIER, "function name")
	p.consume(token.LEFTPAREN, "'(' after function name")

	params := []token.Token{}
	if !p.match(token.RIGHTPAREN) {
		for {
			if len(params) >= MaxArguments {
				p.report(reportAt(p.peek(), TooManyArgumentsError{What: "parameters"}))
			}
			params = append(params, p.consume(token.IDENTIFIER, "parameter name"))
			if !p.match(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	p.consume(token.RIGHTPAREN, "')' after parameters")

	p.consume(token.LEFTBRACE, "'{' before function body")
	body := p.blockStmts()

	return &ast.FuncDecl{Name: name, Params: params, Body: body}
}

// varDecl = "var" IDENT ("=" expression)? ";" ;
func (p *Parser) varDecl() *ast.VarDecl {
	p.consume(token.VAR, "'var'")
	name := p.consume(token.IDENTIFIER, "variable name")

	var init ast.Node
	if p.match(token.EQUAL) {
		p.advance()
		init = p.expression()
	}
	p.consume(token.SEMICOLON, "';' after variable declaration")

	return &ast.VarDecl{Name: name, Init: init}
}

// statement = printStmt | returnStmt | ifStmt | whileStmt | forStmt | block | exprStmt ;
func (p *Parser) statement() ast.Node {
	switch {
	case p.match(token.PRINT):
		return p.printStmt()
	case p.match(token.RETURN):
		return p.returnStmt()
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.WHILE):
		return p.whileStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.LEFTBRACE):
		brace := p.advance()
		return &ast.Block{Brace: brace, Stmts: p.blockStmts()}
	default:
		return p.exprStmt()
	}
}

// printStmt = "print" expression ";" ;
func (p *Parser) printStmt() *ast.PrintStmt {
	keyword := p.advance()
	expr := p.expression()
	p.consume(token.SEMICOLON, "';' after value")

	return &ast.PrintStmt{Keyword: keyword, Expr: expr}
}

// returnStmt = "return" expression? ";" ;
func (p *Parser) returnStmt() *ast.ReturnStmt {
	keyword := p.advance()
	var value ast.Node
	if !p.match(token.SEMICOLON) {
		value = p.expression()
	}
	p.consume(token.SEMICOLON, "';' after return value")

	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// ifStmt = "if" "(" expression ")" statement ("else" statement)? ;
func (p *Parser) ifStmt() *ast.If {
	keyword := p.advance()
	p.consume(token.LEFTPAREN, "'(' after 'if'")
	cond := p.expression()
	p.consume(token.RIGHTPAREN, "')' after if condition")

	then := p.statement()
	var elseBranch ast.Node
	if p.match(token.ELSE) {
		p.advance()
		elseBranch = p.statement()
	}

	return &ast.If{Keyword: keyword, Cond: cond, Then: then, Else: elseBranch}
}

// whileStmt = "while" "(" expression ")" statement ;
func (p *Parser) whileStmt() *ast.While {
	keyword := p.advance()
	p.consume(token.LEFTPAREN, "'(' after 'while'")
	cond := p.expression()
	p.consume(token.RIGHTPAREN, "')' after condition")
	body := p.statement()

	return &ast.While{Keyword: keyword, Cond: cond, Body: body}
}

// forStmt = "for" "(" (varDecl | exprStmt | ";") expression? ";" expression? ")" statement ;
//
// Desugared at parse time into while: the initializer and the loop form
// a block, the increment is appended to the loop body.
func (p *Parser) forStmt() ast.Node {
	keyword := p.advance()
	p.consume(token.LEFTPAREN, "'(' after 'for'")

	var init ast.Node
	switch {
	case p.match(token.SEMICOLON):
		p.advance()
	case p.match(token.VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond ast.Node
	if !p.match(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, "';' after loop condition")

	var incr ast.Node
	if !p.match(token.RIGHTPAREN) {
		incr = p.expression()
	}
	p.consume(token.RIGHTPAREN, "')' after for clauses")

	body := p.statement()

	if incr != nil {
		body = &ast.Block{Brace: keyword, Stmts: []ast.Node{body, &ast.ExprStmt{Expr: incr}}}
	}
	if cond == nil {
		cond = &ast.Literal{Token: token.Token{Kind: token.TRUE, Lexeme: "true", Line: keyword.Line}}
	}
	var loop ast.Node = &ast.While{Keyword: keyword, Cond: cond, Body: body}
	if init != nil {
		loop = &ast.Block{Brace: keyword, Stmts: []ast.Node{init, loop}}
	}

	return loop
}

// block = "{" declaration* "}" ;
//
// The opening brace is already consumed by the caller.
func (p *Parser) blockStmts() []ast.Node {
	stmts := []ast.Node{}
	for !p.match(token.RIGHTBRACE) && !p.IsAtEnd() {
		if decl := p.declaration(); decl != nil {
			stmts = append(stmts, decl)
		}
	}
	p.consume(token.RIGHTBRACE, "'}' after block")

	return stmts
}

// exprStmt = expression ";" ;
func (p *Parser) exprStmt() *ast.ExprStmt {
	expr := p.expression()
	p.consume(token.SEMICOLON, "';' after expression")

	return &ast.ExprStmt{Expr: expr}
}

// expression = assignment ;
func (p *Parser) expression() ast.Node {
	return p.assignment()
}

// assignment = IDENT "=" assignment | logicOr ;
//
// Right-associative: parse the left side as an expression first, then
// check whether it is a valid assignment target.
func (p *Parser) assignment() ast.Node {
	expr := p.logicOr()

	if p.match(token.EQUAL) {
		equals := p.advance()
		value := p.assignment()

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}
		}
		p.report(reportAt(equals, InvalidAssignmentTargetError{}))
	}

	return expr
}

// logicOr = logicAnd ("or" logicAnd)* ;
func (p *Parser) logicOr() ast.Node {
	expr := p.logicAnd()
	for p.match(token.OR) {
		op := p.advance()
		right := p.logicAnd()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}

	return expr
}

// logicAnd = equality ("and" equality)* ;
func (p *Parser) logicAnd() ast.Node {
	expr := p.equality()
	for p.match(token.AND) {
		op := p.advance()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}

	return expr
}

// equality = comparison (("!=" | "==") comparison)* ;
func (p *Parser) equality() ast.Node {
	expr := p.comparison()
	for p.match(token.BANGEQUAL) || p.match(token.EQUALEQUAL) {
		op := p.advance()
		right := p.comparison()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// comparison = term ((">" | ">=" | "<" | "<=") term)* ;
func (p *Parser) comparison() ast.Node {
	expr := p.term()
	for p.match(token.GREATER) || p.match(token.GREATEREQUAL) || p.match(token.LESS) || p.match(token.LESSEQUAL) {
		op := p.advance()
		right := p.term()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// term = factor (("-" | "+") factor)* ;
func (p *Parser) term() ast.Node {
	expr := p.factor()
	for p.match(token.MINUS) || p.match(token.PLUS) {
		op := p.advance()
		right := p.factor()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// factor = unary (("/" | "*") unary)* ;
func (p *Parser) factor() ast.Node {
	expr := p.unary()
	for p.match(token.SLASH) || p.match(token.STAR) {
		op := p.advance()
		right := p.unary()
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}

	return expr
}

// unary = ("!" | "-") unary | call ;
func (p *Parser) unary() ast.Node {
	if p.match(token.BANG) || p.match(token.MINUS) {
		op := p.advance()
		right := p.unary()

		return &ast.Unary{Op: op, Right: right}
	}

	return p.call()
}

// call = primary ("(" arguments? ")")* ;
// arguments = expression ("," expression)* ;
func (p *Parser) call() ast.Node {
	expr := p.primary()
	for p.match(token.LEFTPAREN) {
		expr = p.callTail(expr)
	}

	return expr
}

func (p *Parser) callTail(fun ast.Node) *ast.Call {
	p.consume(token.LEFTPAREN, "'('")
	args := []ast.Node{}
	if !p.match(token.RIGHTPAREN) {
		for {
			if len(args) >= MaxArguments {
				p.report(reportAt(p.peek(), TooManyArgumentsError{What: "arguments"}))
			}
			args = append(args, p.expression())
			if !p.match(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	paren := p.consume(token.RIGHTPAREN, "')' after arguments")

	return &ast.Call{Callee: paren, Func: fun, Args: args}
}

// primary = NUMBER | STRING | "true" | "false" | "nil" | IDENT | "(" expression ")" ;
func (p *Parser) primary() ast.Node {
	if p.IsAtEnd() {
		p.recover(reportAt(p.peek(), ExpectedExpressionError{}))

		return nil
	}

	//exhaustive:ignore
	switch tok := p.advance(); tok.Kind {
	case token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NIL:
		return &ast.Literal{Token: tok}
	case token.IDENTIFIER:
		return &ast.Variable{Name: tok}
	case token.LEFTPAREN:
		expr := p.expression()
		p.consume(token.RIGHTPAREN, "')' after expression")

		return &ast.Grouping{Expr: expr}
	default:
		p.recover(reportAt(tok, ExpectedExpressionError{}))

		return nil
	}
}

// synchronize discards tokens until a statement boundary: just past a
// semicolon, or right before a keyword that begins a statement.
func (p *Parser) synchronize() {
	for !p.IsAtEnd() {
		if p.current > 0 && p.previous().Kind == token.SEMICOLON {
			return
		}

		//exhaustive:ignore
		switch p.peek().Kind {
		case token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}

		p.advance()
	}
}

// recover records a structural error and enters panic mode. Further
// errors are suppressed until the next synchronization point, so one
// malformed construct reports once instead of cascading.
func (p *Parser) recover(err error) {
	if p.panicMode {
		return
	}
	p.err = errors.Join(p.err, err)
	p.panicMode = true
}

// report records a non-fatal error without entering panic mode.
func (p *Parser) report(err error) {
	if p.panicMode {
		return
	}
	p.err = errors.Join(p.err, err)
}

func (p Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) advance() token.Token {
	if !p.IsAtEnd() {
		p.current++
	}

	return p.previous()
}

func (p Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p Parser) IsAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p Parser) match(kind token.Kind) bool {
	if p.IsAtEnd() {
		return false
	}

	return p.peek().Kind == kind
}

func (p *Parser) consume(kind token.Kind, expected string) token.Token {
	if p.match(kind) {
		return p.advance()
	}

	p.recover(reportAt(p.peek(), ExpectedTokenError{Expected: expected}))

	return p.peek()
}

type ExpectedTokenError struct {
	Expected string
}

func (e ExpectedTokenError) Error() string {
	return fmt.Sprintf("Expect %s.", e.Expected)
}

type ExpectedExpressionError struct{}

func (e ExpectedExpressionError) Error() string {
	return "Expect expression."
}

type TooManyArgumentsError struct {
	What string // "arguments" or "parameters"
}

func (e TooManyArgumentsError) Error() string {
	return fmt.Sprintf("Can't have more than %d %s.", MaxArguments, e.What)
}

type InvalidAssignmentTargetError struct{}

func (e InvalidAssignmentTargetError) Error() string {
	return "Invalid assignment target."
}

func reportAt(t token.Token, err error) error {
	return utils.Report{Line: t.Line, Err: err}
}
