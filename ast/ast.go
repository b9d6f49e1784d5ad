package ast

import (
	"fmt"
	"strings"

	"github.com/nt54hamnghi/rslox/token"
)

// AST

type Node interface {
	fmt.Stringer
	Base() token.Token
	// Plate applies the given function to each child node.
	// If f returns an error, f also must return the original argument n.
	// It is similar to Visitor pattern.
	Plate(error, func(Node, error) (Node, error)) (Node, error)
}

// Expressions

type Literal struct {
	token.Token
}

func (l Literal) String() string {
	switch l.Kind {
	case token.NUMBER, token.STRING:
		return token.DisplayLiteral(l.Literal)
	default:
		// true, false, nil
		return l.Lexeme
	}
}

func (l *Literal) Base() token.Token {
	return l.Token
}

func (l *Literal) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return l, err
}

var _ Node = &Literal{}

type Variable struct {
	Name token.Token
}

func (v Variable) String() string {
	return v.Name.Lexeme
}

func (v *Variable) Base() token.Token {
	return v.Name
}

func (v *Variable) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return v, err
}

var _ Node = &Variable{}

type Assign struct {
	Name  token.Token
	Value Node
}

func (a Assign) String() string {
	return parenthesize("= "+a.Name.Lexeme, a.Value).String()
}

func (a *Assign) Base() token.Token {
	return a.Name
}

func (a *Assign) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	a.Value, err = f(a.Value, err)
	return a, err
}

var _ Node = &Assign{}

type Unary struct {
	Op    token.Token
	Right Node
}

func (u Unary) String() string {
	return parenthesize(u.Op.Lexeme, u.Right).String()
}

func (u *Unary) Base() token.Token {
	return u.Op
}

func (u *Unary) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	u.Right, err = f(u.Right, err)
	return u, err
}

var _ Node = &Unary{}

type Binary struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (b Binary) String() string {
	return parenthesize(b.Op.Lexeme, b.Left, b.Right).String()
}

func (b *Binary) Base() token.Token {
	return b.Op
}

func (b *Binary) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	b.Left, err = f(b.Left, err)
	b.Right, err = f(b.Right, err)
	return b, err
}

var _ Node = &Binary{}

// Logical is kept apart from Binary so a later evaluator can
// short-circuit without inspecting the operator token.
type Logical struct {
	Left  Node
	Op    token.Token
	Right Node
}

func (l Logical) String() string {
	return parenthesize(l.Op.Lexeme, l.Left, l.Right).String()
}

func (l *Logical) Base() token.Token {
	return l.Op
}

func (l *Logical) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	l.Left, err = f(l.Left, err)
	l.Right, err = f(l.Right, err)
	return l, err
}

var _ Node = &Logical{}

type Grouping struct {
	Expr Node
}

func (g Grouping) String() string {
	return parenthesize("group", g.Expr).String()
}

func (g *Grouping) Base() token.Token {
	return g.Expr.Base()
}

func (g *Grouping) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	g.Expr, err = f(g.Expr, err)
	return g, err
}

var _ Node = &Grouping{}

type Call struct {
	Callee token.Token // the closing paren, for error reporting
	Func   Node
	Args   []Node
}

func (c Call) String() string {
	return parenthesize("call", prepend(c.Func, c.Args)...).String()
}

func (c *Call) Base() token.Token {
	return c.Func.Base()
}

func (c *Call) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	c.Func, err = f(c.Func, err)
	for i, arg := range c.Args {
		c.Args[i], err = f(arg, err)
	}
	return c, err
}

var _ Node = &Call{}

// Statements

type ExprStmt struct {
	Expr Node
}

func (e ExprStmt) String() string {
	return parenthesize("expr", e.Expr).String()
}

func (e *ExprStmt) Base() token.Token {
	return e.Expr.Base()
}

func (e *ExprStmt) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	e.Expr, err = f(e.Expr, err)
	return e, err
}

var _ Node = &ExprStmt{}

type PrintStmt struct {
	Keyword token.Token
	Expr    Node
}

func (p PrintStmt) String() string {
	return parenthesize("print", p.Expr).String()
}

func (p *PrintStmt) Base() token.Token {
	return p.Keyword
}

func (p *PrintStmt) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	p.Expr, err = f(p.Expr, err)
	return p, err
}

var _ Node = &PrintStmt{}

type VarDecl struct {
	Name token.Token
	Init Node // nil when declared without an initializer
}

func (v VarDecl) String() string {
	if v.Init == nil {
		return parenthesize("var " + v.Name.Lexeme).String()
	}
	return parenthesize("var "+v.Name.Lexeme, v.Init).String()
}

func (v *VarDecl) Base() token.Token {
	return v.Name
}

func (v *VarDecl) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	if v.Init != nil {
		v.Init, err = f(v.Init, err)
	}
	return v, err
}

var _ Node = &VarDecl{}

type Block struct {
	Brace token.Token
	Stmts []Node
}

func (b Block) String() string {
	return parenthesize("block", b.Stmts...).String()
}

func (b *Block) Base() token.Token {
	return b.Brace
}

func (b *Block) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, stmt := range b.Stmts {
		b.Stmts[i], err = f(stmt, err)
	}
	return b, err
}

var _ Node = &Block{}

type If struct {
	Keyword token.Token
	Cond    Node
	Then    Node
	Else    Node // nil when there is no else branch
}

func (i If) String() string {
	if i.Else == nil {
		return parenthesize("if", i.Cond, i.Then).String()
	}
	return parenthesize("if", i.Cond, i.Then, i.Else).String()
}

func (i *If) Base() token.Token {
	return i.Keyword
}

func (i *If) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	i.Cond, err = f(i.Cond, err)
	i.Then, err = f(i.Then, err)
	if i.Else != nil {
		i.Else, err = f(i.Else, err)
	}
	return i, err
}

var _ Node = &If{}

type While struct {
	Keyword token.Token
	Cond    Node
	Body    Node
}

func (w While) String() string {
	return parenthesize("while", w.Cond, w.Body).String()
}

func (w *While) Base() token.Token {
	return w.Keyword
}

func (w *While) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	w.Cond, err = f(w.Cond, err)
	w.Body, err = f(w.Body, err)
	return w, err
}

var _ Node = &While{}

type FuncDecl struct {
	Name   token.Token
	Params []token.Token
	Body   []Node
}

func (fd FuncDecl) String() string {
	params := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = p.Lexeme
	}
	head := "fun " + fd.Name.Lexeme + " (" + strings.Join(params, " ") + ")"

	return parenthesize(head, fd.Body...).String()
}

func (fd *FuncDecl) Base() token.Token {
	return fd.Name
}

func (fd *FuncDecl) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, stmt := range fd.Body {
		fd.Body[i], err = f(stmt, err)
	}
	return fd, err
}

var _ Node = &FuncDecl{}

type ReturnStmt struct {
	Keyword token.Token
	Value   Node // nil for a bare return
}

func (r ReturnStmt) String() string {
	if r.Value == nil {
		return parenthesize("return").String()
	}
	return parenthesize("return", r.Value).String()
}

func (r *ReturnStmt) Base() token.Token {
	return r.Keyword
}

func (r *ReturnStmt) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	if r.Value != nil {
		r.Value, err = f(r.Value, err)
	}
	return r, err
}

var _ Node = &ReturnStmt{}

// parenthesize takes a head string and a variadic number of nodes.
// It returns a fmt.Stringer for the parenthesized prefix rendering where
// each node is separated by a space.
func parenthesize(head string, elems ...Node) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat joins the renderings of elems with single spaces, skipping
// empty strings.
func concat(elems []Node) fmt.Stringer {
	var b strings.Builder
	for i, elem := range elems {
		str := elem.String()
		if str == "" {
			continue
		}
		if i != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}

func prepend(head Node, rest []Node) []Node {
	return append([]Node{head}, rest...)
}

// Traverse the [Node] in depth-first order.
// f is called for each node.
// If f returns an error, f also must return the original argument n.
// If n has children, Traverse modifies each child before n.
func Traverse(n Node, f func(Node, error) (Node, error)) (Node, error) {
	n, err := n.Plate(nil, func(n Node, err error) (Node, error) {
		return Traverse(n, f)
	})
	return f(n, err)
}

func Children(n Node) []Node {
	var children []Node
	_, err := n.Plate(nil, func(n Node, _ error) (Node, error) {
		children = append(children, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return children
}

func Universe(n Node) []Node {
	var nodes []Node
	_, err := Traverse(n, func(n Node, _ error) (Node, error) {
		nodes = append(nodes, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return nodes
}
