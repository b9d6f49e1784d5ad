package driver

import (
	"errors"
	"fmt"
	"io"

	"github.com/nt54hamnghi/rslox/ast"
	"github.com/nt54hamnghi/rslox/lexer"
	"github.com/nt54hamnghi/rslox/parser"
)

// ExitFrontEnd is the exit code for lexical or syntax errors, as
// opposed to runtime failures in later pipeline stages.
const ExitFrontEnd = 65

type Pass interface {
	Init([]ast.Node) error
	Run([]ast.Node) ([]ast.Node, error)
}

type Runner struct {
	passes []Pass
}

func NewRunner() *Runner {
	return &Runner{}
}

// AddPass adds a pass to the end of the pass list.
func (r *Runner) AddPass(pass Pass) {
	r.passes = append(r.passes, pass)
}

// Run executes passes in order.
// If an error occurs, it stops the execution and returns the current program.
func (r *Runner) Run(program []ast.Node) ([]ast.Node, error) {
	for _, pass := range r.passes {
		err := pass.Init(program)
		if err != nil {
			return program, fmt.Errorf("init: %w", err)
		}
		program, err = pass.Run(program)
		if err != nil {
			return program, fmt.Errorf("run: %w", err)
		}
	}

	return program, nil
}

// RunSource runs the front end over source and, when it is clean,
// executes the registered passes. A non-empty diagnostic list gates the
// passes: the best-effort program is still returned for inspection.
func (r *Runner) RunSource(source string) ([]ast.Node, error) {
	tokens, lexErr := lexer.Lex(source)
	program, parseErr := parser.NewParser(tokens).Parse()

	if err := errors.Join(lexErr, parseErr); err != nil {
		return program, err
	}

	return r.Run(program)
}

// PrintErrors writes collected diagnostics to w, one per line, in
// source order.
func PrintErrors(w io.Writer, err error) {
	if err == nil {
		return
	}
	if errs, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range errs.Unwrap() {
			PrintErrors(w, e)
		}

		return
	}
	fmt.Fprintln(w, err)
}

// ExitCode maps a front-end error list to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	return ExitFrontEnd
}
