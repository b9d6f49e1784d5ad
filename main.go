package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sanity-io/litter"
	"github.com/spf13/cobra"

	"github.com/nt54hamnghi/rslox/driver"
	"github.com/nt54hamnghi/rslox/lexer"
	"github.com/nt54hamnghi/rslox/parser"
)

// exitCode carries the front-end exit contract (0 clean, 65 on lexical
// or syntax errors) past cobra's Execute.
var exitCode int

var rootCmd = &cobra.Command{
	Use:   "rslox",
	Short: "A front end for the Lox language",
	Long: `rslox is a lexer and recursive-descent parser for the Lox language.

Commands:
  tokenize - print the token stream of a source file
  parse    - print the parsed expression in prefix form
  run      - parse a whole program and print each declaration
  repl     - interactive prompt`,
	SilenceUsage: true,
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Print one line per token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		tokens, lexErr := lexer.Lex(string(source))
		for _, tok := range tokens {
			fmt.Println(tok)
		}
		driver.PrintErrors(os.Stderr, lexErr)
		exitCode = driver.ExitCode(lexErr)

		return nil
	},
}

var dumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse an expression and print its prefix rendering",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		tokens, lexErr := lexer.Lex(string(source))
		expr, parseErr := parser.NewParser(tokens).ParseExpr()

		frontErr := errors.Join(lexErr, parseErr)
		if frontErr == nil {
			if dumpAST {
				litter.Dump(expr)
			} else {
				fmt.Println(expr)
			}
		}
		driver.PrintErrors(os.Stderr, frontErr)
		exitCode = driver.ExitCode(frontErr)

		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Parse a whole program and print each declaration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		runner := driver.NewRunner()
		program, frontErr := runner.RunSource(string(source))
		if frontErr == nil {
			for _, decl := range program {
				fmt.Println(decl)
			}
		}
		driver.PrintErrors(os.Stderr, frontErr)
		exitCode = driver.ExitCode(frontErr)

		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&dumpAST, "ast", false, "dump the typed syntax tree instead of the prefix form")
	rootCmd.AddCommand(tokenizeCmd, parseCmd, runCmd, replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
