package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/nt54hamnghi/rslox/driver"
)

var history = filepath.Join(xdg.DataHome, "rslox", ".rslox_history")

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive prompt",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPrompt()
	},
}

func runPrompt() error {
	line := liner.NewLiner()
	defer func() {
		if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		if f, err := os.Create(history); err == nil {
			defer f.Close()
			if _, err := line.WriteHistory(f); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		line.Close()
	}()

	if f, err := os.Open(history); err == nil {
		defer f.Close()
		if _, err := line.ReadHistory(f); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	runner := driver.NewRunner()
	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt: %w", err)
		}
		line.AppendHistory(input)

		program, err := runner.RunSource(input)
		if err != nil {
			driver.PrintErrors(os.Stderr, err)

			continue
		}
		for _, decl := range program {
			fmt.Println(decl)
		}
	}
}
