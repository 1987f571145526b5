package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sam-decook/glox/internal/ast"
	"github.com/sam-decook/glox/internal/diag"
	"github.com/sam-decook/glox/internal/parser"
	"github.com/sam-decook/glox/internal/scanner"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the parsed AST for a Lox source file",
	Args:  cobra.ExactArgs(1),
	RunE:  parseFile,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parseFile(_ *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	sink := &diag.Sink{}
	toks := scanner.New(src, sink).Scan()
	stmts := parser.New(toks, sink).Parse()

	fmt.Println(ast.PrintProgram(stmts))

	if sink.HasErrors() {
		sink.Print(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
		return staticExit()
	}
	return nil
}
