package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sam-decook/glox/internal/diag"
	"github.com/sam-decook/glox/internal/scanner"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Print the token stream for a Lox source file",
	Args:  cobra.ExactArgs(1),
	RunE:  tokenizeFile,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}

func tokenizeFile(_ *cobra.Command, args []string) error {
	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	sink := &diag.Sink{}
	toks := scanner.New(src, sink).Scan()

	for _, tok := range toks {
		fmt.Println(tok.String())
	}

	if sink.HasErrors() {
		sink.Print(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
		return staticExit()
	}
	return nil
}
