// Package cmd is the cobra command tree for the lox CLI: run, tokenize,
// parse, and version. Each command returns an error from RunE; main
// translates that into a process exit code rather than calling
// os.Exit deep inside a command handler.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by build flags; left as a plain default otherwise.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:     "lox",
	Short:   "A tree-walking interpreter for Lox",
	Version: Version,
}

func init() {
	// Each subcommand reports its own diagnostics to stderr in their
	// own fixed format; cobra's default "Error: ..." banner would
	// duplicate that.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

// exitError carries the process exit code a command wants: 65 for a
// static (scan/parse/resolve) error, 70 for a runtime error, 0
// otherwise.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

func staticExit() error           { return &exitError{code: 65} }
func runtimeExit(err error) error { return &exitError{code: 70, err: err} }

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if ee, ok := err.(*exitError); ok {
			return ee.code
		}
		return 1
	}
	return 0
}
