package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sam-decook/glox/internal/ast"
	"github.com/sam-decook/glox/internal/diag"
	"github.com/sam-decook/glox/internal/interp"
	"github.com/sam-decook/glox/internal/parser"
	"github.com/sam-decook/glox/internal/resolver"
	"github.com/sam-decook/glox/internal/scanner"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a Lox script, or start a REPL with no file argument",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLox,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runLox(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return runRepl()
	}
	return runFile(args[0])
}

func runFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sink := &diag.Sink{}
	toks := scanner.New(src, sink).Scan()
	stmts := parser.New(toks, sink).Parse()
	locals := resolver.New(sink).Resolve(stmts)

	if sink.HasErrors() {
		sink.Print(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
		return staticExit()
	}

	in := interp.New(os.Stdout)
	if err := in.Interpret(stmts, locals); err != nil {
		printRuntimeError(err)
		return runtimeExit(err)
	}
	return nil
}

func printRuntimeError(err error) {
	var line int
	if rerr, ok := err.(*interp.RuntimeError); ok {
		line = rerr.Token.Line
	}
	msg := diag.RuntimeLine(err.Error(), line)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		msg = color.New(color.FgRed, color.Bold).Sprint(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}

// runRepl reads one line at a time, parsed as a statement list against
// a persistent top-level environment. A line that fails to parse as a
// statement list is retried as a bare expression wrapped in an
// implicit print, for typing "1 + 2" without a trailing ";".
func runRepl() error {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	prompt := "> "
	if interactive && isatty.IsTerminal(os.Stdout.Fd()) {
		prompt = color.CyanString("> ")
	}

	in := interp.New(os.Stdout)
	locals := map[ast.Expr]int{}

	scan := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Fprint(os.Stdout, prompt)
		}
		if !scan.Scan() {
			if interactive {
				fmt.Fprintln(os.Stdout)
			}
			return nil
		}
		line := scan.Text()
		if line == "" {
			continue
		}
		evalReplLine(in, locals, line)
	}
}

func evalReplLine(in *interp.Interpreter, locals map[ast.Expr]int, line string) {
	sink := &diag.Sink{}
	toks := scanner.New([]byte(line), sink).Scan()

	p := parser.New(toks, sink)
	stmts := p.Parse()

	if sink.HasErrors() {
		// Retry as a bare expression: "1 + 2" with no trailing ";".
		exprSink := &diag.Sink{}
		exprToks := scanner.New([]byte(line), exprSink).Scan()
		exprParser := parser.New(exprToks, exprSink)
		if expr := exprParser.ParseExpression(); expr != nil && !exprSink.HasErrors() {
			stmts = []ast.Stmt{&ast.Print{Expr: expr}}
			sink = exprSink
		}
	}

	if sink.HasErrors() {
		sink.Print(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
		return
	}

	res := resolver.New(sink)
	newLocals := res.Resolve(stmts)
	if sink.HasErrors() {
		sink.Print(os.Stderr, isatty.IsTerminal(os.Stderr.Fd()))
		return
	}
	for expr, dist := range newLocals {
		locals[expr] = dist
	}

	if err := in.Interpret(stmts, locals); err != nil {
		printRuntimeError(err)
	}
}
