// Command lox is a tree-walking interpreter for the Lox language:
// run/tokenize/parse/version subcommands over the scanner, parser,
// resolver and evaluator in internal/.
package main

import (
	"os"

	"github.com/sam-decook/glox/cmd/lox/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
