// Command-line entry point for the fixture parser.
package main

import (
	"fmt"
	"os"

	"fixture_parser/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
