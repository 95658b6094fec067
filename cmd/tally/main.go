// Package main provides the entry point for tally.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/safedep/tally/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		var ec cli.ExitCoder
		if errors.As(err, &ec) {
			fmt.Fprint(os.Stderr, ec.Message())
			os.Exit(ec.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
