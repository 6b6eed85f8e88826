// Package main is the entry point for the t3rnctl CLI.
package main

import (
	"os"

	"github.com/t3rnops/t3rnctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
