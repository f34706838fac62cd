// Package main is the entry point for the driftwood CLI.
package main

import (
	"os"

	"Driftwood/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
