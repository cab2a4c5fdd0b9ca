// ABOUTME: Entry point for the daybook CLI.
// ABOUTME: Invokes the root Cobra command and reports failures in red.
package main

import (
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
