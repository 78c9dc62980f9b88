// Package main provides the entry point for the reposcout CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jzhao-dev/reposcout/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
