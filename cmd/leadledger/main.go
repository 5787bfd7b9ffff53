// Package main is the entry point for the leadledger CLI.
package main

import (
	"os"

	"github.com/leadledger/leadledger/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
