// Package main is the entry point for the funcplane CLI.
// The CLI is the developer terminal tool for interacting with the local daemon.
package main

import (
	"os"

	"funcplane/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
