// Package main provides the entry point for the automerge CLI.
package main

import (
	"os"

	"github.com/randalmurphal/automerge/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
