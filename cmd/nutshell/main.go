// Package main is the entry point for the nutshell shell.
package main

import (
	"fmt"
	"os"

	"github.com/nutshell-sh/nutshell/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	return cli.NewRootCommand(version).Execute()
}
