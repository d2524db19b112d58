// Package main provides the leapmeta command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/leapmeta/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
