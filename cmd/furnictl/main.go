// Package main provides the entry point for the furnictl operator CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/furnimatch/cmd/furnictl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
