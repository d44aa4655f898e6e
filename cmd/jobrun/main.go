// Package main is the entry point for jobrun, the command execution and
// job tracking front door used by the wizard scripts.
package main

import (
	"os"

	"github.com/cywf/aliases/cmd/jobrun/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
