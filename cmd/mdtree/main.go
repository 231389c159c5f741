// Package main is the entry point for the mdtree CLI.
package main

import (
	"errors"
	"os"

	"github.com/quillsoft/mdtree/internal/cli"
	"github.com/quillsoft/mdtree/internal/logging"
)

// Build-time variables set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := rootCmd.Execute(); err != nil {
		// Parse failures already printed their own diagnostic.
		if !errors.Is(err, cli.ErrParseFailed) {
			logging.Default().Error("command failed", "error", err)
		}
		return 1
	}
	return 0
}
