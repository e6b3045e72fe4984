package main

import (
	"os"

	"github.com/iii-hq/scaffolder/internal/cli"
	serrors "github.com/iii-hq/scaffolder/internal/errors"
)

// version, commit, and date are set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		os.Exit(serrors.ExitCode(err))
	}
}
