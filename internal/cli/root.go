package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/iii-hq/scaffolder/internal/branding"
	"github.com/iii-hq/scaffolder/internal/config"
	"github.com/iii-hq/scaffolder/internal/fetch"
	"github.com/iii-hq/scaffolder/internal/output"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` scaffolds projects from versioned, multi-language templates.
Each template ships as a zip archive; only the files matching the selected
languages are written to the target directory.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetupLogging(verbose)
		config.Load()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
}

func versionString() string {
	if buildVersion == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}

// newSource returns a local source when templateDir is set, else a remote
// source for the configured template URL.
func newSource(templateDir string) (fetch.Source, error) {
	if templateDir != "" {
		info, err := os.Stat(templateDir)
		if err != nil {
			return nil, fmt.Errorf("template directory %s: %w", templateDir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("template directory %s is not a directory", templateDir)
		}
		return fetch.NewLocalSource(templateDir), nil
	}
	transport := fetch.NewHTTPTransport(
		fetch.WithUserAgent(config.UserAgent(buildVersion)),
		fetch.WithTimeout(config.HTTPTimeout()),
	)
	return fetch.NewRemoteSource(config.TemplateURL(), transport)
}
