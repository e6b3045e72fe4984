package cli

import (
	"encoding/json"
	"fmt"
	"io"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"github.com/iii-hq/scaffolder/internal/branding"
	"github.com/iii-hq/scaffolder/internal/output"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build information as JSON")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo describes the running binary.
type buildInfo struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:  buildVersion,
		Commit:   buildCommit,
		Date:     buildDate,
		Go:       goruntime.Version(),
		Platform: goruntime.GOOS + "/" + goruntime.GOARCH,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := currentBuild()
		out := cmd.OutOrStdout()
		switch {
		case versionShort:
			fmt.Fprintln(out, info.Version)
			return nil
		case versionJSON:
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding build info: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}
		printBuildInfo(out, info)
		return nil
	},
}

func printBuildInfo(w io.Writer, info buildInfo) {
	fmt.Fprintf(w, "%s version %s\n", output.StyleNoun.Render(branding.CLIName()), output.StyleSummary.Render(info.Version))
	fmt.Fprintln(w, output.StyleDim.Render(fmt.Sprintf("  commit %s, built %s", info.Commit, info.Date)))
	fmt.Fprintln(w, output.StyleDim.Render(fmt.Sprintf("  %s %s", info.Go, info.Platform)))
}
