package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iii-hq/scaffolder/internal/config"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/output"
	"github.com/iii-hq/scaffolder/internal/runtime"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show settings and available language toolchains",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file:   %s\n", output.StyleNoun.Render(config.FilePath()))
		fmt.Fprintf(out, "Template URL:  %s\n", output.StyleNoun.Render(config.TemplateURL()))
		fmt.Fprintln(out)

		all := language.Selection{
			manifest.GroupTypeScript,
			manifest.GroupPython,
			manifest.GroupRust,
		}
		infos, _ := runtime.CheckRuntimes(cmd.Context(), all, all)
		for _, info := range infos {
			if info.Available {
				fmt.Fprintln(out, output.FormatCheckmark(info.Name+" "+output.StyleDim.Render(info.Version)))
				continue
			}
			fmt.Fprintln(out, output.FormatWarning(info.Name+" not found"))
		}
		return nil
	},
}
