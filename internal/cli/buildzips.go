package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iii-hq/scaffolder/internal/archive"
	"github.com/iii-hq/scaffolder/internal/output"
)

var (
	buildTemplateDir string
	buildConcurrency int
	buildLint        bool
)

func init() {
	buildZipsCmd.Flags().StringVar(&buildTemplateDir, "template-dir", "templates", "Templates root holding template.yaml")
	buildZipsCmd.Flags().IntVar(&buildConcurrency, "concurrency", 0, "Templates built at once (default: number of CPUs)")
	buildZipsCmd.Flags().BoolVar(&buildLint, "lint", true, "Report JSON Schema issues in template manifests")
	rootCmd.AddCommand(buildZipsCmd)
}

var buildZipsCmd = &cobra.Command{
	Use:   "build-zips",
	Short: "Build a zip archive for every template",
	Long: `Build <template>.zip next to each template listed in the root template.yaml.
Each archive holds exactly the files its manifest declares.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		opts := []archive.BuildAllOption{archive.WithSchemaWarnings(buildLint)}
		if buildConcurrency > 0 {
			opts = append(opts, archive.WithConcurrency(buildConcurrency))
		}

		reports, err := archive.BuildAll(ctx, buildTemplateDir, opts...)
		if err != nil {
			return err
		}
		return printBuildReports(cmd.OutOrStdout(), reports)
	},
}

// printBuildReports prints one line per template and returns the first build
// error, if any.
func printBuildReports(out io.Writer, reports []archive.BuildReport) error {
	var (
		firstErr error
		built    int
	)
	for _, r := range reports {
		switch {
		case r.Err != nil:
			fmt.Fprintln(out, output.FormatStatusLine(r.Template, output.StatusFailed))
			fmt.Fprintln(out, "  "+r.Err.Error())
			if firstErr == nil {
				firstErr = r.Err
			}
		case r.Skipped:
			fmt.Fprintln(out, output.FormatStatusLine(r.Template, output.StatusSkipped))
		default:
			built++
			fmt.Fprintln(out, output.FormatStatusLine(r.Template, output.StatusBuilt)+
				output.StyleDim.Render(fmt.Sprintf("  %s (%d bytes)", r.Path, r.Size)))
		}
		for _, w := range r.Warnings {
			fmt.Fprintln(out, "  "+output.FormatWarning(w))
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, output.StyleSummary.Render(fmt.Sprintf("Built %d of %d templates", built, len(reports))))
	return firstErr
}
