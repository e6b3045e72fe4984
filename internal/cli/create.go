package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iii-hq/scaffolder/internal/config"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/output"
	"github.com/iii-hq/scaffolder/internal/runtime"
	"github.com/iii-hq/scaffolder/internal/scaffold"
)

var (
	createTemplateDir  string
	createTemplate     string
	createDirectory    string
	createLanguages    []string
	createForce        bool
	createSkipRuntimes bool
)

func init() {
	createCmd.Flags().StringVar(&createTemplateDir, "template-dir", "", "Read templates from a local directory instead of the template URL")
	createCmd.Flags().StringVarP(&createTemplate, "template", "t", "", "Template to scaffold (required)")
	createCmd.Flags().StringVarP(&createDirectory, "directory", "d", "", "Target directory (default: ./<template>)")
	createCmd.Flags().StringSliceVarP(&createLanguages, "languages", "l", nil, "Languages to include, comma-separated (typescript, javascript, python, rust)")
	createCmd.Flags().BoolVar(&createForce, "force", false, "Replace a non-empty target directory")
	createCmd.Flags().BoolVar(&createSkipRuntimes, "skip-runtime-check", false, "Do not check for language toolchains")
	_ = createCmd.MarkFlagRequired("template")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold a new project from a template",
	Long: `Scaffold a new project from a template, keeping only the files that belong
to the selected languages.

Examples:
  scaffolder create -t quickstart -l typescript -d my-app
  scaffolder create -t multi-language -l ts,py --template-dir ./templates`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	sel := language.ParseSelection(createLanguages)
	targetDir := createDirectory
	if targetDir == "" {
		targetDir = createTemplate
	}
	targetDir, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving target directory: %w", err)
	}

	if !createSkipRuntimes {
		infos, err := runtime.CheckRuntimes(ctx, sel, nil)
		if err != nil {
			return err
		}
		for _, info := range infos {
			output.Debug("runtime found", "name", info.Name, "version", info.Version)
		}
	}

	src, err := newSource(createTemplateDir)
	if err != nil {
		return err
	}

	req := scaffold.Request{
		Template:   createTemplate,
		Languages:  sel,
		TargetDir:  targetDir,
		Overwrite:  createForce,
		CLIVersion: buildVersion,
	}

	var result *scaffold.Result
	err = output.RunWithSpinner(ctx, func(ctx context.Context) error {
		var err error
		result, err = scaffold.Generate(ctx, src, req)
		return err
	},
		output.WithTitle(fmt.Sprintf("Fetching template %s...", createTemplate)),
		output.WithTimeout(2*config.HTTPTimeout()),
	)
	if err != nil {
		return err
	}

	if !createSkipRuntimes {
		checkIncludedRuntimes(ctx, out, sel, result.Groups)
	}

	printCreateResult(out, result)
	return nil
}

// checkIncludedRuntimes reports toolchains for groups the template added on
// its own. Missing ones only produce a warning.
func checkIncludedRuntimes(ctx context.Context, out io.Writer, sel language.Selection, groups []string) {
	var included language.Selection
	for _, g := range groups {
		if !sel.Has(g) {
			included = append(included, g)
		}
	}
	if len(included) == 0 {
		return
	}
	infos, _ := runtime.CheckRuntimes(ctx, included, included)
	for _, info := range infos {
		if !info.Available {
			fmt.Fprintln(out, output.FormatWarning(fmt.Sprintf("%s was not found; the template includes files that need it", info.Name)))
		}
	}
}

func printCreateResult(out io.Writer, result *scaffold.Result) {
	for _, f := range result.Files {
		fmt.Fprintln(out, output.FormatStatusLine(f, output.StatusCreated))
	}
	if verbose {
		for _, f := range result.Excluded {
			fmt.Fprintln(out, output.FormatStatusLine(f, output.StatusExcluded))
		}
	}
	for _, w := range result.Warnings {
		fmt.Fprintln(out, output.FormatWarning(w))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, output.FormatCheckmark(output.StyleSummary.Render(fmt.Sprintf(
		"Created %s from template %s (%d files; groups: %s)",
		result.OutputDir, result.Template.Name, len(result.Files), strings.Join(result.Groups, ", "),
	))))
}
