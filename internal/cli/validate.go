package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/output"
)

var validateTemplateDir string

func init() {
	validateCmd.Flags().StringVar(&validateTemplateDir, "template-dir", "templates", "Templates root holding template.yaml")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check template manifests against their schemas",
	Long: `Lint the root template.yaml and every listed template's template.yaml
against the embedded JSON Schemas, then parse them.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		rootFile := filepath.Join(validateTemplateDir, manifest.FileName)

		failed := !reportValidation(out, manifest.KindRoot, rootFile)
		root, err := manifest.LoadRoot(validateTemplateDir)
		if err != nil {
			return err
		}

		for _, name := range root.Templates {
			file := filepath.Join(validateTemplateDir, name, manifest.FileName)
			if !reportValidation(out, manifest.KindTemplate, file) {
				failed = true
				continue
			}
			if _, err := manifest.LoadTemplate(filepath.Join(validateTemplateDir, name)); err != nil {
				fmt.Fprintln(out, output.FormatStatusLine(file, output.StatusFailed))
				fmt.Fprintln(out, "  "+err.Error())
				failed = true
			}
		}

		if failed {
			return fmt.Errorf("manifest validation failed")
		}
		fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("%d templates valid", len(root.Templates))))
		return nil
	},
}

// reportValidation prints schema issues for file and reports whether it is valid.
func reportValidation(out io.Writer, kind manifest.Kind, file string) bool {
	res, err := manifest.ValidateFile(kind, file)
	if err != nil {
		fmt.Fprintln(out, output.FormatStatusLine(file, output.StatusFailed))
		fmt.Fprintln(out, "  "+err.Error())
		return false
	}
	if res.Valid {
		output.Debug("manifest valid", "file", file)
		return true
	}
	fmt.Fprintln(out, output.FormatStatusLine(file, output.StatusFailed))
	for _, issue := range res.Issues {
		path := issue.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(out, "  %s: %s\n", path, issue.Message)
	}
	return false
}
