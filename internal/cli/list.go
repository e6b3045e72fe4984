package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iii-hq/scaffolder/internal/fetch"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/output"
)

const listConcurrency = 4

var (
	listTemplateDir string
	listJSON        bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Long:  `List the templates offered by the template URL, or by --template-dir.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listTemplateDir, "template-dir", "", "Read templates from a local directory instead of the template URL")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

// listEntry represents a template for display.
type listEntry struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Version     string   `json:"version,omitempty"`
	Requires    []string `json:"requires,omitempty"`
	Languages   []string `json:"languages"`
	Error       string   `json:"error,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	src, err := newSource(listTemplateDir)
	if err != nil {
		return err
	}

	var entries []listEntry
	err = output.RunWithSpinner(ctx, func(ctx context.Context) error {
		var err error
		entries, err = collectTemplates(ctx, src)
		return err
	}, output.WithTitle("Fetching templates..."))
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No templates found.")
		return nil
	}
	if listJSON {
		return printListJSON(cmd, entries)
	}
	return printListTable(cmd, entries)
}

// collectTemplates reads every template's manifest. A template that cannot be
// read is listed with its error.
func collectTemplates(ctx context.Context, src fetch.Source) ([]listEntry, error) {
	root, err := fetch.FetchRootManifest(ctx, src)
	if err != nil {
		return nil, err
	}
	languages := language.Languages(root.LanguageFiles)

	entries := make([]listEntry, len(root.Templates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, name := range root.Templates {
		g.Go(func() error {
			e := listEntry{Name: name, Languages: languages}
			if t, err := fetch.FetchTemplateManifest(gctx, src, name); err != nil {
				e.Error = err.Error()
			} else {
				e.Description = t.Description
				e.Version = t.Version
				e.Requires = t.Requires
			}
			entries[i] = e
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func printListTable(cmd *cobra.Command, entries []listEntry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tVERSION\tREQUIRES\tDESCRIPTION")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		requires := strings.Join(e.Requires, ",")
		if requires == "" {
			requires = "-"
		}
		desc := e.Description
		if e.Error != "" {
			desc = "error: " + e.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, version, requires, desc)
	}
	return w.Flush()
}

func printListJSON(cmd *cobra.Command, entries []listEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
