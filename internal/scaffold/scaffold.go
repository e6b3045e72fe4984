package scaffold

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/iii-hq/scaffolder/internal/archive"
	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/fetch"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/materialize"
	"github.com/iii-hq/scaffolder/internal/output"
	"github.com/iii-hq/scaffolder/internal/selection"
)

// Request describes one scaffold.
type Request struct {
	Template   string
	Languages  language.Selection
	TargetDir  string
	Overwrite  bool
	CLIVersion string // compared against the template version; may be empty
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Template  *manifest.TemplateManifest
	Groups    []string
	Files     []string
	Excluded  []string
	Warnings  []string
}

// Option configures Generate.
type Option func(*config)

type config struct {
	fs afero.Fs
}

// WithFs sets the filesystem the scaffold is written to.
func WithFs(fsys afero.Fs) Option {
	return func(c *config) {
		c.fs = fsys
	}
}

// Generate runs the pipeline for req against src.
func Generate(ctx context.Context, src fetch.Source, req Request, opts ...Option) (*Result, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	if strings.TrimSpace(req.Template) == "" {
		return nil, fmt.Errorf("no template selected")
	}
	if strings.TrimSpace(req.TargetDir) == "" {
		return nil, fmt.Errorf("no target directory given")
	}

	fetched, err := fetch.FetchTemplate(ctx, src, req.Template)
	if fetched != nil && fetched.Root != nil && !fetched.Root.HasTemplate(req.Template) {
		return nil, &serrors.UnknownTemplateError{Template: req.Template, Known: fetched.Root.Templates}
	}
	if err != nil {
		return nil, err
	}
	root := fetched.Root
	t := fetched.Manifest.WithSharedFiles(root.SharedFiles)

	ex, err := archive.Extract(fetched.Archive)
	if err != nil {
		return nil, err
	}

	plan, err := selection.Select(t, root, req.Languages)
	if err != nil {
		return nil, err
	}
	output.Debug("selected files", "template", t.Name, "groups", plan.Groups(), "files", plan.Len(), "excluded", len(plan.Excluded()))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mopts := []materialize.Option{materialize.WithOverwrite(req.Overwrite)}
	if cfg.fs != nil {
		mopts = append(mopts, materialize.WithFs(cfg.fs))
	}
	res, err := materialize.Materialize(ctx, plan, ex.Files, req.TargetDir, mopts...)
	if err != nil {
		return nil, err
	}

	result := &Result{
		OutputDir: res.Dir,
		Template:  t,
		Groups:    plan.Groups(),
		Files:     res.Files,
		Excluded:  plan.Excluded(),
	}
	if w := manifest.CheckCompatibility(req.CLIVersion, t.Version); w != "" {
		result.Warnings = append(result.Warnings, w)
	}
	selected := language.NewGroupSet(result.Groups...)
	for _, g := range t.Optional {
		if !selected.Has(g) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("template %q also supports %s; rerun with it selected to include its files", t.Name, language.DisplayName(g)))
		}
	}
	return result, nil
}
