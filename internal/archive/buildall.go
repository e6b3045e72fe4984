package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/iii-hq/scaffolder/internal/manifest"
)

// BuildReport describes the outcome of building one template.
type BuildReport struct {
	Template string
	Path     string // written archive; empty when skipped or failed
	Size     int64
	Skipped  bool
	Warnings []string
	Err      error
}

// BuildAllOption configures BuildAll.
type BuildAllOption func(*buildAllConfig)

type buildAllConfig struct {
	concurrency int
	validate    bool
}

// WithConcurrency bounds the number of templates built at once.
func WithConcurrency(n int) BuildAllOption {
	return func(c *buildAllConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithSchemaWarnings adds JSON-Schema lint issues of each template manifest
// to its report.
func WithSchemaWarnings(enabled bool) BuildAllOption {
	return func(c *buildAllConfig) {
		c.validate = enabled
	}
}

// BuildAll writes an archive for every template the root manifest in
// templatesRoot lists. Templates are independent: a failure is recorded in
// that template's report and does not stop the others. The returned error is
// non-nil only when the root manifest cannot be loaded or ctx is cancelled.
// Reports follow the root manifest's template order.
func BuildAll(ctx context.Context, templatesRoot string, opts ...BuildAllOption) ([]BuildReport, error) {
	cfg := &buildAllConfig{concurrency: runtime.NumCPU()}
	for _, opt := range opts {
		opt(cfg)
	}

	root, err := manifest.LoadRoot(templatesRoot)
	if err != nil {
		return nil, err
	}

	reports := make([]BuildReport, len(root.Templates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, name := range root.Templates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = buildOne(templatesRoot, name, root.SharedFiles, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return reports, err
	}
	return reports, nil
}

func buildOne(templatesRoot, name string, shared []manifest.SharedFile, cfg *buildAllConfig) BuildReport {
	r := BuildReport{Template: name}
	templateDir := filepath.Join(templatesRoot, name)

	if _, err := os.Stat(filepath.Join(templateDir, manifest.FileName)); errors.Is(err, fs.ErrNotExist) {
		r.Skipped = true
		r.Warnings = append(r.Warnings, fmt.Sprintf("template directory %s has no %s", templateDir, manifest.FileName))
		return r
	}

	if cfg.validate {
		res, err := manifest.ValidateFile(manifest.KindTemplate, filepath.Join(templateDir, manifest.FileName))
		if err == nil && !res.Valid {
			for _, issue := range res.Issues {
				r.Warnings = append(r.Warnings, fmt.Sprintf("schema: %s %s", issue.Path, issue.Message))
			}
		}
	}

	path, warnings, err := writeTemplateZip(templatesRoot, name, shared)
	if err != nil {
		r.Err = err
		return r
	}
	for _, w := range warnings {
		r.Warnings = append(r.Warnings, w.String())
	}
	r.Path = path
	if info, err := os.Stat(path); err == nil {
		r.Size = info.Size()
	}
	return r
}
