package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/output"
)

const entryMode fs.FileMode = 0o644

// MS-DOS encoding of 1980-01-01 00:00:00. Setting FileHeader.Modified would
// add an extended-timestamp extra field, so the legacy fields are used.
const (
	entryDOSDate uint16 = 1<<5 | 1
	entryDOSTime uint16 = 0
)

// UndeclaredFileWarning reports a file present in a template directory that
// its manifest does not list. It is never fatal.
type UndeclaredFileWarning struct {
	Template string
	Path     string
}

func (w UndeclaredFileWarning) String() string {
	return fmt.Sprintf("template %q: %s is not listed in files and will not be packaged", w.Template, w.Path)
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	sharedRoot string
	shared     []manifest.SharedFile
}

// WithSharedSources bundles the given shared files, read from templatesRoot,
// into the archive under their destination names. Destinations are appended
// to the manifest's files when not already declared.
func WithSharedSources(templatesRoot string, shared []manifest.SharedFile) BuildOption {
	return func(c *buildConfig) {
		c.sharedRoot = templatesRoot
		c.shared = shared
	}
}

// Build packages the files t declares from templateDir. Identical inputs
// produce byte-identical output. The archive carries no manifest; consumers
// read template.yaml alongside it. Undeclared files are logged as warnings.
func Build(templateDir string, t *manifest.TemplateManifest, opts ...BuildOption) ([]byte, error) {
	data, warnings, err := build(templateDir, t, opts...)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		output.Warn("undeclared file", "template", w.Template, "path", w.Path)
	}
	return data, nil
}

func build(templateDir string, t *manifest.TemplateManifest, opts ...BuildOption) ([]byte, []UndeclaredFileWarning, error) {
	cfg := &buildConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	effective := t
	sources := make(map[string]string, len(t.Files))
	if len(cfg.shared) > 0 {
		effective = t.WithSharedFiles(cfg.shared)
		for _, s := range cfg.shared {
			sources[s.Destination()] = filepath.Join(cfg.sharedRoot, filepath.FromSlash(s.Source))
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range effective.Files {
		src, ok := sources[name]
		if !ok {
			src = filepath.Join(templateDir, filepath.FromSlash(name))
		}
		if err := addEntry(zw, name, src); err != nil {
			_ = zw.Close()
			return nil, nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, nil, fmt.Errorf("finalizing archive for template %q: %w", t.Name, err)
	}

	warnings, err := undeclared(templateDir, effective)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), warnings, nil
}

func addEntry(zw *zip.Writer, name, src string) error {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &serrors.MissingFileError{Path: name, Cause: err}
		}
		return serrors.NewIOError("stat", src, err)
	}
	if !info.Mode().IsRegular() {
		return &serrors.MissingFileError{Path: name, Cause: fmt.Errorf("%s is not a regular file", src)}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return serrors.NewIOError("read", src, err)
	}

	header := &zip.FileHeader{
		Name:         name,
		Method:       zip.Deflate,
		ModifiedDate: entryDOSDate, //nolint:staticcheck // see entryDOSDate
		ModifiedTime: entryDOSTime, //nolint:staticcheck // see entryDOSDate
	}
	header.SetMode(entryMode)

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing archive entry %s: %w", name, err)
	}
	return nil
}

var ignoredDirs = []string{".git", ".hg", ".svn"}

// undeclared lists regular files under templateDir that t does not declare.
// The template manifest and VCS metadata are ignored.
func undeclared(templateDir string, t *manifest.TemplateManifest) ([]UndeclaredFileWarning, error) {
	declared := make(map[string]bool, len(t.Files))
	for _, f := range t.Files {
		declared[f] = true
	}

	var warnings []UndeclaredFileWarning
	err := filepath.WalkDir(templateDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != templateDir && slices.Contains(ignoredDirs, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(templateDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == manifest.FileName || d.Name() == ".DS_Store" || declared[rel] {
			return nil
		}
		warnings = append(warnings, UndeclaredFileWarning{Template: t.Name, Path: rel})
		return nil
	})
	if err != nil {
		return nil, serrors.NewIOError("walk", templateDir, err)
	}
	return warnings, nil
}
