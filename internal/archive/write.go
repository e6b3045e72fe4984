package archive

import (
	"os"
	"path/filepath"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/output"
)

// ZipName returns the archive file name for a template.
func ZipName(template string) string {
	return template + ".zip"
}

// WriteTemplateZip builds the archive for template name and writes it to
// <templatesRoot>/<name>.zip, replacing any previous archive. It returns the
// archive path.
func WriteTemplateZip(templatesRoot, name string, shared []manifest.SharedFile) (string, error) {
	path, warnings, err := writeTemplateZip(templatesRoot, name, shared)
	if err != nil {
		return "", err
	}
	for _, w := range warnings {
		output.Warn("undeclared file", "template", w.Template, "path", w.Path)
	}
	return path, nil
}

func writeTemplateZip(templatesRoot, name string, shared []manifest.SharedFile) (string, []UndeclaredFileWarning, error) {
	templateDir := filepath.Join(templatesRoot, name)
	t, err := manifest.LoadTemplate(templateDir)
	if err != nil {
		return "", nil, err
	}

	data, warnings, err := build(templateDir, t, WithSharedSources(templatesRoot, shared))
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(templatesRoot, ZipName(name))
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return "", nil, serrors.NewIOError("write", path, err)
	}
	return path, warnings, nil
}

// writeFileAtomic writes data to path using a temp file in the same
// directory and a rename. On failure the original file is left unchanged.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".scaffolder-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
