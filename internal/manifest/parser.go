package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/relpath"
)

const (
	sourceRoot     = "root"
	sourceTemplate = "template"
)

// rawTemplate accepts the legacy spelling of treat_required_as_included.
type rawTemplate struct {
	TemplateManifest `yaml:",inline"`
	LegacySuggested  bool `yaml:"treat_required_as_suggested,omitempty"`
}

// ParseRoot parses root manifest bytes. Template names must be unique single
// path segments and both templates and language_files must be non-empty.
func ParseRoot(data []byte) (*RootManifest, error) {
	var m RootManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &serrors.ManifestParseError{Source: sourceRoot, Reason: "malformed YAML", Cause: err}
	}

	if len(m.Templates) == 0 {
		return nil, &serrors.MissingFieldError{Source: sourceRoot, Field: "templates"}
	}
	if len(m.LanguageFiles) == 0 {
		return nil, &serrors.MissingFieldError{Source: sourceRoot, Field: "language_files"}
	}

	seen := make(map[string]bool, len(m.Templates))
	for i, name := range m.Templates {
		clean, err := checkTemplateName(name)
		if err != nil {
			return nil, err
		}
		if seen[clean] {
			return nil, &serrors.ManifestParseError{Source: sourceRoot, Reason: fmt.Sprintf("duplicate template %q", clean)}
		}
		seen[clean] = true
		m.Templates[i] = clean
	}

	groups, err := normalizeGroups(sourceRoot, m.LanguageFiles)
	if err != nil {
		return nil, err
	}
	m.LanguageFiles = groups

	for i, s := range m.SharedFiles {
		src, err := normalizeDeclared(s.Source)
		if err != nil {
			return nil, err
		}
		m.SharedFiles[i].Source = src
		if s.Dest != "" {
			dest, err := normalizeDeclared(s.Dest)
			if err != nil {
				return nil, err
			}
			m.SharedFiles[i].Dest = dest
		}
	}

	return &m, nil
}

// ParseTemplate parses per-template manifest bytes. Every files entry must be
// a relative path without parent references; entries are normalized and must
// be unique.
func ParseTemplate(data []byte) (*TemplateManifest, error) {
	var raw rawTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &serrors.ManifestParseError{Source: sourceTemplate, Reason: "malformed YAML", Cause: err}
	}
	m := raw.TemplateManifest
	m.TreatRequiredAsIncluded = m.TreatRequiredAsIncluded || raw.LegacySuggested

	m.Name = strings.TrimSpace(m.Name)
	if m.Name == "" {
		return nil, &serrors.MissingFieldError{Source: sourceTemplate, Field: "name"}
	}
	if len(m.Files) == 0 {
		return nil, &serrors.EmptyFilesError{Template: m.Name}
	}

	seen := make(map[string]bool, len(m.Files))
	for i, f := range m.Files {
		clean, err := normalizeDeclared(f)
		if err != nil {
			return nil, err
		}
		if seen[clean] {
			return nil, &serrors.ManifestParseError{
				Source: fmt.Sprintf("template %q", m.Name),
				Reason: fmt.Sprintf("file %q is declared more than once", clean),
			}
		}
		seen[clean] = true
		m.Files[i] = clean
	}

	m.Requires = normalizeGroupNames(m.Requires)
	m.Optional = normalizeGroupNames(m.Optional)

	if len(m.LanguageFiles) > 0 {
		groups, err := normalizeGroups(sourceTemplate, m.LanguageFiles)
		if err != nil {
			return nil, err
		}
		m.LanguageFiles = groups
	}

	return &m, nil
}

// LoadRoot reads and parses the root manifest in templatesDir.
func LoadRoot(templatesDir string) (*RootManifest, error) {
	data, err := readFile(filepath.Join(templatesDir, FileName))
	if err != nil {
		return nil, err
	}
	return ParseRoot(data)
}

// LoadTemplate reads and parses the manifest in templateDir.
func LoadTemplate(templateDir string) (*TemplateManifest, error) {
	data, err := readFile(filepath.Join(templateDir, FileName))
	if err != nil {
		return nil, err
	}
	return ParseTemplate(data)
}

// normalizeDeclared normalizes a manifest path, mapping rejections onto the
// manifest error taxonomy.
func normalizeDeclared(p string) (string, error) {
	clean, err := relpath.Normalize(p)
	switch {
	case err == nil:
		return clean, nil
	case errors.Is(err, relpath.ErrEmpty):
		return "", &serrors.ManifestParseError{Source: sourceTemplate, Reason: "empty file path"}
	default:
		return "", &serrors.PathTraversalError{Path: p, Phase: serrors.PhaseManifest}
	}
}

func checkTemplateName(name string) (string, error) {
	clean, err := normalizeDeclared(strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	if !relpath.IsSingleSegment(clean) {
		return "", &serrors.ManifestParseError{
			Source: sourceRoot,
			Reason: fmt.Sprintf("template name %q must be a single directory name", name),
		}
	}
	return clean, nil
}

// normalizeGroups lower-cases group names and rejects empty patterns.
func normalizeGroups(source string, in LanguageFiles) (LanguageFiles, error) {
	out := make(LanguageFiles, len(in))
	for _, name := range in.Groups() {
		patterns := in[name]
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			return nil, &serrors.ManifestParseError{Source: source, Reason: "language_files contains an empty group name"}
		}
		for _, p := range patterns {
			if strings.TrimSpace(p) == "" {
				return nil, &serrors.ManifestParseError{
					Source: source,
					Reason: fmt.Sprintf("group %q contains an empty pattern", key),
				}
			}
		}
		out[key] = append(out[key], patterns...)
	}
	return out, nil
}

func normalizeGroupNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, serrors.NewIOError("read", path, err)
	}
	return data, nil
}
