package manifest

import (
	"slices"
	"sort"
)

// FileName is the manifest file name at the templates root and inside each
// template directory.
const FileName = "template.yaml"

// Well-known group names.
const (
	GroupCommon     = "common"
	GroupNode       = "node"
	GroupJavaScript = "javascript"
	GroupTypeScript = "typescript"
	GroupPython     = "python"
	GroupRust       = "rust"
)

// LanguageFiles maps a group name to its ordered glob patterns.
type LanguageFiles map[string][]string

// Groups returns the group names in sorted order.
func (lf LanguageFiles) Groups() []string {
	names := make([]string, 0, len(lf))
	for name := range lf {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a group is declared.
func (lf LanguageFiles) Has(group string) bool {
	_, ok := lf[group]
	return ok
}

// Clone returns a deep copy.
func (lf LanguageFiles) Clone() LanguageFiles {
	if lf == nil {
		return nil
	}
	out := make(LanguageFiles, len(lf))
	for k, v := range lf {
		out[k] = slices.Clone(v)
	}
	return out
}

// MergeLanguageFiles returns a new group map holding the root patterns
// followed by the template's own patterns for each group. Neither input is
// modified.
func MergeLanguageFiles(root, extra LanguageFiles) LanguageFiles {
	out := root.Clone()
	if out == nil {
		out = LanguageFiles{}
	}
	for _, group := range extra.Groups() {
		out[group] = append(out[group], extra[group]...)
	}
	return out
}

// SharedFile is a file at the templates root that is bundled into every
// template, optionally under a different name.
type SharedFile struct {
	Source string `yaml:"source" json:"source"`
	Dest   string `yaml:"dest,omitempty" json:"dest,omitempty"`
}

// Destination returns the path inside the template, defaulting to Source.
func (s SharedFile) Destination() string {
	if s.Dest != "" {
		return s.Dest
	}
	return s.Source
}

// RootManifest is the catalog-level manifest (templates/template.yaml).
type RootManifest struct {
	Templates     []string      `yaml:"templates" json:"templates"`
	LanguageFiles LanguageFiles `yaml:"language_files" json:"language_files"`
	SharedFiles   []SharedFile  `yaml:"shared_files,omitempty" json:"shared_files,omitempty"`
}

// HasTemplate reports whether name is listed in Templates.
func (r *RootManifest) HasTemplate(name string) bool {
	return slices.Contains(r.Templates, name)
}

// TemplateManifest is the per-template manifest (templates/<name>/template.yaml).
type TemplateManifest struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Version     string   `yaml:"version" json:"version"`
	Requires    []string `yaml:"requires,omitempty" json:"requires,omitempty"`
	Optional    []string `yaml:"optional,omitempty" json:"optional,omitempty"`

	// TreatRequiredAsIncluded turns required groups into always-selected ones:
	// they are added to every selection instead of failing it.
	TreatRequiredAsIncluded bool `yaml:"treat_required_as_included,omitempty" json:"treat_required_as_included,omitempty"`

	// Files is the closed list of template members, in declaration order.
	Files []string `yaml:"files" json:"files"`

	// LanguageFiles holds template-specific patterns appended to the root groups.
	LanguageFiles LanguageFiles `yaml:"language_files,omitempty" json:"language_files,omitempty"`
}

// IsRequired reports whether group is listed in Requires.
func (t *TemplateManifest) IsRequired(group string) bool {
	return slices.Contains(t.Requires, group)
}

// IsOptional reports whether group is listed in Optional.
func (t *TemplateManifest) IsOptional(group string) bool {
	return slices.Contains(t.Optional, group)
}

// Included returns the groups that are always selected for this template.
func (t *TemplateManifest) Included() []string {
	if !t.TreatRequiredAsIncluded {
		return nil
	}
	return slices.Clone(t.Requires)
}

// Clone returns a deep copy.
func (t *TemplateManifest) Clone() *TemplateManifest {
	c := *t
	c.Requires = slices.Clone(t.Requires)
	c.Optional = slices.Clone(t.Optional)
	c.Files = slices.Clone(t.Files)
	c.LanguageFiles = t.LanguageFiles.Clone()
	return &c
}

// WithSharedFiles returns a copy whose Files additionally lists the
// destination of every shared file not already declared.
func (t *TemplateManifest) WithSharedFiles(shared []SharedFile) *TemplateManifest {
	c := t.Clone()
	for _, s := range shared {
		dest := s.Destination()
		if !slices.Contains(c.Files, dest) {
			c.Files = append(c.Files, dest)
		}
	}
	return c
}
