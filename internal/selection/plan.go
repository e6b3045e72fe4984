package selection

import (
	"slices"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
)

// Plan is the ordered list of declared files to materialize for one
// selection. Accessors return copies.
type Plan struct {
	template string
	files    []string
	excluded []string
	groups   []string
}

// Template returns the template name the plan was computed for.
func (p *Plan) Template() string { return p.template }

// Files returns the selected files in declaration order.
func (p *Plan) Files() []string { return slices.Clone(p.files) }

// Excluded returns the declared files no applicable group matched.
func (p *Plan) Excluded() []string { return slices.Clone(p.excluded) }

// Groups returns the applicable groups, sorted.
func (p *Plan) Groups() []string { return slices.Clone(p.groups) }

// Len returns the number of selected files.
func (p *Plan) Len() int { return len(p.files) }

// Contains reports whether file is part of the plan.
func (p *Plan) Contains(file string) bool { return slices.Contains(p.files, file) }

// Select computes the plan for template t under sel. The root and template
// language_files are merged, the selection is resolved, and requirements are
// checked before any file is considered. Neither manifest is modified.
func Select(t *manifest.TemplateManifest, root *manifest.RootManifest, sel language.Selection) (*Plan, error) {
	groups := manifest.MergeLanguageFiles(root.LanguageFiles, t.LanguageFiles)

	effective := slices.Clone(sel)
	for _, g := range t.Included() {
		if groups.Has(g) && !effective.Has(g) {
			effective = append(effective, g)
		}
	}

	applicable, err := language.ResolveGroups(groups, effective)
	if err != nil {
		return nil, err
	}

	if out := CheckRequirements(t, applicable); out.Status == Unmet {
		return nil, &serrors.RequirementNotMetError{Template: t.Name, Group: out.Missing[0]}
	}

	m, err := Compile(groups)
	if err != nil {
		return nil, err
	}

	p := &Plan{template: t.Name, groups: applicable.Sorted()}
	for _, f := range t.Files {
		if m.Classify(f).Intersects(applicable) {
			p.files = append(p.files, f)
		} else {
			p.excluded = append(p.excluded, f)
		}
	}
	return p, nil
}
