package selection

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/relpath"
)

// pattern is one compiled glob. Patterns without a separator match the final
// path segment; patterns with one match the whole relative path.
type pattern struct {
	glob     string
	fullPath bool
}

func (p pattern) match(file string) bool {
	target := file
	if !p.fullPath {
		target = relpath.Base(file)
	}
	ok, err := doublestar.Match(p.glob, target)
	return err == nil && ok
}

type group struct {
	name     string
	patterns []pattern
}

// Matcher classifies relative paths into language groups. It is built once
// per selection and holds no reference to the manifests it came from.
type Matcher struct {
	groups []group
}

// Compile validates and compiles the patterns of every group, in sorted group
// order.
func Compile(groups manifest.LanguageFiles) (*Matcher, error) {
	m := &Matcher{groups: make([]group, 0, len(groups))}
	for _, name := range groups.Groups() {
		g := group{name: name}
		for _, glob := range groups[name] {
			glob = strings.TrimPrefix(glob, "./")
			if !doublestar.ValidatePattern(glob) {
				return nil, &serrors.ManifestParseError{
					Source: "language_files",
					Reason: fmt.Sprintf("group %q has an invalid pattern %q", name, glob),
				}
			}
			g.patterns = append(g.patterns, pattern{
				glob:     glob,
				fullPath: strings.Contains(glob, "/"),
			})
		}
		m.groups = append(m.groups, g)
	}
	return m, nil
}

// Classify returns every group with at least one pattern matching file.
func (m *Matcher) Classify(file string) language.GroupSet {
	gs := language.NewGroupSet()
	for _, g := range m.groups {
		for _, p := range g.patterns {
			if p.match(file) {
				gs.Add(g.name)
				break
			}
		}
	}
	return gs
}

// Groups returns the compiled group names in sorted order.
func (m *Matcher) Groups() []string {
	out := make([]string, len(m.groups))
	for i, g := range m.groups {
		out[i] = g.name
	}
	return out
}
