// Package language turns a user's language selection into the set of
// language_files groups that apply to it.
package language

import (
	"slices"
	"sort"
	"strings"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/manifest"
)

var aliases = map[string]string{
	"ts":         manifest.GroupTypeScript,
	"typescript": manifest.GroupTypeScript,
	"js":         manifest.GroupJavaScript,
	"javascript": manifest.GroupJavaScript,
	"py":         manifest.GroupPython,
	"python":     manifest.GroupPython,
	"rs":         manifest.GroupRust,
	"rust":       manifest.GroupRust,
}

var displayNames = map[string]string{
	manifest.GroupTypeScript: "TypeScript",
	manifest.GroupJavaScript: "JavaScript",
	manifest.GroupPython:     "Python",
	manifest.GroupRust:       "Rust",
}

// Selection is an ordered, de-duplicated list of requested language
// identifiers.
type Selection []string

// Has reports whether lang was requested.
func (s Selection) Has(lang string) bool {
	return slices.Contains(s, lang)
}

// String renders the selection as a comma-separated list.
func (s Selection) String() string {
	return strings.Join(s, ",")
}

// ParseSelection normalizes user input. Each argument may hold a
// comma-separated list; names are case-insensitive and the short aliases
// ts, js, py and rs are accepted. Unrecognized names are kept lower-cased so
// Resolve can report them against the manifest.
func ParseSelection(args []string) Selection {
	var sel Selection
	for _, arg := range args {
		for _, tok := range strings.Split(arg, ",") {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			if canonical, ok := aliases[tok]; ok {
				tok = canonical
			}
			if !sel.Has(tok) {
				sel = append(sel, tok)
			}
		}
	}
	return sel
}

// DisplayName returns a human-readable name for a language identifier.
func DisplayName(lang string) string {
	if name, ok := displayNames[lang]; ok {
		return name
	}
	return lang
}

// GroupSet is a set of group names.
type GroupSet map[string]struct{}

// NewGroupSet returns a set holding names.
func NewGroupSet(names ...string) GroupSet {
	gs := make(GroupSet, len(names))
	for _, n := range names {
		gs[n] = struct{}{}
	}
	return gs
}

// Has reports whether group is in the set.
func (gs GroupSet) Has(group string) bool {
	_, ok := gs[group]
	return ok
}

// Add inserts group into the set.
func (gs GroupSet) Add(group string) {
	gs[group] = struct{}{}
}

// Intersects reports whether the two sets share a member.
func (gs GroupSet) Intersects(other GroupSet) bool {
	for g := range gs {
		if other.Has(g) {
			return true
		}
	}
	return false
}

// Sorted returns the members in sorted order.
func (gs GroupSet) Sorted() []string {
	out := make([]string, 0, len(gs))
	for g := range gs {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Resolve computes the applicable groups for sel against the root manifest.
func Resolve(root *manifest.RootManifest, sel Selection) (GroupSet, error) {
	return ResolveGroups(root.LanguageFiles, sel)
}

// ResolveGroups computes the applicable groups for sel: common always, every
// requested language, and node whenever javascript or typescript is
// requested. Every requested language must be a declared group.
func ResolveGroups(groups manifest.LanguageFiles, sel Selection) (GroupSet, error) {
	gs := NewGroupSet(manifest.GroupCommon)
	for _, lang := range sel {
		if !groups.Has(lang) {
			return nil, &serrors.UnknownLanguageError{Language: lang, Known: Languages(groups)}
		}
		gs.Add(lang)
	}
	if gs.Has(manifest.GroupJavaScript) || gs.Has(manifest.GroupTypeScript) {
		gs.Add(manifest.GroupNode)
	}
	return gs, nil
}

// Languages lists the selectable groups of a manifest: every declared group
// except the implicit common and node groups.
func Languages(groups manifest.LanguageFiles) []string {
	var out []string
	for _, g := range groups.Groups() {
		if g == manifest.GroupCommon || g == manifest.GroupNode {
			continue
		}
		out = append(out, g)
	}
	return out
}
