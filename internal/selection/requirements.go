package selection

import (
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
)

// Status tags an Outcome.
type Status int

const (
	Satisfied Status = iota
	Unmet
)

func (s Status) String() string {
	if s == Satisfied {
		return "satisfied"
	}
	return "unmet"
}

// Outcome is the result of a requirement check. Missing lists the unmet
// groups in declaration order and is empty when Status is Satisfied.
type Outcome struct {
	Status  Status
	Missing []string
}

// CheckRequirements reports which of t's required groups are absent from
// applicable. It performs no I/O.
func CheckRequirements(t *manifest.TemplateManifest, applicable language.GroupSet) Outcome {
	var missing []string
	for _, g := range t.Requires {
		if !applicable.Has(g) {
			missing = append(missing, g)
		}
	}
	if len(missing) == 0 {
		return Outcome{Status: Satisfied}
	}
	return Outcome{Status: Unmet, Missing: missing}
}
