package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CheckCompatibility returns a warning when the CLI is older than the version
// a template declares. Missing or unparseable versions (including "dev"
// builds) produce no warning.
func CheckCompatibility(cliVersion, templateVersion string) string {
	cv, err := parseSemver(cliVersion)
	if err != nil {
		return ""
	}
	tv, err := parseSemver(templateVersion)
	if err != nil {
		return ""
	}
	if cv.LessThan(tv) {
		return fmt.Sprintf("template version %s is newer than this CLI (%s); consider upgrading", tv, cv)
	}
	return ""
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	if version == "" {
		return nil, fmt.Errorf("empty version")
	}
	return semver.NewVersion(version)
}
