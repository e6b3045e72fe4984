// Package branding provides compile-time identity values for the CLI.
//
// Forks edit branding.yaml, and Go's //go:embed bakes it into the binary.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
	TemplateURL string `yaml:"template_url"`
	DocsURL     string `yaml:"docs_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing or empty.
		defaults = brand{
			CLIName:     "scaffolder",
			DisplayName: "Scaffolder",
			Description: "Scaffold multi-language projects from versioned templates",
			HomeDir:     ".scaffolder",
			EnvPrefix:   "SCAFFOLDER",
			GoModule:    "github.com/iii-hq/scaffolder",
			GitHubRepo:  "iii-hq/cli-tooling",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "scaffolder").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".scaffolder").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "SCAFFOLDER").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GitHubRepo returns the "owner/repo" string hosting the templates.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// TemplateURL returns the default base URL templates are fetched from.
func TemplateURL() string { load(); return defaults.TemplateURL }

// DocsURL returns the product documentation URL.
func DocsURL() string { load(); return defaults.DocsURL }

// UserAgent returns the User-Agent sent with template requests.
func UserAgent(version string) string {
	load()
	return defaults.CLIName + "/" + version
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("template_url") → "SCAFFOLDER_TEMPLATE_URL".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
