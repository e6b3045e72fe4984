package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/spf13/viper"

	"github.com/iii-hq/scaffolder/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Known keys.
const (
	KeyTemplateURL = "template_url"
	KeyUserAgent   = "user_agent"
	KeyHTTPTimeout = "http_timeout"
)

// DefaultHTTPTimeout bounds a single template request.
const DefaultHTTPTimeout = 30 * time.Second

var knownKeys = []string{KeyHTTPTimeout, KeyTemplateURL, KeyUserAgent}

// Keys returns the supported configuration keys, sorted.
func Keys() []string {
	out := slices.Clone(knownKeys)
	sort.Strings(out)
	return out
}

// IsKnownKey reports whether key is a supported configuration key.
func IsKnownKey(key string) bool {
	return slices.Contains(knownKeys, key)
}

// Dir returns the config directory: $SCAFFOLDER_HOME when set, else
// ~/.scaffolder.
func Dir() string {
	if dir := os.Getenv(branding.EnvVar("home")); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()
	viper.SetDefault(KeyHTTPTimeout, DefaultHTTPTimeout.String())

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q (known keys: %v)", key, Keys())
	}
	if key == KeyHTTPTimeout {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// TemplateURL returns the template base URL: SCAFFOLDER_TEMPLATE_URL, then
// the config file, then the built-in default.
func TemplateURL() string {
	if u := viper.GetString(KeyTemplateURL); u != "" {
		return u
	}
	return branding.TemplateURL()
}

// UserAgent returns the configured User-Agent or the default for version.
func UserAgent(version string) string {
	if ua := viper.GetString(KeyUserAgent); ua != "" {
		return ua
	}
	return branding.UserAgent(version)
}

// HTTPTimeout returns the configured request timeout, falling back to the
// default for unset or invalid values.
func HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(viper.GetString(KeyHTTPTimeout))
	if err != nil || d <= 0 {
		return DefaultHTTPTimeout
	}
	return d
}
