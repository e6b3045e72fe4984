package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/iii-hq/scaffolder/internal/branding"
)

// isolate points the config directory at a temp dir and resets viper.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SCAFFOLDER_HOME", dir)
	viper.Reset()
	t.Cleanup(viper.Reset)
	Load()
	return dir
}

func TestDir_EnvOverride(t *testing.T) {
	dir := isolate(t)
	if Dir() != dir {
		t.Errorf("Dir = %q, want %q", Dir(), dir)
	}
	if FilePath() != filepath.Join(dir, "config.yaml") {
		t.Errorf("FilePath = %q", FilePath())
	}
}

func TestTemplateURL_Precedence(t *testing.T) {
	isolate(t)
	if got := TemplateURL(); got != branding.TemplateURL() {
		t.Errorf("default TemplateURL = %q, want %q", got, branding.TemplateURL())
	}

	if err := Set(KeyTemplateURL, "https://config.example.com/templates"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if got := TemplateURL(); got != "https://config.example.com/templates" {
		t.Errorf("config TemplateURL = %q", got)
	}

	// Reload so the value comes from the file rather than an in-memory override.
	viper.Reset()
	Load()
	if got := TemplateURL(); got != "https://config.example.com/templates" {
		t.Errorf("reloaded TemplateURL = %q", got)
	}

	t.Setenv("SCAFFOLDER_TEMPLATE_URL", "https://env.example.com/templates")
	if got := TemplateURL(); got != "https://env.example.com/templates" {
		t.Errorf("env TemplateURL = %q", got)
	}
}

func TestSet_PersistsToFile(t *testing.T) {
	dir := isolate(t)
	if err := Set(KeyUserAgent, "custom/1.0"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reading config file: %v", err)
	}
	if string(data) == "" {
		t.Error("config file is empty")
	}

	viper.Reset()
	Load()
	if got := UserAgent("1.0.0"); got != "custom/1.0" {
		t.Errorf("UserAgent after reload = %q", got)
	}
}

func TestSet_Validation(t *testing.T) {
	isolate(t)
	if err := Set("mirror", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := Set(KeyHTTPTimeout, "soon"); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestHTTPTimeout(t *testing.T) {
	isolate(t)
	if got := HTTPTimeout(); got != DefaultHTTPTimeout {
		t.Errorf("default HTTPTimeout = %v", got)
	}
	if err := Set(KeyHTTPTimeout, "5s"); err != nil {
		t.Fatal(err)
	}
	if got := HTTPTimeout(); got != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", got)
	}
}

func TestUserAgent_Default(t *testing.T) {
	isolate(t)
	if got := UserAgent("0.3.0"); got != "scaffolder/0.3.0" {
		t.Errorf("UserAgent = %q", got)
	}
}
