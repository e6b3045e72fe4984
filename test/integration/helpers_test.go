//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir      string // SCAFFOLDER_HOME
	TemplatesDir string // templates root with template.yaml
	ProjectDir   string // parent of scaffold targets
}

// setupTestEnv creates isolated temp directories and points SCAFFOLDER_HOME
// at one of them. The env var is restored after the test.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:      t.TempDir(),
		TemplatesDir: t.TempDir(),
		ProjectDir:   t.TempDir(),
	}
	t.Setenv("SCAFFOLDER_HOME", env.HomeDir)
	return env
}

// setupTemplates writes a synthetic templates tree with two templates and a
// shared file.
func setupTemplates(t *testing.T, dir string) {
	t.Helper()

	writeFile(t, filepath.Join(dir, "template.yaml"), `templates:
  - quickstart
  - multi-language
language_files:
  common: [.env, .gitignore, README.md]
  node: [package.json]
  typescript: ["*.step.ts", tsconfig.json]
  javascript: ["*.step.js"]
  python: ["*_step.py", requirements.txt]
shared_files:
  - source: shared/gitignore
    dest: .gitignore
`)
	writeFile(t, filepath.Join(dir, "shared", "gitignore"), "node_modules/\n__pycache__/\n")

	// --- quickstart: TypeScript required, Python optional ---
	writeFile(t, filepath.Join(dir, "quickstart", "template.yaml"), `name: quickstart
description: Minimal TypeScript starter
version: 1.0.0
requires: [typescript]
optional: [python]
files:
  - .env
  - README.md
  - package.json
  - tsconfig.json
  - steps/hello.step.ts
  - steps/hello_step.py
  - requirements.txt
`)
	writeFile(t, filepath.Join(dir, "quickstart", ".env"), "PORT=3000\n")
	writeFile(t, filepath.Join(dir, "quickstart", "README.md"), "# Quickstart\n")
	writeFile(t, filepath.Join(dir, "quickstart", "package.json"), `{"name":"quickstart"}`+"\n")
	writeFile(t, filepath.Join(dir, "quickstart", "tsconfig.json"), "{}\n")
	writeFile(t, filepath.Join(dir, "quickstart", "steps", "hello.step.ts"), "export const config = {}\n")
	writeFile(t, filepath.Join(dir, "quickstart", "steps", "hello_step.py"), "config = {}\n")
	writeFile(t, filepath.Join(dir, "quickstart", "requirements.txt"), "motia\n")
	writeFile(t, filepath.Join(dir, "quickstart", "notes.txt"), "not declared\n")

	// --- multi-language: no requirements ---
	writeFile(t, filepath.Join(dir, "multi-language", "template.yaml"), `name: multi-language
description: Steps in every language
version: 1.0.0
files:
  - .env
  - package.json
  - a.step.js
  - b_step.py
`)
	writeFile(t, filepath.Join(dir, "multi-language", ".env"), "A=1\n")
	writeFile(t, filepath.Join(dir, "multi-language", "package.json"), "{}\n")
	writeFile(t, filepath.Join(dir, "multi-language", "a.step.js"), "module.exports = {}\n")
	writeFile(t, filepath.Join(dir, "multi-language", "b_step.py"), "pass\n")
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFileNotExists fails the test if the file exists.
func assertFileNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("expected file NOT to exist: %s", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
