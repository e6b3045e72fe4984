package selection

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
)

func exampleRoot() *manifest.RootManifest {
	return &manifest.RootManifest{
		Templates: []string{"t"},
		LanguageFiles: manifest.LanguageFiles{
			"common":     {".env", ".gitignore"},
			"typescript": {"*.step.ts", "tsconfig.json"},
			"python":     {"*_step.py"},
		},
	}
}

func exampleTemplate() *manifest.TemplateManifest {
	return &manifest.TemplateManifest{
		Name:  "t",
		Files: []string{".env", "a.step.ts", "b_step.py", "tsconfig.json"},
	}
}

func TestSelect_TypeScriptOnly(t *testing.T) {
	plan, err := Select(exampleTemplate(), exampleRoot(), language.Selection{"typescript"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	want := []string{".env", "a.step.ts", "tsconfig.json"}
	if diff := cmp.Diff(want, plan.Files()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b_step.py"}, plan.Excluded()); diff != "" {
		t.Errorf("excluded mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"common", "typescript"}, plan.Groups()); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	first, err := Select(exampleTemplate(), exampleRoot(), language.Selection{"typescript", "python"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := Select(exampleTemplate(), exampleRoot(), language.Selection{"typescript", "python"})
		if err != nil {
			t.Fatalf("Select error: %v", err)
		}
		if diff := cmp.Diff(first.Files(), again.Files()); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestSelect_RequirementNotMet(t *testing.T) {
	tmpl := exampleTemplate()
	tmpl.Requires = []string{"typescript"}

	plan, err := Select(tmpl, exampleRoot(), language.Selection{"python"})
	if plan != nil {
		t.Errorf("expected no plan, got %v", plan.Files())
	}
	var unmet *serrors.RequirementNotMetError
	if !errors.As(err, &unmet) {
		t.Fatalf("expected RequirementNotMetError, got %v", err)
	}
	if unmet.Group != "typescript" {
		t.Errorf("Group = %q, want typescript", unmet.Group)
	}
	if !errors.Is(err, serrors.ErrSelection) {
		t.Error("unmet requirement should be a selection error")
	}
}

func TestSelect_UnknownLanguage(t *testing.T) {
	_, err := Select(exampleTemplate(), exampleRoot(), language.Selection{"rust"})
	var unknown *serrors.UnknownLanguageError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownLanguageError, got %v", err)
	}
}

func TestSelect_IncludedRequirements(t *testing.T) {
	tmpl := exampleTemplate()
	tmpl.Requires = []string{"python"}
	tmpl.TreatRequiredAsIncluded = true

	plan, err := Select(tmpl, exampleRoot(), language.Selection{"typescript"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	want := []string{".env", "a.step.ts", "b_step.py", "tsconfig.json"}
	if diff := cmp.Diff(want, plan.Files()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestSelect_NodeGroup(t *testing.T) {
	root := &manifest.RootManifest{
		Templates: []string{"t"},
		LanguageFiles: manifest.LanguageFiles{
			"common":     {"README.md"},
			"node":       {"package.json"},
			"javascript": {"*.step.js"},
			"typescript": {"*.step.ts"},
			"python":     {"requirements.txt"},
		},
	}
	tmpl := &manifest.TemplateManifest{
		Name:  "t",
		Files: []string{"README.md", "package.json", "a.step.js", "b.step.ts", "requirements.txt"},
	}

	tests := []struct {
		sel  language.Selection
		want []string
	}{
		{language.Selection{"javascript"}, []string{"README.md", "package.json", "a.step.js"}},
		{language.Selection{"typescript"}, []string{"README.md", "package.json", "b.step.ts"}},
		{language.Selection{"python"}, []string{"README.md", "requirements.txt"}},
		{nil, []string{"README.md"}},
	}

	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			plan, err := Select(tmpl, root, tt.sel)
			if err != nil {
				t.Fatalf("Select error: %v", err)
			}
			if diff := cmp.Diff(tt.want, plan.Files()); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelect_TemplateLanguageFiles(t *testing.T) {
	tmpl := exampleTemplate()
	tmpl.Files = append(tmpl.Files, "pyproject.toml")
	tmpl.LanguageFiles = manifest.LanguageFiles{"python": {"pyproject.toml"}}
	root := exampleRoot()

	plan, err := Select(tmpl, root, language.Selection{"python"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	want := []string{".env", "b_step.py", "pyproject.toml"}
	if diff := cmp.Diff(want, plan.Files()); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	if len(root.LanguageFiles["python"]) != 1 {
		t.Errorf("root manifest was modified: %v", root.LanguageFiles["python"])
	}
}

func TestPlan_AccessorsReturnCopies(t *testing.T) {
	plan, err := Select(exampleTemplate(), exampleRoot(), language.Selection{"typescript"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	files := plan.Files()
	files[0] = "mutated"
	if plan.Files()[0] != ".env" {
		t.Error("mutating Files() result changed the plan")
	}
	if !plan.Contains("tsconfig.json") || plan.Contains("b_step.py") {
		t.Error("Contains mismatch")
	}
	if plan.Len() != 3 || plan.Template() != "t" {
		t.Errorf("Len = %d, Template = %q", plan.Len(), plan.Template())
	}
}

func TestClassify(t *testing.T) {
	m, err := Compile(manifest.LanguageFiles{
		"common":     {".env", "README*"},
		"typescript": {"*.step.ts", "src/**/*.ts"},
		"python":     {"*_step.py", "services/*/main.py"},
	})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	tests := []struct {
		file string
		want []string
	}{
		{".env", []string{"common"}},
		{"nested/.env", []string{"common"}},
		{"README.md", []string{"common"}},
		{"steps/a.step.ts", []string{"typescript"}},
		{"src/lib/util.ts", []string{"typescript"}},
		{"src/a.step.ts", []string{"typescript"}},
		{"lib/util.ts", []string{}},
		{"b_step.py", []string{"python"}},
		{"services/data/main.py", []string{"python"}},
		{"other/data/main.py", []string{}},
		{"A.STEP.TS", []string{}},
		{"a.step.ts.bak", []string{}},
		{"a.step.ts/notes.txt", []string{}},
		{"x/y/z/hello_step.py", []string{"python"}},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := m.Classify(tt.file).Sorted()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.file, diff)
			}
		})
	}
}

func TestClassify_MultipleGroups(t *testing.T) {
	m, err := Compile(manifest.LanguageFiles{
		"javascript": {"*.config.*"},
		"typescript": {"*.config.*"},
	})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	got := m.Classify("motia.config.ts").Sorted()
	if diff := cmp.Diff([]string{"javascript", "typescript"}, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_InvalidPattern(t *testing.T) {
	_, err := Compile(manifest.LanguageFiles{"common": {"[unclosed"}})
	if !errors.Is(err, serrors.ErrManifest) {
		t.Fatalf("expected manifest error for invalid pattern, got %v", err)
	}
}

func TestCheckRequirements(t *testing.T) {
	tmpl := &manifest.TemplateManifest{Name: "t", Requires: []string{"typescript", "python"}}

	got := CheckRequirements(tmpl, language.NewGroupSet("common", "typescript", "python"))
	if got.Status != Satisfied || len(got.Missing) != 0 {
		t.Errorf("expected satisfied, got %+v", got)
	}

	got = CheckRequirements(tmpl, language.NewGroupSet("common"))
	want := Outcome{Status: Unmet, Missing: []string{"typescript", "python"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outcome mismatch (-want +got):\n%s", diff)
	}
}
