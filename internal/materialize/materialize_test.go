package materialize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/iii-hq/scaffolder/internal/archive"
	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/selection"
)

func testPlan(t *testing.T) (*selection.Plan, archive.FileTable) {
	t.Helper()
	root := &manifest.RootManifest{
		Templates: []string{"quickstart"},
		LanguageFiles: manifest.LanguageFiles{
			"common":     {".env"},
			"typescript": {"*.step.ts"},
			"python":     {"*_step.py"},
		},
	}
	tmpl := &manifest.TemplateManifest{
		Name:  "quickstart",
		Files: []string{".env", "steps/a.step.ts", "steps/b_step.py"},
	}
	plan, err := selection.Select(tmpl, root, language.Selection{"typescript"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	table := archive.FileTable{
		".env":            []byte("A=1\n"),
		"steps/a.step.ts": []byte("export {}\n"),
		"steps/b_step.py": []byte("pass\n"),
	}
	return plan, table
}

// siblings lists entries next to target other than target itself.
func siblings(t *testing.T, target string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatal(err)
	}
	var out []string
	for _, e := range entries {
		if e.Name() != filepath.Base(target) {
			out = append(out, e.Name())
		}
	}
	return out
}

func TestMaterialize_NewDirectory(t *testing.T) {
	plan, table := testPlan(t)
	target := filepath.Join(t.TempDir(), "nested", "my-app")

	res, err := Materialize(context.Background(), plan, table, target)
	if err != nil {
		t.Fatalf("Materialize error: %v", err)
	}
	if res.Dir != target || res.Replaced {
		t.Errorf("result = %+v", res)
	}
	if len(res.Files) != 2 {
		t.Errorf("Files = %v", res.Files)
	}

	got, err := os.ReadFile(filepath.Join(target, "steps", "a.step.ts"))
	if err != nil {
		t.Fatalf("reading materialized file: %v", err)
	}
	if string(got) != "export {}\n" {
		t.Errorf("a.step.ts = %q", got)
	}
	if _, err := os.Stat(filepath.Join(target, "steps", "b_step.py")); !os.IsNotExist(err) {
		t.Error("excluded file was written")
	}
	if s := siblings(t, target); len(s) != 0 {
		t.Errorf("staging leftovers: %v", s)
	}
}

func TestMaterialize_RefusesNonEmptyTarget(t *testing.T) {
	plan, table := testPlan(t)
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "keep.txt"), []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Materialize(context.Background(), plan, table, target)
	var notEmpty *serrors.TargetNotEmptyError
	if !errors.As(err, &notEmpty) {
		t.Fatalf("expected TargetNotEmptyError, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, "keep.txt")); err != nil {
		t.Errorf("existing file disturbed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(target, ".env")); !os.IsNotExist(err) {
		t.Error("files were written into a refused target")
	}
}

func TestMaterialize_RefusesFileTarget(t *testing.T) {
	plan, table := testPlan(t)
	target := filepath.Join(t.TempDir(), "app")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Materialize(context.Background(), plan, table, target, WithOverwrite(true)); !errors.Is(err, serrors.ErrArchive) {
		t.Fatalf("expected archive error for file target, got %v", err)
	}
}

func TestMaterialize_EmptyTargetIsFilled(t *testing.T) {
	plan, table := testPlan(t)
	target := filepath.Join(t.TempDir(), "app")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := Materialize(context.Background(), plan, table, target)
	if err != nil {
		t.Fatalf("Materialize error: %v", err)
	}
	if res.Replaced {
		t.Error("an empty directory has nothing to replace")
	}
	if _, err := os.Stat(filepath.Join(target, ".env")); err != nil {
		t.Errorf(".env missing: %v", err)
	}
	if s := siblings(t, target); len(s) != 0 {
		t.Errorf("leftovers: %v", s)
	}
}

func TestMaterialize_Overwrite(t *testing.T) {
	plan, table := testPlan(t)
	target := filepath.Join(t.TempDir(), "app")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "old.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Materialize(context.Background(), plan, table, target, WithOverwrite(true))
	if err != nil {
		t.Fatalf("Materialize error: %v", err)
	}
	if !res.Replaced {
		t.Error("expected Replaced for a populated directory")
	}
	if _, err := os.Stat(filepath.Join(target, "old.txt")); !os.IsNotExist(err) {
		t.Error("old content survived an overwrite")
	}
	if _, err := os.Stat(filepath.Join(target, ".env")); err != nil {
		t.Errorf(".env missing: %v", err)
	}
	if s := siblings(t, target); len(s) != 0 {
		t.Errorf("backup or staging leftovers: %v", s)
	}
}

func TestMaterialize_CancelledLeavesTargetUntouched(t *testing.T) {
	plan, table := testPlan(t)
	target := filepath.Join(t.TempDir(), "app")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "old.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Materialize(ctx, plan, table, target, WithOverwrite(true))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	got, err := os.ReadFile(filepath.Join(target, "old.txt"))
	if err != nil || string(got) != "old" {
		t.Fatalf("target changed after cancellation: %q, %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(target, ".env")); !os.IsNotExist(err) {
		t.Error("files were written after cancellation")
	}
	if s := siblings(t, target); len(s) != 0 {
		t.Errorf("staging leftovers: %v", s)
	}
}

func TestMaterialize_MissingTableEntry(t *testing.T) {
	plan, table := testPlan(t)
	delete(table, "steps/a.step.ts")
	dir := t.TempDir()
	target := filepath.Join(dir, "app")

	_, err := Materialize(context.Background(), plan, table, target)
	var missing *serrors.MissingFileError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFileError, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("filesystem was touched: %v", entries)
	}
}

// failingFs wraps an afero.Fs and fails selected operations.
type failingFs struct {
	afero.Fs
	failWrite  string // fail OpenFile for paths with this suffix
	failRename func(oldname, newname string) bool
}

func (f *failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failWrite != "" && strings.HasSuffix(name, f.failWrite) {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *failingFs) Rename(oldname, newname string) error {
	if f.failRename != nil && f.failRename(oldname, newname) {
		return errors.New("rename refused")
	}
	return f.Fs.Rename(oldname, newname)
}

func TestMaterialize_WriteFailureLeavesNothing(t *testing.T) {
	plan, table := testPlan(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "app")

	fsys := &failingFs{Fs: afero.NewOsFs(), failWrite: "a.step.ts"}
	_, err := Materialize(context.Background(), plan, table, target, WithFs(fsys))
	if !errors.Is(err, serrors.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no target and no staging dir, found %v", entries)
	}
}

func TestMaterialize_RollbackOnFailedSwap(t *testing.T) {
	plan, table := testPlan(t)
	dir := t.TempDir()
	target := filepath.Join(dir, "app")
	if err := os.MkdirAll(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "old.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	fsys := &failingFs{
		Fs: afero.NewOsFs(),
		failRename: func(oldname, newname string) bool {
			return strings.Contains(filepath.Base(oldname), ".scaffold-") && newname == target
		},
	}
	_, err := Materialize(context.Background(), plan, table, target, WithFs(fsys), WithOverwrite(true))
	if !errors.Is(err, serrors.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}

	got, err := os.ReadFile(filepath.Join(target, "old.txt"))
	if err != nil || string(got) != "old" {
		t.Fatalf("previous directory not restored: %q, %v", got, err)
	}
	if s := siblings(t, target); len(s) != 0 {
		t.Errorf("leftovers after rollback: %v", s)
	}
}
