// Package materialize writes a scaffold plan to disk atomically: files are
// staged in a sibling directory and the staging root is renamed into place
// only after every file has been written.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/iii-hq/scaffolder/internal/archive"
	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/output"
	"github.com/iii-hq/scaffolder/internal/selection"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// Result holds the outcome of a materialization.
type Result struct {
	Dir   string
	Files []string
	// Replaced is true when a populated directory was swapped out.
	Replaced bool
}

// Option configures Materialize.
type Option func(*config)

type config struct {
	fs        afero.Fs
	overwrite bool
}

// WithFs sets the filesystem to write to. The default is the OS filesystem.
func WithFs(fsys afero.Fs) Option {
	return func(c *config) {
		c.fs = fsys
	}
}

// WithOverwrite allows replacing a non-empty target directory.
func WithOverwrite(overwrite bool) Option {
	return func(c *config) {
		c.overwrite = overwrite
	}
}

// Materialize writes every file in plan, taking content from table, to
// targetDir. On failure or cancellation targetDir is left as it was. ctx is
// checked between files and before the final rename, never during it.
func Materialize(ctx context.Context, plan *selection.Plan, table archive.FileTable, targetDir string, opts ...Option) (*Result, error) {
	cfg := &config{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(cfg)
	}
	fsys := cfg.fs

	files := plan.Files()
	for _, f := range files {
		if _, ok := table[f]; !ok {
			return nil, &serrors.MissingFileError{Path: f}
		}
	}

	target := filepath.Clean(targetDir)
	exists, populated, err := checkTarget(fsys, target, cfg.overwrite)
	if err != nil {
		return nil, err
	}

	parent, base := filepath.Dir(target), filepath.Base(target)
	if err := fsys.MkdirAll(parent, dirPerm); err != nil {
		return nil, serrors.NewIOError("create", parent, err)
	}

	staging, err := afero.TempDir(fsys, parent, "."+base+".scaffold-")
	if err != nil {
		return nil, serrors.NewIOError("create", parent, err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = fsys.RemoveAll(staging)
		}
	}()

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dest := filepath.Join(staging, filepath.FromSlash(f))
		if err := fsys.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
			return nil, serrors.NewIOError("create", filepath.Dir(dest), err)
		}
		if err := afero.WriteFile(fsys, dest, table[f], filePerm); err != nil {
			return nil, serrors.NewIOError("write", dest, err)
		}
	}
	if err := fsys.Chmod(staging, dirPerm); err != nil {
		return nil, serrors.NewIOError("chmod", staging, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := commit(fsys, staging, target, exists); err != nil {
		return nil, err
	}
	committed = true

	return &Result{Dir: target, Files: files, Replaced: populated}, nil
}

// checkTarget reports whether target exists and whether it has contents,
// refusing a populated target unless overwrite is set.
func checkTarget(fsys afero.Fs, target string, overwrite bool) (exists, populated bool, err error) {
	info, err := fsys.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, false, nil
	}
	if err != nil {
		return false, false, serrors.NewIOError("stat", target, err)
	}
	if !info.IsDir() {
		return false, false, &serrors.TargetNotEmptyError{Dir: target}
	}

	empty, err := afero.IsEmpty(fsys, target)
	if err != nil {
		return false, false, serrors.NewIOError("read", target, err)
	}
	if !empty && !overwrite {
		return false, false, &serrors.TargetNotEmptyError{Dir: target}
	}
	return true, !empty, nil
}

// commit moves staging to target. An existing target is first moved to a
// backup, which is restored if the final rename fails.
func commit(fsys afero.Fs, staging, target string, exists bool) error {
	if !exists {
		if err := fsys.Rename(staging, target); err != nil {
			return serrors.NewIOError("rename", target, err)
		}
		return nil
	}

	backup := filepath.Join(filepath.Dir(target),
		fmt.Sprintf(".%s.backup-%s", filepath.Base(target), strconv.FormatInt(time.Now().UnixNano(), 36)))
	if err := fsys.Rename(target, backup); err != nil {
		return serrors.NewIOError("rename", target, err)
	}

	if err := fsys.Rename(staging, target); err != nil {
		if rbErr := fsys.Rename(backup, target); rbErr != nil {
			return serrors.NewIOError("rename", target,
				fmt.Errorf("%w (restoring previous directory from %s also failed: %v)", err, backup, rbErr))
		}
		return serrors.NewIOError("rename", target, err)
	}

	if err := fsys.RemoveAll(backup); err != nil {
		output.Warn("could not remove previous directory", "path", backup, "err", err)
	}
	return nil
}
