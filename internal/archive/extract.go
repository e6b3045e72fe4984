package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/relpath"
)

// Default extraction limits.
const (
	DefaultMaxEntrySize int64 = 64 << 20
	DefaultMaxTotalSize int64 = 256 << 20
)

// FileTable maps normalized relative paths to file contents.
type FileTable map[string][]byte

// Extracted is the result of a successful extraction.
type Extracted struct {
	Files FileTable
	// Order lists the entry paths as they appear in the archive.
	Order []string
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

type extractConfig struct {
	maxEntry int64
	maxTotal int64
}

// WithLimits overrides the per-entry and total uncompressed size limits.
// Non-positive values keep the default.
func WithLimits(maxEntry, maxTotal int64) ExtractOption {
	return func(c *extractConfig) {
		if maxEntry > 0 {
			c.maxEntry = maxEntry
		}
		if maxTotal > 0 {
			c.maxTotal = maxTotal
		}
	}
}

// Extract reads every file entry of a zip stream into memory. Any entry that
// is absolute or escapes the root fails the whole extraction.
func Extract(data []byte, opts ...ExtractOption) (*Extracted, error) {
	cfg := &extractConfig{maxEntry: DefaultMaxEntrySize, maxTotal: DefaultMaxTotalSize}
	for _, opt := range opts {
		opt(cfg)
	}

	// Entry names are checked below, so an insecure-path report is not fatal.
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, &serrors.CorruptArchiveError{Reason: "not a zip archive", Cause: err}
	}

	// Validate every name before reading any content.
	names := make([]string, len(zr.File))
	for i, f := range zr.File {
		name, err := entryName(f)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}

	out := &Extracted{Files: make(FileTable, len(zr.File))}
	var total int64
	for i, f := range zr.File {
		name := names[i]
		if name == "" {
			continue
		}
		if _, dup := out.Files[name]; dup {
			return nil, &serrors.CorruptArchiveError{Reason: fmt.Sprintf("duplicate entry %q", name)}
		}

		content, err := readEntry(f, cfg.maxEntry)
		if err != nil {
			return nil, err
		}
		total += int64(len(content))
		if total > cfg.maxTotal {
			return nil, &serrors.CorruptArchiveError{Reason: fmt.Sprintf("archive exceeds %d bytes uncompressed", cfg.maxTotal)}
		}

		out.Files[name] = content
		out.Order = append(out.Order, name)
	}
	return out, nil
}

// entryName validates and normalizes an entry name. Directory entries yield
// an empty name.
func entryName(f *zip.File) (string, error) {
	name, err := relpath.Normalize(f.Name)
	switch {
	case errors.Is(err, relpath.ErrEmpty):
		if strings.HasSuffix(f.Name, "/") {
			return "", nil
		}
		return "", &serrors.CorruptArchiveError{Reason: fmt.Sprintf("entry with empty name %q", f.Name)}
	case err != nil:
		return "", &serrors.PathTraversalError{Path: f.Name, Phase: serrors.PhaseExtraction}
	}

	mode := f.Mode()
	switch {
	case mode.IsDir() || strings.HasSuffix(f.Name, "/"):
		return "", nil
	case mode&fs.ModeSymlink != 0:
		return "", &serrors.CorruptArchiveError{Reason: fmt.Sprintf("entry %q is a symbolic link", f.Name)}
	}
	return name, nil
}

func readEntry(f *zip.File, limit int64) ([]byte, error) {
	if f.UncompressedSize64 > uint64(limit) {
		return nil, &serrors.CorruptArchiveError{Reason: fmt.Sprintf("entry %q exceeds %d bytes", f.Name, limit)}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, &serrors.CorruptArchiveError{Reason: fmt.Sprintf("opening entry %q", f.Name), Cause: err}
	}
	defer rc.Close()

	// Read one byte past the limit so a lying header is still caught.
	content, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, &serrors.CorruptArchiveError{Reason: fmt.Sprintf("reading entry %q", f.Name), Cause: err}
	}
	if int64(len(content)) > limit {
		return nil, &serrors.CorruptArchiveError{Reason: fmt.Sprintf("entry %q exceeds %d bytes", f.Name, limit)}
	}
	return content, nil
}
