// Package errors defines the error taxonomy shared by the scaffolder packages.
//
// Every concrete error belongs to exactly one category sentinel so callers can
// branch with errors.Is(err, ErrSelection) without knowing the concrete type,
// and inspect details with errors.As when they need them.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Category sentinels.
var (
	// ErrManifest covers parse failures, missing or empty required fields and
	// path traversal in a declared path.
	ErrManifest = errors.New("manifest error")

	// ErrSelection covers unknown templates, unknown language groups and unmet
	// requirements.
	ErrSelection = errors.New("selection error")

	// ErrArchive covers missing declared files at build time, corrupt archives,
	// traversal at extraction time and refused materialization targets.
	ErrArchive = errors.New("archive error")

	// ErrIO covers disk and network failures at the transport boundary.
	ErrIO = errors.New("io error")
)

// ManifestParseError reports a structurally malformed manifest.
type ManifestParseError struct {
	Source string // manifest file or "root"/"template" when parsed from bytes
	Reason string
	Cause  error
}

func (e *ManifestParseError) Error() string {
	msg := fmt.Sprintf("parsing %s manifest: %s", e.Source, e.Reason)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ManifestParseError) Unwrap() error        { return e.Cause }
func (e *ManifestParseError) Is(target error) bool { return target == ErrManifest }

// MissingFieldError reports a required manifest field that is absent or empty.
type MissingFieldError struct {
	Source string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s manifest: required field %q is missing or empty", e.Source, e.Field)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrManifest }

// EmptyFilesError reports a template manifest whose files list is empty.
type EmptyFilesError struct {
	Template string
}

func (e *EmptyFilesError) Error() string {
	return fmt.Sprintf("template %q declares no files", e.Template)
}

func (e *EmptyFilesError) Is(target error) bool { return target == ErrManifest }

// Traversal phases for PathTraversalError.
const (
	PhaseManifest   = "manifest"
	PhaseExtraction = "extraction"
)

// PathTraversalError reports a path that is absolute or escapes its root.
// Phase tells whether it was found in a manifest or inside an archive, which
// decides its category.
type PathTraversalError struct {
	Path  string
	Phase string
}

func (e *PathTraversalError) Error() string {
	if e.Phase == PhaseExtraction {
		return fmt.Sprintf("archive entry %q escapes the extraction root", e.Path)
	}
	return fmt.Sprintf("declared path %q must be relative and may not reference a parent directory", e.Path)
}

func (e *PathTraversalError) Is(target error) bool {
	if e.Phase == PhaseExtraction {
		return target == ErrArchive
	}
	return target == ErrManifest
}

// UnknownLanguageError reports a requested language without a group in
// language_files.
type UnknownLanguageError struct {
	Language string
	Known    []string
}

func (e *UnknownLanguageError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown language %q", e.Language)
	}
	return fmt.Sprintf("unknown language %q (available: %s)", e.Language, strings.Join(e.Known, ", "))
}

func (e *UnknownLanguageError) Is(target error) bool { return target == ErrSelection }

// RequirementNotMetError reports a required group missing from the resolved
// selection.
type RequirementNotMetError struct {
	Template string
	Group    string
}

func (e *RequirementNotMetError) Error() string {
	return fmt.Sprintf("template %q requires %q, which is not part of the selection", e.Template, e.Group)
}

func (e *RequirementNotMetError) Is(target error) bool { return target == ErrSelection }

// UnknownTemplateError reports a template name the root manifest does not
// list.
type UnknownTemplateError struct {
	Template string
	Known    []string
}

func (e *UnknownTemplateError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown template %q", e.Template)
	}
	return fmt.Sprintf("unknown template %q (available: %s)", e.Template, strings.Join(e.Known, ", "))
}

func (e *UnknownTemplateError) Is(target error) bool { return target == ErrSelection }

// MissingFileError reports a declared file that could not be found, either on
// disk while building or in the extracted file table while materializing.
type MissingFileError struct {
	Path  string
	Cause error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("declared file %q not found", e.Path)
}

func (e *MissingFileError) Unwrap() error        { return e.Cause }
func (e *MissingFileError) Is(target error) bool { return target == ErrArchive }

// CorruptArchiveError reports a zip stream that cannot be read.
type CorruptArchiveError struct {
	Reason string
	Cause  error
}

func (e *CorruptArchiveError) Error() string {
	msg := "corrupt archive: " + e.Reason
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CorruptArchiveError) Unwrap() error        { return e.Cause }
func (e *CorruptArchiveError) Is(target error) bool { return target == ErrArchive }

// TargetNotEmptyError reports a refusal to materialize into a populated
// directory without an explicit overwrite.
type TargetNotEmptyError struct {
	Dir string
}

func (e *TargetNotEmptyError) Error() string {
	return fmt.Sprintf("target directory %s is not empty; use an explicit overwrite to replace it", e.Dir)
}

func (e *TargetNotEmptyError) Is(target error) bool { return target == ErrArchive }

// IOError wraps a disk or network failure with the operation and resource it
// concerned.
type IOError struct {
	Op    string // e.g. "read", "write", "fetch"
	Path  string // file path or URL
	Cause error
}

func (e *IOError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s %s failed", e.Op, e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

func (e *IOError) Unwrap() error        { return e.Cause }
func (e *IOError) Is(target error) bool { return target == ErrIO }

// NewIOError is shorthand for &IOError{...}.
func NewIOError(op, path string, cause error) error {
	return &IOError{Op: op, Path: path, Cause: cause}
}

// Exit codes per category, used by the CLI.
const (
	ExitGeneric   = 1
	ExitManifest  = 2
	ExitSelection = 3
	ExitArchive   = 4
	ExitIO        = 5
)

// ExitCode maps an error to the process exit code of its category.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrManifest):
		return ExitManifest
	case errors.Is(err, ErrSelection):
		return ExitSelection
	case errors.Is(err, ErrArchive):
		return ExitArchive
	case errors.Is(err, ErrIO):
		return ExitIO
	default:
		return ExitGeneric
	}
}
