package runtime

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/iii-hq/scaffolder/internal/language"
	"github.com/iii-hq/scaffolder/internal/manifest"
)

const versionTimeout = 5 * time.Second

// Tool is an executable queried with --version.
type Tool struct {
	Name   string
	Binary string
}

var (
	ToolNode   = Tool{Name: "Node.js", Binary: "node"}
	ToolBun    = Tool{Name: "Bun", Binary: "bun"}
	ToolPython = Tool{Name: "Python 3", Binary: "python3"}
	ToolCargo  = Tool{Name: "Cargo", Binary: "cargo"}
)

// Info is the result of probing one toolchain.
type Info struct {
	Name      string
	Version   string
	Available bool
}

// MissingRuntimeError lists required toolchains that were not found.
type MissingRuntimeError struct {
	Missing []string
}

func (e *MissingRuntimeError) Error() string {
	var b strings.Builder
	b.WriteString("missing required runtimes:")
	for _, m := range e.Missing {
		b.WriteString("\n  - ")
		b.WriteString(m)
	}
	return b.String()
}

// VersionFunc runs a tool's version command.
type VersionFunc func(ctx context.Context, binary string) (string, error)

// Checker checks toolchains for a selection.
type Checker struct {
	lookupVersion VersionFunc
}

// Option configures a Checker.
type Option func(*Checker)

// WithVersionFunc replaces the exec-based version lookup.
func WithVersionFunc(fn VersionFunc) Option {
	return func(c *Checker) {
		c.lookupVersion = fn
	}
}

// NewChecker creates a Checker with the given options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{lookupVersion: execVersion}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckRuntimes checks the toolchains for languages with the default Checker.
func CheckRuntimes(ctx context.Context, languages, advisory language.Selection) ([]Info, error) {
	return NewChecker().Check(ctx, languages, advisory)
}

// Check looks up the toolchains languages need. A missing toolchain fails the
// check unless every language needing it is listed in advisory, in which
// case it is reported as unavailable instead.
func (c *Checker) Check(ctx context.Context, languages, advisory language.Selection) ([]Info, error) {
	var (
		results []Info
		missing []string
	)

	var jsLangs []string
	for _, l := range languages {
		if l == manifest.GroupJavaScript || l == manifest.GroupTypeScript {
			jsLangs = append(jsLangs, l)
		}
	}
	if len(jsLangs) > 0 {
		bun := c.info(ctx, ToolBun)
		node := c.info(ctx, ToolNode)
		if bun.Available {
			results = append(results, bun)
		}
		if node.Available {
			results = append(results, node)
		}
		if !bun.Available && !node.Available {
			if allIn(jsLangs, advisory) {
				results = append(results, Info{Name: "Node.js or Bun"})
			} else {
				missing = append(missing, "Node.js or Bun (install from https://nodejs.org or https://bun.sh)")
			}
		}
	}

	single := []struct {
		lang string
		tool Tool
		hint string
	}{
		{manifest.GroupPython, ToolPython, "Python 3 (install from https://python.org)"},
		{manifest.GroupRust, ToolCargo, "Cargo/Rust (install from https://rustup.rs)"},
	}
	for _, s := range single {
		if !languages.Has(s.lang) {
			continue
		}
		info := c.info(ctx, s.tool)
		switch {
		case info.Available:
			results = append(results, info)
		case advisory.Has(s.lang):
			results = append(results, info)
		default:
			missing = append(missing, s.hint)
		}
	}

	if len(missing) > 0 {
		return results, &MissingRuntimeError{Missing: missing}
	}
	return results, nil
}

func (c *Checker) info(ctx context.Context, t Tool) Info {
	version, err := c.lookupVersion(ctx, t.Binary)
	if err != nil {
		return Info{Name: t.Name}
	}
	return Info{Name: t.Name, Version: version, Available: true}
}

func allIn(langs []string, set language.Selection) bool {
	for _, l := range langs {
		if !set.Has(l) {
			return false
		}
	}
	return true
}

func execVersion(ctx context.Context, binary string) (string, error) {
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", binary, err)
	}
	return strings.TrimSpace(string(out)), nil
}
