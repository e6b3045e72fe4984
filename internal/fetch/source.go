package fetch

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/iii-hq/scaffolder/internal/archive"
	serrors "github.com/iii-hq/scaffolder/internal/errors"
	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/relpath"
)

// Source provides the root manifest, template manifests and template archives.
type Source interface {
	RootManifest(ctx context.Context) (*manifest.RootManifest, error)
	// TemplateManifest returns the manifest as published, without shared files.
	TemplateManifest(ctx context.Context, name string) (*manifest.TemplateManifest, error)
	TemplateArchive(ctx context.Context, name string) ([]byte, error)
	// Location describes the source for messages.
	Location() string
}

// RemoteSource reads <base>/template.yaml, <base>/<name>/template.yaml and
// <base>/<name>.zip.
type RemoteSource struct {
	base      *url.URL
	transport Transport
}

// NewRemoteSource creates a RemoteSource. The base URL's path is kept and
// its query is sent with every request.
func NewRemoteSource(baseURL string, transport Transport) (*RemoteSource, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("invalid template URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid template URL %q: scheme must be http or https", baseURL)
	}
	if transport == nil {
		transport = NewHTTPTransport()
	}
	return &RemoteSource{base: u, transport: transport}, nil
}

// URL returns the address of a file under the base URL.
func (s *RemoteSource) URL(name string) string {
	u := *s.base
	u.Path = strings.TrimSuffix(s.base.Path, "/") + "/" + name
	u.RawPath = ""
	return u.String()
}

// Location returns the base URL.
func (s *RemoteSource) Location() string { return s.base.String() }

// RootManifest fetches and parses <base>/template.yaml.
func (s *RemoteSource) RootManifest(ctx context.Context) (*manifest.RootManifest, error) {
	data, err := s.transport.Get(ctx, s.URL(manifest.FileName))
	if err != nil {
		return nil, err
	}
	return manifest.ParseRoot(data)
}

// TemplateManifest fetches and parses <base>/<name>/template.yaml.
func (s *RemoteSource) TemplateManifest(ctx context.Context, name string) (*manifest.TemplateManifest, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	data, err := s.transport.Get(ctx, s.URL(name+"/"+manifest.FileName))
	if err != nil {
		return nil, err
	}
	return manifest.ParseTemplate(data)
}

// TemplateArchive fetches <base>/<name>.zip.
func (s *RemoteSource) TemplateArchive(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	return s.transport.Get(ctx, s.URL(archive.ZipName(name)))
}

// LocalSource reads a template tree on disk and builds archives on demand.
type LocalSource struct {
	dir string
}

// NewLocalSource creates a LocalSource rooted at dir.
func NewLocalSource(dir string) *LocalSource {
	return &LocalSource{dir: dir}
}

// Location returns the templates directory.
func (s *LocalSource) Location() string { return s.dir }

// RootManifest loads <dir>/template.yaml.
func (s *LocalSource) RootManifest(ctx context.Context) (*manifest.RootManifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return manifest.LoadRoot(s.dir)
}

// TemplateManifest loads <dir>/<name>/template.yaml.
func (s *LocalSource) TemplateManifest(ctx context.Context, name string) (*manifest.TemplateManifest, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return manifest.LoadTemplate(filepath.Join(s.dir, name))
}

// TemplateArchive builds the archive for name in memory, including the root
// manifest's shared files.
func (s *LocalSource) TemplateArchive(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	root, err := s.RootManifest(ctx)
	if err != nil {
		return nil, err
	}
	if !root.HasTemplate(name) {
		return nil, &serrors.UnknownTemplateError{Template: name, Known: root.Templates}
	}

	templateDir := filepath.Join(s.dir, name)
	t, err := manifest.LoadTemplate(templateDir)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return archive.Build(templateDir, t, archive.WithSharedSources(s.dir, root.SharedFiles))
}

func checkName(name string) error {
	clean, err := relpath.Normalize(name)
	if err != nil || clean != name || !relpath.IsSingleSegment(clean) {
		return &serrors.UnknownTemplateError{Template: name}
	}
	return nil
}
