package fetch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iii-hq/scaffolder/internal/manifest"
	"github.com/iii-hq/scaffolder/internal/output"
)

// FetchRootManifest reads the root manifest from src.
func FetchRootManifest(ctx context.Context, src Source) (*manifest.RootManifest, error) {
	output.Debug("fetching root manifest", "source", src.Location())
	return src.RootManifest(ctx)
}

// FetchTemplateManifest reads the published manifest of template name from src.
func FetchTemplateManifest(ctx context.Context, src Source, name string) (*manifest.TemplateManifest, error) {
	output.Debug("fetching template manifest", "source", src.Location(), "template", name)
	return src.TemplateManifest(ctx, name)
}

// FetchTemplateArchive reads the archive for template name from src.
func FetchTemplateArchive(ctx context.Context, src Source, name string) ([]byte, error) {
	output.Debug("fetching template archive", "source", src.Location(), "template", name)
	data, err := src.TemplateArchive(ctx, name)
	if err != nil {
		return nil, err
	}
	output.Debug("fetched template archive", "template", name, "bytes", len(data))
	return data, nil
}

// Template is everything needed to scaffold one template.
type Template struct {
	Root     *manifest.RootManifest
	Manifest *manifest.TemplateManifest
	Archive  []byte
}

// FetchTemplate reads the root manifest, the template manifest and the
// archive for name concurrently. A root manifest failure cancels the other
// reads and is returned. When only the template reads fail, the returned
// Template still holds the root manifest so callers can tell an unknown
// template from a broken one.
func FetchTemplate(ctx context.Context, src Source, name string) (*Template, error) {
	tctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		out     Template
		rootErr error
	)
	rootDone := make(chan struct{})
	go func() {
		defer close(rootDone)
		out.Root, rootErr = FetchRootManifest(ctx, src)
		if rootErr != nil {
			cancel()
		}
	}()

	g, gctx := errgroup.WithContext(tctx)
	g.Go(func() error {
		var err error
		out.Manifest, err = FetchTemplateManifest(gctx, src, name)
		return err
	})
	g.Go(func() error {
		var err error
		out.Archive, err = FetchTemplateArchive(gctx, src, name)
		return err
	})
	templateErr := g.Wait()
	<-rootDone

	if rootErr != nil {
		return nil, rootErr
	}
	if templateErr != nil {
		return &Template{Root: out.Root}, templateErr
	}
	return &out, nil
}
