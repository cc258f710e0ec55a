package importer

import (
	"context"
	"fmt"
	"image"
	"os"
	"runtime"

	// Registered decoders.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/atlaspack/internal/model"
)

// Source is a decoded input image.
type Source struct {
	ID     string // Identifier used in the metadata, the path as given
	Path   string
	Format string
	Image  image.Image
}

// Extent returns the pixel size of the image.
func (s Source) Extent() model.Extent {
	b := s.Image.Bounds()
	return model.NewExtent(b.Dx(), b.Dy())
}

// LoadImage decodes a single image file.
func LoadImage(path string) (Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Source{}, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return Source{ID: path, Path: path, Format: format, Image: img}, nil
}

// LoadImages decodes paths with up to workers files in flight
// (workers <= 0 means one per CPU). The result has the same order as paths.
// The first failure cancels the remaining work and is returned.
func LoadImages(ctx context.Context, paths []string, workers int) ([]Source, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	sources := make([]Source, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			src, err := LoadImage(path)
			if err != nil {
				return err
			}
			sources[i] = src
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// Requests converts decoded sources into packing requests, in order.
func Requests(sources []Source) []model.Request {
	out := make([]model.Request, len(sources))
	for i, s := range sources {
		out[i] = model.Request{ID: s.ID, Extent: s.Extent()}
	}
	return out
}

// Images indexes sources by ID for the compositor.
func Images(sources []Source) map[string]image.Image {
	out := make(map[string]image.Image, len(sources))
	for _, s := range sources {
		out[s.ID] = s.Image
	}
	return out
}
