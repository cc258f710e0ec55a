package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/piwi3910/atlaspack/internal/model"
)

// ErrMissingImage is returned when a placement has no source image.
var ErrMissingImage = errors.New("no image for placement")

// ComposeAtlas draws every placed image onto a transparent canvas, anchored
// at its rect's top-left corner. Pixels outside the placement rect are
// clipped.
func ComposeAtlas(canvas model.Extent, placements []model.Placement, images map[string]image.Image) (*image.NRGBA, error) {
	if canvas.W < 0 || canvas.H < 0 {
		return nil, fmt.Errorf("invalid canvas %v", canvas)
	}
	atlas := image.NewNRGBA(image.Rect(0, 0, canvas.W, canvas.H))

	for _, p := range placements {
		src, ok := images[p.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingImage, p.ID)
		}
		slot := image.Rect(p.Rect.X, p.Rect.Y, p.Rect.MaxX(), p.Rect.MaxY())
		size := src.Bounds().Size()
		dst := image.Rectangle{Min: slot.Min, Max: slot.Min.Add(size)}.Intersect(slot)
		draw.Draw(atlas, dst, src, src.Bounds().Min, draw.Src)
	}

	return atlas, nil
}

// ExportAtlas writes img as a PNG file.
func ExportAtlas(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create atlas file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode atlas: %w", err)
	}
	return f.Close()
}
