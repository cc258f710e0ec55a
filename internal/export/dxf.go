package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/atlaspack/internal/model"
)

// DXF layer names.
const (
	layerCanvas     = "CANVAS"
	layerPlacements = "PLACEMENTS"
	layerLabels     = "LABELS"
)

// ExportDXF writes the canvas outline and every placement rectangle as
// LINE entities, with each ID as TEXT at the rectangle's lower-left corner.
// DXF's Y axis points up, so image rows are flipped.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Placements) == 0 {
		return ErrNoPlacements
	}

	d := dxf.NewDrawing()
	flip := func(y int) float64 { return float64(result.Canvas.H - y) }

	if _, err := d.AddLayer(layerCanvas, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	if err := outline(d, model.NewRect(0, 0, result.Canvas.W, result.Canvas.H), flip); err != nil {
		return err
	}

	if _, err := d.AddLayer(layerPlacements, color.Cyan, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	for _, p := range result.Placements {
		if err := outline(d, p.Rect, flip); err != nil {
			return fmt.Errorf("failed to draw %q: %w", p.ID, err)
		}
	}

	if _, err := d.AddLayer(layerLabels, color.Yellow, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	for _, p := range result.Placements {
		height := textHeight(p.Rect)
		if _, err := d.Text(displayName(p.ID), float64(p.Rect.X)+1, flip(p.Rect.MaxY())+1, 0, height); err != nil {
			return fmt.Errorf("failed to label %q: %w", p.ID, err)
		}
	}

	return d.SaveAs(path)
}

// outline draws the four edges of r.
func outline(d *drawing.Drawing, r model.Rect, flip func(int) float64) error {
	x0, x1 := float64(r.X), float64(r.MaxX())
	y0, y1 := flip(r.Y), flip(r.MaxY())
	edges := [4][4]float64{
		{x0, y0, x1, y0},
		{x1, y0, x1, y1},
		{x1, y1, x0, y1},
		{x0, y1, x0, y0},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
			return err
		}
	}
	return nil
}

// textHeight scales label text to the smaller side of the rectangle.
func textHeight(r model.Rect) float64 {
	side := min(r.W, r.H)
	h := float64(side) / 4
	return max(1, min(h, 16))
}
