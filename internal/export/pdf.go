package export

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/atlaspack/internal/model"
)

// fillColor represents an RGB color for a placed rectangle.
type fillColor struct {
	R, G, B int
}

var fillColors = []fillColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	rowHeight    = 6.0
)

// ExportReport generates a PDF with a scaled layout diagram of the atlas
// followed by a summary page and a placement table.
func ExportReport(path string, result model.PackResult) error {
	if len(result.Placements) == 0 {
		return ErrNoPlacements
	}
	if !result.Canvas.Valid() {
		return fmt.Errorf("invalid canvas %v", result.Canvas)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, result)

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the canvas and every placement on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Atlas %s (%d x %d px, %s)", shortLayoutID(result.LayoutID), result.Canvas.W, result.Canvas.H, result.Strategy)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Images: %d | Used area: %d px | Total area: %d px | Efficiency: %.1f%%",
		len(result.Placements), result.UsedArea(), result.TotalArea(), result.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/float64(result.Canvas.W), drawHeight/float64(result.Canvas.H))
	canvasW := float64(result.Canvas.W) * scale
	canvasH := float64(result.Canvas.H) * scale

	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Free space shows through as light grey.
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range result.Placements {
		col := fillColors[i%len(fillColors)]
		pw := float64(p.Rect.W) * scale
		ph := float64(p.Rect.H) * scale
		px := offsetX + float64(p.Rect.X)*scale
		py := offsetY + float64(p.Rect.Y)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			label := displayName(p.ID)
			dims := fmt.Sprintf("%dx%d", p.Requested.W, p.Requested.H)
			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, result.Canvas, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, result, offsetY+canvasH+5)
}

// drawDimensionAnnotations adds width and height labels outside the canvas rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, canvas model.Extent, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", canvas.W)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", canvas.H)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact color legend below the diagram, stopping at
// the page margin.
func drawLegend(pdf *fpdf.Fpdf, result model.PackResult, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range result.Placements {
		col := fillColors[i%len(fillColors)]
		label := fmt.Sprintf("%s (%dx%d)", displayName(p.ID), p.Requested.W, p.Requested.H)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY > pageHeight-marginBottom {
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the statistics block and the placement table,
// continuing the table on new pages as needed.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Atlas Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Layout ID", result.LayoutID},
		{"Strategy", result.Strategy.String()},
		{"Canvas", result.Canvas.String()},
		{"Images Placed", fmt.Sprintf("%d", len(result.Placements))},
		{"Efficiency", fmt.Sprintf("%.1f%%", result.Efficiency())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	y += 5

	colWidths := []float64{12, 95, 25, 25, 25, 25, 60}
	headers := []string{"#", "ID", "X", "Y", "Width", "Height", "Center"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += rowHeight
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, frag := range result.Fragments() {
		if y+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		p := result.Placements[i]
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			displayName(frag.ID),
			fmt.Sprintf("%d", p.Rect.X),
			fmt.Sprintf("%d", p.Rect.Y),
			fmt.Sprintf("%d", p.Requested.W),
			fmt.Sprintf("%d", p.Requested.H),
			fmt.Sprintf("%g, %g", frag.Fragment.Center.X, frag.Fragment.Center.Y),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by atlaspack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

// displayName shortens path-like IDs to their base name.
func displayName(id string) string {
	if id == "" {
		return id
	}
	return filepath.Base(id)
}

func shortLayoutID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
