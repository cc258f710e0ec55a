package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/atlaspack/internal/model"
)

const (
	placementsSheet = "Placements"
	summarySheet    = "Summary"
)

var placementHeaders = []string{"ID", "X", "Y", "Width", "Height", "Center X", "Center Y"}

// ExportSheet writes the placements to an .xlsx workbook: a Placements
// sheet with one row per image in placement order, and a Summary sheet.
// The Placements sheet has ID/Width/Height columns, so it can be read back
// as a request list.
func ExportSheet(path string, result model.PackResult) error {
	if len(result.Placements) == 0 {
		return ErrNoPlacements
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := [][]interface{}{toRow(placementHeaders)}
	for _, p := range result.Placements {
		frag := p.Fragment()
		rows = append(rows, []interface{}{
			p.ID, p.Rect.X, p.Rect.Y, p.Requested.W, p.Requested.H, frag.Center.X, frag.Center.Y,
		})
	}
	if err := writeRows(f, placementsSheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Layout ID", result.LayoutID},
		{"Strategy", result.Strategy.String()},
		{"Canvas Width", result.Canvas.W},
		{"Canvas Height", result.Canvas.H},
		{"Images", len(result.Placements)},
		{"Used Area", result.UsedArea()},
		{"Efficiency %", result.Efficiency()},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
