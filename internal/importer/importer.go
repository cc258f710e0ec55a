// Package importer provides CSV and Excel import of request lists, and
// image loading for atlas generation.
// Request lists support automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/atlaspack/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Requests []model.Request
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ID     int
	Width  int
	Height int
}

// Column roles recognized in a header row.
const (
	roleID     = "id"
	roleWidth  = "width"
	roleHeight = "height"
)

// headerAliases maps each column role to its accepted header names (all lowercase).
var headerAliases = map[string][]string{
	roleID:     {"id", "name", "label", "file", "filename", "path", "image", "sprite", "key"},
	roleWidth:  {"width", "w", "px width", "width (px)"},
	roleHeight: {"height", "h", "px height", "height (px)"},
}

// aliasRoles is headerAliases inverted for lookup by header cell.
var aliasRoles = func() map[string]string {
	m := make(map[string]string)
	for role, aliases := range headerAliases {
		for _, a := range aliases {
			m[a] = role
		}
	}
	return m
}()

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and
// pipe that splits the first line into at least two columns and keeps the
// most lines at that width. Comma wins when nothing scores.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		if score := delimiterScore(data, delim); score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// delimiterScore weights consistent lines over column count, so a
// delimiter that also occurs inside IDs does not win on width alone.
func delimiterScore(data []byte, delim rune) int {
	records, err := readCSV(bytes.NewReader(data), delim)
	if err != nil || len(records) == 0 || len(records[0]) < 2 {
		return 0
	}
	width := len(records[0])
	consistent := 0
	for _, row := range records {
		if len(row) == width {
			consistent++
		}
	}
	return consistent*10 + width
}

// readCSV reads every record, tolerating ragged rows and stray quotes.
func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// DetectColumns maps a header row to column indices, matching known
// aliases case-insensitively. The first column claiming a role wins.
// Without any recognized header cell it returns the positional mapping
// id, width, height and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Width: -1, Height: -1}
	found := false
	for i, cell := range row {
		role, ok := aliasRoles[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		found = true
		mapping.claim(role, i)
	}
	if !found {
		return ColumnMapping{ID: 0, Width: 1, Height: 2}, false
	}
	return mapping, true
}

func (m *ColumnMapping) claim(role string, idx int) {
	var slot *int
	switch role {
	case roleID:
		slot = &m.ID
	case roleWidth:
		slot = &m.Width
	case roleHeight:
		slot = &m.Height
	}
	if slot != nil && *slot == -1 {
		*slot = idx
	}
}

// missing lists the required columns a header did not name.
func (m ColumnMapping) missing() []string {
	var out []string
	if m.Width == -1 {
		out = append(out, "Width")
	}
	if m.Height == -1 {
		out = append(out, "Height")
	}
	return out
}

// getCell returns the trimmed cell at idx, or "" when idx is out of range.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseSize parses a pixel dimension. Whole-number decimals such as "64.0"
// (common in spreadsheets) are accepted.
func parseSize(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// dimension reads one size column, returning a row error message on failure.
func dimension(row []string, idx int, name, rowLabel string) (int, string) {
	raw := getCell(row, idx)
	if raw == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	n, ok := parseSize(raw)
	if !ok {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, raw)
	}
	return n, ""
}

// parseRow extracts a Request from a row using the given column mapping.
// Returns the request, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Request, string, string) {
	width, errMsg := dimension(row, mapping.Width, "width", rowLabel)
	if errMsg != "" {
		return model.Request{}, errMsg, ""
	}
	height, errMsg := dimension(row, mapping.Height, "height", rowLabel)
	if errMsg != "" {
		return model.Request{}, errMsg, ""
	}
	if width <= 0 || height <= 0 {
		return model.Request{}, fmt.Sprintf("%s: Width and height must be positive", rowLabel), ""
	}

	id := getCell(row, mapping.ID)
	if id == "" {
		req := model.NewAnonymousRequest(width, height)
		return req, "", fmt.Sprintf("%s: Missing id, generated '%s'", rowLabel, req.ID)
	}
	return model.NewRequest(id, width, height), "", ""
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportFile dispatches on the file extension: .xlsx/.xlsm go through
// ImportExcel, everything else through ImportCSV.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// ImportCSV imports requests from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimiterNames[delimiter]))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports requests from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	records, err := readCSV(reader, delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports requests from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows turns sheet or CSV rows into requests in file order.
// Row problems are collected rather than returned, and a repeated id is
// an error because ids key the metadata.
func importFromRows(rows [][]string, rowPrefix string, warnings []string) ImportResult {
	result := ImportResult{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, start, err := headerLayout(rows[0])
	if err != "" {
		result.Errors = append(result.Errors, err)
		return result
	}
	if start > 0 {
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	firstSeen := make(map[string]string)
	for i, row := range rows[start:] {
		if isEmptyRow(row) {
			continue
		}
		rowLabel := fmt.Sprintf("%s %d", rowPrefix, start+i+1)

		req, errMsg, warning := parseRow(row, mapping, rowLabel)
		if errMsg == "" {
			if prev, dup := firstSeen[req.ID]; dup {
				errMsg = fmt.Sprintf("%s: Duplicate id '%s' (first seen on %s)", rowLabel, req.ID, prev)
			}
		}
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		firstSeen[req.ID] = rowLabel
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}
		result.Requests = append(result.Requests, req)
	}
	return result
}

// headerLayout decides how to read the rows that follow first: the column
// mapping, and the index of the first data row. A first row whose width
// cell is not a number is treated as an unrecognized header.
func headerLayout(first []string) (ColumnMapping, int, string) {
	mapping, hasHeader := DetectColumns(first)
	if hasHeader {
		if missing := mapping.missing(); len(missing) > 0 {
			return mapping, 0, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", "))
		}
		return mapping, 1, ""
	}
	if len(first) >= 3 {
		if _, ok := parseSize(getCell(first, mapping.Width)); !ok {
			return mapping, 1, ""
		}
	}
	return mapping, 0, ""
}
