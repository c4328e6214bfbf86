// Package importer reads content-cell labels from CSV and Excel files.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/xuri/excelize/v2"
)

// LabelRow is one imported content cell. Nil style fields keep the
// strip's defaults.
type LabelRow struct {
	Text            string
	TextColor       *model.Color
	BackgroundColor *model.Color
	Format          *model.TextFormat
}

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rows     []LabelRow
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Text       int
	TextColor  int
	Background int
	Format     int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"text":       {"text", "label", "name", "channel", "source", "description", "desc"},
	"textcolor":  {"text color", "text colour", "color", "colour", "fg", "foreground", "ink"},
	"background": {"background", "background color", "background colour", "bg", "fill", "cell color"},
	"format":     {"format", "style", "text format", "font style"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (text, text color, background, format) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Text: -1, TextColor: -1, Background: -1, Format: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "text":
					if mapping.Text == -1 {
						mapping.Text = i
					}
				case "textcolor":
					if mapping.TextColor == -1 {
						mapping.TextColor = i
					}
				case "background":
					if mapping.Background == -1 {
						mapping.Background = i
					}
				case "format":
					if mapping.Format == -1 {
						mapping.Format = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Text: 0, TextColor: 1, Background: 2, Format: 3}, false
	}
	return mapping, true
}

// ParseColor accepts a palette name ("red") or a hex value ("#ff0000").
func ParseColor(s string) (model.Color, error) {
	for _, nc := range model.StandardColors() {
		if strings.EqualFold(nc.Name, strings.TrimSpace(s)) {
			return nc.Color, nil
		}
	}
	return model.ParseHexColor(s)
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a LabelRow. Unreadable style cells produce warnings
// and leave the style at its default.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (LabelRow, []string) {
	out := LabelRow{Text: getCell(row, mapping.Text)}
	var warnings []string

	if s := getCell(row, mapping.TextColor); s != "" {
		if c, err := ParseColor(s); err == nil {
			out.TextColor = &c
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown text color '%s', using default", rowLabel, s))
		}
	}
	if s := getCell(row, mapping.Background); s != "" {
		if c, err := ParseColor(s); err == nil {
			out.BackgroundColor = &c
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown background '%s', using default", rowLabel, s))
		}
	}
	if s := getCell(row, mapping.Format); s != "" {
		if f, err := model.ParseTextFormat(s); err == nil {
			out.Format = &f
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown format '%s', using Normal", rowLabel, s))
		}
	}
	return out, warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports labels from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
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
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}
	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports labels from a CSV reader with a known delimiter.
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

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports labels from the first sheet of an Excel workbook.
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

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		if mapping.Text == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Text")
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := rowPrefix + " " + strconv.Itoa(i+1)
		label, warnings := parseRow(row, mapping, rowLabel)
		result.Warnings = append(result.Warnings, warnings...)
		result.Rows = append(result.Rows, label)
	}

	if len(result.Rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

// ApplyToStrip resizes the strip's content run to len(rows) and styles
// each cell from its row.
func ApplyToStrip(strip *model.LabelStrip, rows []LabelRow) error {
	return strip.ReplaceContent(len(rows), func(i int, st *model.SegmentStyle) {
		row := rows[i]
		st.Text = row.Text
		if row.TextColor != nil {
			st.TextColor = *row.TextColor
		}
		if row.BackgroundColor != nil {
			st.BackgroundColor = *row.BackgroundColor
		}
		if row.Format != nil {
			st.Format = *row.Format
		}
	})
}
