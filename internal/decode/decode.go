// Package decode turns uploaded schedule files into raw grids and runs them
// through layout inference. It is the boundary between file formats and the
// format-agnostic core: everything past this package operates on grids and
// tables, never on bytes.
package decode

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"ttcal/internal/layout"
	appLog "ttcal/internal/log"
	"ttcal/internal/model"
)

// Parsed is the upload-preview product: the normalized long-format table,
// the suggested semantic role mapping, and workbook metadata.
type Parsed struct {
	Table           model.NormalizedTable
	Suggested       model.RoleMapping
	SheetUsed       string
	AvailableSheets []string
}

// File decodes an uploaded schedule by extension (.csv or .xlsx), infers its
// layout, canonicalizes the time column, and suggests a role mapping.
// sheetName narrows workbook parsing to a single sheet when non-empty.
func File(r io.Reader, filename, sheetName string) (Parsed, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		grid, err := CSV(r)
		if err != nil {
			return Parsed{}, err
		}
		return fromGrid(grid, "", nil), nil
	case ".xlsx":
		return Workbook(r, sheetName)
	default:
		return Parsed{}, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

// CSV reads comma-separated text into a raw grid. Records may have varying
// field counts; layout inference squares the grid up later.
func CSV(r io.Reader) (model.RawGrid, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}

	grid := make(model.RawGrid, len(records))
	for i, rec := range records {
		grid[i] = rec
	}
	return grid, nil
}

// Workbook decodes an XLSX workbook. When sheetName is empty every sheet is
// inferred and the one yielding the largest normalized table wins; a named
// sheet is used as-is.
func Workbook(r io.Reader, sheetName string) (Parsed, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Parsed{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	targets := sheets
	if sheetName != "" {
		targets = nil
		for _, s := range sheets {
			if s == sheetName {
				targets = []string{s}
				break
			}
		}
		if targets == nil {
			return Parsed{}, fmt.Errorf("sheet %q not found", sheetName)
		}
	}

	var (
		best      model.NormalizedTable
		bestSheet string
		found     bool
	)
	for _, sheet := range targets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			appLog.Warn("sheet read failed, skipping", "sheet", sheet, "reason", err)
			continue
		}
		table := layout.Infer(model.RawGrid(rows))
		if table.Empty() {
			continue
		}
		if !found || betterTable(table, best) {
			best = table
			bestSheet = sheet
			found = true
		}
		if sheetName != "" {
			break
		}
	}

	if !found {
		return Parsed{}, fmt.Errorf("no usable sheets in workbook")
	}

	p := fromTable(best, bestSheet, sheets)
	return p, nil
}

// betterTable orders candidate sheets by (rows, columns).
func betterTable(a, b model.NormalizedTable) bool {
	if len(a.Rows) != len(b.Rows) {
		return len(a.Rows) > len(b.Rows)
	}
	return len(a.Columns) > len(b.Columns)
}

func fromGrid(grid model.RawGrid, sheetUsed string, sheets []string) Parsed {
	return fromTable(layout.Infer(grid), sheetUsed, sheets)
}

func fromTable(table model.NormalizedTable, sheetUsed string, sheets []string) Parsed {
	table = layout.NormalizeTimeColumn(table)
	return Parsed{
		Table:           table,
		Suggested:       layout.MapRoles(table.Columns),
		SheetUsed:       sheetUsed,
		AvailableSheets: sheets,
	}
}
