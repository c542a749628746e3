// Package layout turns a raw 2-D grid of cell text into a flat, long-format
// table. It detects two-row hierarchical headers (day names spanning groups
// of attribute sub-columns), unpivots day-grouped columns into one row per
// occurrence, and falls back to a plain first-row header when no hierarchy
// is present.
package layout

import (
	appLog "ttcal/internal/log"
	"ttcal/internal/model"
)

// headerSearchWindow bounds the hierarchical-header scan to the first
// min(headerSearchWindow, rows)-1 row pairs.
const headerSearchWindow = 20

// Infer converts a raw grid into a normalized table. It never fails: grids
// with no usable data yield an empty table, which the caller reads as
// "no usable data" rather than an error.
func Infer(grid model.RawGrid) model.NormalizedTable {
	g := pruneGrid(grid)
	if len(g) == 0 {
		return model.NormalizedTable{}
	}

	if hdr, ok := findHierarchicalHeader(g); ok {
		if table, ok := unpivot(g, hdr); ok {
			return table
		}
		// No day produced any row; treat the detected header rows as a
		// plain flat header instead.
		appLog.Debug("layout: hierarchical unpivot yielded no rows, using flat header", "header_row", hdr)
	}

	return flatHeader(g)
}

// pruneGrid normalizes null markers, pads ragged rows to a rectangle, and
// drops rows/columns that are empty across the whole grid. The input grid is
// left untouched.
func pruneGrid(grid model.RawGrid) [][]string {
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return nil
	}

	rect := make([][]string, 0, len(grid))
	for _, row := range grid {
		out := make([]string, width)
		empty := true
		for j := 0; j < width && j < len(row); j++ {
			out[j] = cleanCell(row[j])
			if out[j] != "" {
				empty = false
			}
		}
		if !empty {
			rect = append(rect, out)
		}
	}
	if len(rect) == 0 {
		return nil
	}

	keep := make([]int, 0, width)
	for j := 0; j < width; j++ {
		for _, row := range rect {
			if row[j] != "" {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) == width {
		return rect
	}

	pruned := make([][]string, len(rect))
	for i, row := range rect {
		out := make([]string, len(keep))
		for k, j := range keep {
			out[k] = row[j]
		}
		pruned[i] = out
	}
	return pruned
}

// findHierarchicalHeader scans the first min(headerSearchWindow, rows)-1 row
// pairs top to bottom for the hierarchical signature: at least one day-name
// cell in row i and at least two attribute-keyword cells in row i+1. The
// first matching pair wins.
func findHierarchicalHeader(g [][]string) (int, bool) {
	limit := headerSearchWindow
	if len(g) < limit {
		limit = len(g)
	}
	for i := 0; i < limit-1; i++ {
		days := 0
		for _, cell := range g[i] {
			if cell != "" && matchesDay(cell) {
				days++
			}
		}
		if days < 1 {
			continue
		}
		attrs := 0
		for _, cell := range g[i+1] {
			if cell != "" && matchesAttr(cell) {
				attrs++
			}
		}
		if attrs >= 2 {
			appLog.Debug("layout: hierarchical header detected", "row", i, "days", days, "attrs", attrs)
			return i, true
		}
	}
	return 0, false
}

// slotKey addresses one output column by its (possibly non-unique) working
// label plus its positional occurrence within a tile. Name uniqueness is not
// relied on until final emission.
type slotKey struct {
	label string
	occ   int
}

// unpivot expands a grid with a two-row hierarchical header at hdr into
// long-format rows, one tile of each day's repeating attribute pattern at a
// time. Returns ok=false when no day yields any data row.
func unpivot(g [][]string, hdr int) (model.NormalizedTable, bool) {
	dayRowRaw := g[hdr]
	attrRow := g[hdr+1]
	width := len(dayRowRaw)

	// Forward-fill the day row so sub-columns under a merged day cell
	// inherit its label.
	filled := make([]string, width)
	last := ""
	for j, cell := range dayRowRaw {
		if cell != "" {
			last = cell
		}
		filled[j] = last
	}

	// Common columns apply across all days (Time, Period); day-bound columns
	// carry a day label after fill.
	var commonIdx, dayIdx []int
	for j := 0; j < width; j++ {
		if filled[j] == "" || !matchesDay(filled[j]) {
			commonIdx = append(commonIdx, j)
		} else {
			dayIdx = append(dayIdx, j)
		}
	}

	var days []string
	seenDay := make(map[string]bool)
	for _, j := range dayIdx {
		if !seenDay[filled[j]] {
			seenDay[filled[j]] = true
			days = append(days, filled[j])
		}
	}

	commonNames := make([]string, len(commonIdx))
	for k, j := range commonIdx {
		commonNames[k] = nameForCommon(attrRow, dayRowRaw, j)
	}

	body := g[hdr+2:]

	// Final column slots: Day, the common columns, then attribute labels in
	// order of first appearance. Attribute slots are keyed by label plus
	// per-tile occurrence so duplicate working labels stay distinct.
	attrSlotIndex := make(map[slotKey]int)
	var attrLabels []string

	type outRow struct {
		day    string
		common []string
		attrs  map[slotKey]string
	}
	var rows []outRow

	for _, day := range days {
		var cols []int
		for _, j := range dayIdx {
			if filled[j] == day {
				cols = append(cols, j)
			}
		}

		attrNames := make([]string, len(cols))
		for k, j := range cols {
			attrNames[k] = attrRow[j]
		}
		pattern := repeatingPattern(attrNames)
		pw := len(pattern)
		if pw == 0 {
			continue
		}

		for tile := 0; tile+pw <= len(cols); tile += pw {
			sub := cols[tile : tile+pw]
			names := fitNames(append(append([]string{}, commonNames...), pattern...), len(commonIdx)+len(sub))
			numCommon := len(commonIdx)
			if numCommon > len(names) {
				numCommon = len(names)
			}

			// Forward-fill carried values for the common slots, covering
			// multi-line cells in the body.
			fill := make([]string, numCommon)

			for _, bodyRow := range body {
				common := make([]string, numCommon)
				for k := 0; k < numCommon; k++ {
					v := bodyRow[commonIdx[k]]
					if v == "" {
						v = fill[k]
					} else {
						fill[k] = v
					}
					common[k] = v
				}

				attrs := make(map[slotKey]string, len(sub))
				occ := make(map[string]int, len(sub))
				empty := true
				for k, j := range sub {
					label := names[numCommon+k]
					key := slotKey{label: label, occ: occ[label]}
					occ[label]++
					if _, known := attrSlotIndex[key]; !known {
						attrSlotIndex[key] = len(attrLabels)
						attrLabels = append(attrLabels, label)
					}
					attrs[key] = bodyRow[j]
					if bodyRow[j] != "" {
						empty = false
					}
				}
				// Rows empty across every non-common column carry nothing.
				if empty {
					continue
				}
				rows = append(rows, outRow{day: day, common: common, attrs: attrs})
			}
		}
	}

	if len(rows) == 0 {
		return model.NormalizedTable{}, false
	}

	working := make([]string, 0, 1+len(commonNames)+len(attrLabels))
	working = append(working, "Day")
	working = append(working, commonNames...)
	working = append(working, attrLabels...)
	columns := dedupeNames(working)

	out := model.NormalizedTable{Columns: columns}
	for _, r := range rows {
		m := make(map[string]string, len(columns))
		for _, c := range columns {
			m[c] = ""
		}
		m[columns[0]] = r.day
		for k, v := range r.common {
			if 1+k < len(columns) {
				m[columns[1+k]] = v
			}
		}
		for key, v := range r.attrs {
			m[columns[1+len(commonNames)+attrSlotIndex[key]]] = v
		}
		out.Rows = append(out.Rows, m)
	}

	appLog.Debug("layout: unpivot complete", "days", len(days), "rows", len(out.Rows), "columns", len(columns))
	return out, true
}

// nameForCommon derives the output name of a common column: the attribute-row
// cell, falling back to the raw day-row cell, falling back to "Time".
func nameForCommon(attrRow, dayRowRaw []string, j int) string {
	if name := cleanCell(attrRow[j]); name != "" {
		return name
	}
	if name := cleanCell(dayRowRaw[j]); name != "" {
		return name
	}
	return "Time"
}

// repeatingPattern detects a repeating attribute sequence such as
// [Course Venue Course Venue] -> [Course Venue]. The prefix up to the second
// occurrence of the first name is the candidate; it is accepted only when the
// full sequence tiles into whole copies of it. Otherwise the entire sequence
// is the pattern.
func repeatingPattern(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	first := names[0]
	for i := 1; i < len(names); i++ {
		if names[i] != first {
			continue
		}
		p := names[:i]
		if len(names)%len(p) != 0 {
			break
		}
		consistent := true
		for k := range names {
			if names[k] != p[k%len(p)] {
				consistent = false
				break
			}
		}
		if consistent {
			return p
		}
		break
	}
	return names
}

// flatHeader treats the first row as the header and everything below as data.
func flatHeader(g [][]string) model.NormalizedTable {
	header := g[0]
	columns := dedupeNames(fitNames(header, len(header)))

	out := model.NormalizedTable{Columns: columns}
	for _, row := range g[1:] {
		m := make(map[string]string, len(columns))
		for j, c := range columns {
			if j < len(row) {
				m[c] = row[j]
			} else {
				m[c] = ""
			}
		}
		out.Rows = append(out.Rows, m)
	}
	return out
}
