package layout

import (
	"strings"

	"ttcal/internal/model"
	"ttcal/internal/timenorm"
)

// NormalizeTimeColumn canonicalizes the time notation in the first column
// whose name looks like a time/period column, returning a new table. Tables
// without such a column come back unchanged.
func NormalizeTimeColumn(t model.NormalizedTable) model.NormalizedTable {
	timeCol := ""
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		if strings.Contains(lower, "time") || strings.Contains(lower, "period") {
			timeCol = col
			break
		}
	}
	if timeCol == "" {
		return t
	}

	out := model.NormalizedTable{Columns: t.Columns, Rows: make([]map[string]string, 0, len(t.Rows))}
	for _, row := range t.Rows {
		next := make(map[string]string, len(row))
		for k, v := range row {
			next[k] = v
		}
		if v := next[timeCol]; v != "" {
			next[timeCol] = timenorm.Normalize(v)
		}
		out.Rows = append(out.Rows, next)
	}
	return out
}
