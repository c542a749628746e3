package layout

import (
	"fmt"
	"strings"
)

// Header keyword vocabularies. Matching is case-insensitive substring, so the
// short forms also catch their long variants inside decorated cells
// ("MONDAY (Week A)", "Venue / Room").
var dayKeywords = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"mon", "tue", "tues", "wed", "thu", "thur", "thurs", "fri", "sat", "sun",
}

var attrKeywords = []string{
	"course", "subject", "module", "title", "class", "type",
	"venue", "room", "room no", "rm", "location", "building", "hall", "lab", "address",
	"teacher", "instructor", "lecturer", "tutor", "code",
}

func matchesDay(cell string) bool {
	return containsAny(strings.ToLower(cell), dayKeywords)
}

func matchesAttr(cell string) bool {
	return containsAny(strings.ToLower(cell), attrKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// isBlank reports whether a cell carries no value, treating the usual
// stringified null markers the same as empty text.
func isBlank(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "nan", "none", "null":
		return true
	}
	return false
}

// cleanCell normalizes null markers to "" and trims whitespace.
func cleanCell(cell string) string {
	if isBlank(cell) {
		return ""
	}
	return strings.TrimSpace(cell)
}

// synthName is the generated name for a blank column at 1-based position n.
func synthName(n int) string {
	return fmt.Sprintf("Column_%d", n)
}

// fitNames forces a working name list to exactly n entries: truncate when too
// long, pad with synthesized names when too short. No de-duplication happens
// here; duplicate labels are legal mid-pipeline and resolved only at final
// emission.
func fitNames(names []string, n int) []string {
	if n <= 0 {
		return nil
	}
	fitted := make([]string, n)
	for i := 0; i < n; i++ {
		name := ""
		if i < len(names) {
			name = cleanCell(names[i])
		}
		if name == "" {
			name = synthName(i + 1)
		}
		fitted[i] = name
	}
	return fitted
}

// dedupeNames resolves duplicate labels at final emission by appending a
// numeric suffix to every occurrence after the first.
func dedupeNames(names []string) []string {
	out := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			name = synthName(i + 1)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}
