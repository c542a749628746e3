package calendar

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var ordinalRe = regexp.MustCompile(`(\d+)(st|nd|rd|th)`)

// ParseDate parses loosely formatted date text ("2024-01-15", "15/01/2024",
// "Jan 15th, 2024") into a civil date. Ordinal suffixes are stripped before
// parsing since most date grammars reject them.
func ParseDate(raw string) (time.Time, error) {
	cleaned := strings.TrimSpace(ordinalRe.ReplaceAllString(raw, "$1"))
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := dateparse.ParseAny(cleaned)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %q", raw)
	}
	return t, nil
}
