// Package timenorm canonicalizes the messy time notation found in raw
// timetables ("9:00 - 10:00", "14:30–16:00", "1:00 PM") and resolves
// meridiem-ambiguous hours with a heuristic tuned for class/workday
// schedules.
package timenorm

import (
	"regexp"
	"strconv"
	"strings"
)

// Heuristic tunables. These are deliberate product semantics for academic
// timetables, kept as named constants rather than inlined literals.
const (
	// AssumeAfternoonMaxHour: a bare hour in 1..AssumeAfternoonMaxHour with no
	// meridiem is read as afternoon (+12). Hours 7..12 are left as morning/noon.
	AssumeAfternoonMaxHour = 6

	// MaxAmbiguousSpanHours caps the duration of a range whose two ends carried
	// no meridiem, so a bare "1:00-2:00" never becomes a 13-hour span.
	MaxAmbiguousSpanHours = 2

	// LateStartClipHour: span clipping is skipped once the inferred start is
	// at or past this hour (evening events legitimately run long).
	LateStartClipHour = 19
)

var (
	// Range: H:MM [-|–] H:MM with optional surrounding whitespace and an
	// optional AM/PM suffix on either end.
	rangeRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})(\s*(?:AM|PM))?\s*[-–]\s*(\d{1,2}:\d{2})(\s*(?:AM|PM))?`)

	// Single time: first H:MM with optional AM/PM suffix.
	singleRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})(\s*(?:AM|PM))?`)

	// Anchored forms used by the event merger on already-canonical text.
	leadingRangeRe = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)
	leadingClockRe = regexp.MustCompile(`^(\d{1,2}:\d{2})`)
)

// Normalize canonicalizes time text:
//
//	"9:00 - 10:00"  -> "9:00-10:00"
//	"14:30–16:00"   -> "14:30-16:00"   (en dash -> hyphen)
//	"11:00"         -> "11:00"
//
// Text with no recognizable time is passed through unchanged.
func Normalize(raw string) string {
	if m := rangeRe.FindStringSubmatch(raw); m != nil {
		return m[1] + "-" + m[3]
	}
	if m := singleRe.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[0])
	}
	return raw
}

// SplitRange extracts the two sides of a time range, keeping any explicit
// AM/PM suffix attached to each side so that later parsing can honor it.
func SplitRange(raw string) (start, end string, ok bool) {
	m := rangeRe.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1] + m[2]), strings.TrimSpace(m[3] + m[4]), true
}

// LeadingRange matches a canonical "H:MM-H:MM" at the very start of the text.
func LeadingRange(raw string) (start, end string, ok bool) {
	m := leadingRangeRe.FindStringSubmatch(raw)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// LeadingClock matches a "H:MM" at the very start of the text.
func LeadingClock(raw string) (string, bool) {
	m := leadingClockRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Clock is a wall-clock time plus whether its meridiem was explicit.
// Hour may exceed 23 after a +12 disambiguation shift; time.Date rolls the
// overflow into the next day, which is the intended reading.
type Clock struct {
	Hour     int
	Minute   int
	Explicit bool // an AM/PM suffix was present in the source text
}

// Minutes returns the clock value as minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// Infer applies the afternoon heuristic to a meridiem-less hour: 1..6 are
// shifted to 13..18, 7..12 stay as written, and anything already in
// 24-hour territory is untouched.
func (c Clock) Infer() Clock {
	if c.Explicit {
		return c
	}
	if c.Hour >= 1 && c.Hour <= AssumeAfternoonMaxHour {
		c.Hour += 12
	}
	return c
}

// ParseClock parses the first H:MM in raw, honoring an explicit AM/PM suffix
// but applying no ambiguity inference.
func ParseClock(raw string) (Clock, bool) {
	m := singleRe.FindStringSubmatch(raw)
	if m == nil {
		return Clock{}, false
	}
	hm := strings.SplitN(m[1], ":", 2)
	hour, err1 := strconv.Atoi(hm[0])
	minute, err2 := strconv.Atoi(hm[1])
	if err1 != nil || err2 != nil || hour > 23 || minute > 59 {
		return Clock{}, false
	}

	c := Clock{Hour: hour, Minute: minute}
	switch strings.ToUpper(strings.TrimSpace(m[2])) {
	case "AM":
		c.Explicit = true
		if c.Hour == 12 {
			c.Hour = 0
		}
	case "PM":
		c.Explicit = true
		if c.Hour < 12 {
			c.Hour += 12
		}
	}
	return c, true
}

// ResolvePair parses and disambiguates a start/end pair. When both ends were
// ambiguous (no meridiem) two corrections apply, in order:
//
//  1. end <= start after inference -> shift the end by +12 hours once
//  2. duration over MaxAmbiguousSpanHours with a pre-evening start -> clip
//     the end to exactly start + MaxAmbiguousSpanHours
func ResolvePair(startRaw, endRaw string) (start, end Clock, ok bool) {
	s, okS := ParseClock(startRaw)
	e, okE := ParseClock(endRaw)
	if !okS || !okE {
		return Clock{}, Clock{}, false
	}

	ambiguous := !s.Explicit && !e.Explicit
	s = s.Infer()
	e = e.Infer()

	if ambiguous {
		if e.Minutes() <= s.Minutes() {
			e.Hour += 12
		}
		if e.Minutes()-s.Minutes() > MaxAmbiguousSpanHours*60 && s.Hour < LateStartClipHour {
			total := s.Minutes() + MaxAmbiguousSpanHours*60
			e = Clock{Hour: total / 60, Minute: total % 60}
		}
	}
	return s, e, true
}

// ResolveSingle parses a lone time and applies the afternoon heuristic.
func ResolveSingle(raw string) (Clock, bool) {
	c, ok := ParseClock(raw)
	if !ok {
		return Clock{}, false
	}
	return c.Infer(), true
}
