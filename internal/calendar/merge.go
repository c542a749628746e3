package calendar

import (
	"sort"

	appLog "ttcal/internal/log"
	"ttcal/internal/model"
	"ttcal/internal/timenorm"
)

// DefaultMergeToleranceMinutes is the largest gap between two time slots of
// the same (date, title, location) still considered contiguous. Tuned for
// academic timetables where a short break separates back-to-back periods.
const DefaultMergeToleranceMinutes = 15

// mergeMember is one event of a merge group with its parsed slot boundaries.
type mergeMember struct {
	event     model.EventRecord
	order     int
	start     int // minutes since midnight
	end       int
	startText string
	endText   string
}

// Merge collapses time-adjacent occurrences of the same course on the same
// date and location using the default tolerance.
func Merge(events []model.EventRecord) []model.EventRecord {
	return MergeWithTolerance(events, DefaultMergeToleranceMinutes)
}

// MergeWithTolerance partitions events into (date, title, location) groups in
// encounter order and greedily joins runs of slots whose gap is within
// toleranceMinutes. A run longer than one event is represented by its first
// event with the time field rewritten to "<firstStart>-<lastEnd>". Events
// whose time has no leading H:MM cannot merge and are passed through as
// singletons after their group's merged runs. Every input event is covered by
// exactly one output event.
func MergeWithTolerance(events []model.EventRecord, toleranceMinutes int) []model.EventRecord {
	if len(events) <= 1 {
		return events
	}

	var keys []string
	groups := make(map[string][]model.EventRecord)
	for _, ev := range events {
		key := mergeKey(ev)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], ev)
	}

	out := make([]model.EventRecord, 0, len(events))
	for _, key := range keys {
		group := groups[key]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		out = append(out, mergeGroup(group, toleranceMinutes)...)
	}
	return out
}

func mergeKey(ev model.EventRecord) string {
	loc := ev.Location
	if loc == "" {
		loc = "no-location"
	}
	return ev.Date + "|||" + ev.Title + "|||" + loc
}

func mergeGroup(group []model.EventRecord, toleranceMinutes int) []model.EventRecord {
	members := make([]mergeMember, 0, len(group))
	var unparseable []model.EventRecord

	for i, ev := range group {
		m, ok := parseSlot(ev)
		if !ok {
			unparseable = append(unparseable, ev)
			continue
		}
		m.order = i
		members = append(members, m)
	}

	// Stable by construction: ties keep encounter order.
	sort.SliceStable(members, func(a, b int) bool {
		return members[a].start < members[b].start
	})

	var out []model.EventRecord
	for i := 0; i < len(members); {
		run := members[i]
		runEnd := run.end
		runEndText := run.endText
		j := i + 1
		for j < len(members) {
			gap := members[j].start - runEnd
			if gap < 0 || gap > toleranceMinutes {
				break
			}
			runEnd = members[j].end
			runEndText = members[j].endText
			j++
		}

		merged := run.event
		if j > i+1 {
			merged.Time = run.startText + "-" + runEndText
			appLog.Debug("merged adjacent time slots",
				"title", merged.Title, "date", merged.Date, "slots", j-i, "time", merged.Time)
		}
		out = append(out, merged)
		i = j
	}

	// Slots with no parseable leading time keep their place after the merged
	// runs, in encounter order; merging never drops an event.
	out = append(out, unparseable...)
	return out
}

// parseSlot reads the leading "H:MM-H:MM" or "H:MM" of an event's time field
// into minute offsets. A slot with no end is treated as zero-length.
func parseSlot(ev model.EventRecord) (mergeMember, bool) {
	if startText, endText, ok := timenorm.LeadingRange(ev.Time); ok {
		start, okS := timenorm.ParseClock(startText)
		end, okE := timenorm.ParseClock(endText)
		if okS && okE {
			return mergeMember{
				event:     ev,
				start:     start.Minutes(),
				end:       end.Minutes(),
				startText: startText,
				endText:   endText,
			}, true
		}
	}
	if startText, ok := timenorm.LeadingClock(ev.Time); ok {
		if start, okS := timenorm.ParseClock(startText); okS {
			return mergeMember{
				event:     ev,
				start:     start.Minutes(),
				end:       start.Minutes(),
				startText: startText,
				endText:   startText,
			}, true
		}
	}
	return mergeMember{}, false
}
