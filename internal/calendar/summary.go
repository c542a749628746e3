package calendar

import (
	"sort"
	"time"

	"ttcal/internal/model"
)

// DateRange is the span between the first and last parseable event dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Summary describes a calendar without generating it.
type Summary struct {
	CalendarName string         `json:"calendar_name"`
	TotalEvents  int            `json:"total_events"`
	DateRange    *DateRange     `json:"date_range"`
	EventsByDate map[string]int `json:"events_by_date"`
}

// Summarize reports event counts per date and the overall date range.
// Unparsable dates still count toward their literal date key; they are only
// excluded from the range computation.
func Summarize(events []model.EventRecord, calendarName string) Summary {
	s := Summary{
		CalendarName: calendarName,
		TotalEvents:  len(events),
		EventsByDate: make(map[string]int),
	}
	if len(events) == 0 {
		return s
	}

	var dates []time.Time
	for _, ev := range events {
		key := ev.Date
		if key == "" {
			key = "Unknown"
		}
		s.EventsByDate[key]++

		if t, err := ParseDate(ev.Date); err == nil {
			dates = append(dates, t)
		}
	}

	if len(dates) > 0 {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		s.DateRange = &DateRange{
			Start: dates[0].Format("2006-01-02"),
			End:   dates[len(dates)-1].Format("2006-01-02"),
		}
	}
	return s
}
