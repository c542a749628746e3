package calendar

import (
	"strings"
	"time"

	"ttcal/internal/model"
)

var weekdayLabels = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// TableOptions controls how table rows become event records.
type TableOptions struct {
	// From anchors weekday-only dates ("Monday") to the next such weekday
	// at or after this instant. Zero means now.
	From time.Time

	// ReminderMinutes is applied to every produced event.
	ReminderMinutes int
}

// EventsFromTable maps normalized table rows to event records using a role
// mapping. A date cell holding a bare weekday name resolves to the next such
// weekday and tags the event with that weekday's recurrence, matching how a
// term timetable repeats. Rows with neither date, time nor title are skipped.
func EventsFromTable(t model.NormalizedTable, roles model.RoleMapping, opts TableOptions) []model.EventRecord {
	from := opts.From
	if from.IsZero() {
		from = time.Now()
	}

	cell := func(row map[string]string, col string) string {
		if col == "" {
			return ""
		}
		return strings.TrimSpace(row[col])
	}

	events := make([]model.EventRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		ev := model.EventRecord{
			Date:            cell(row, roles.Date),
			Time:            cell(row, roles.Time),
			Title:           cell(row, roles.Title),
			Location:        cell(row, roles.Location),
			Description:     cell(row, roles.Description),
			EndTime:         cell(row, roles.EndTime),
			Recurring:       model.RecurrenceNone,
			ReminderMinutes: opts.ReminderMinutes,
		}
		if ev.Date == "" && ev.Time == "" && ev.Title == "" {
			continue
		}

		if wd, ok := weekdayLabels[strings.ToLower(ev.Date)]; ok {
			ev.Date = nextWeekday(from, wd).Format("2006-01-02")
			ev.Recurring = strings.ToUpper(wd.String())
		}

		events = append(events, ev)
	}
	return events
}

// nextWeekday returns the date of the next wd at or after from.
func nextWeekday(from time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, days)
}
