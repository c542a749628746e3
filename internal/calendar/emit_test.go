package calendar

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/require"

	"ttcal/internal/model"
)

// recurringFixture is the canonical recurring-events corpus: one event per
// recurrence flavor, each with a 45-minute reminder.
func recurringFixture() []model.EventRecord {
	return []model.EventRecord{
		{
			Date: "2024-01-15", Time: "09:00", Title: "Math 101 - Weekly Class",
			Location: "Room 205", Recurring: "weekly", ReminderMinutes: 45,
		},
		{
			Date: "2024-01-16", Time: "10:00", Title: "Team Meeting - Every Tuesday",
			Location: "Conference Room", Recurring: "TUESDAY", ReminderMinutes: 45,
		},
		{
			Date: "2024-01-17", Time: "14:00", Title: "Lab Work - Daily (Mon-Fri)",
			Location: "Lab 3", Recurring: "daily", ReminderMinutes: 45,
		},
		{
			Date: "2024-01-18", Time: "11:00", Title: "Special Lecture - No Repeat",
			Location: "Auditorium", Recurring: "none", ReminderMinutes: 45,
		},
	}
}

func TestGenerateRecurringEventsAndReminders(t *testing.T) {
	body, err := NewEmitter().Generate(recurringFixture(), "Test Recurring Calendar", "UTC")
	require.NoError(t, err)

	// The output must round-trip through an ICS parser.
	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 4)

	// One display alarm per event, all firing 45 minutes before start.
	require.Equal(t, 4, strings.Count(body, "BEGIN:VALARM"))
	require.Equal(t, 4, strings.Count(body, "TRIGGER:-PT45M"))

	// RRULE for every tag except none.
	require.Equal(t, 3, strings.Count(body, "RRULE:"))
	require.Contains(t, body, "RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR")
	require.Contains(t, body, "RRULE:FREQ=WEEKLY;BYDAY=TU")
	// The weekly event anchors to its date's weekday (2024-01-15 is a Monday).
	require.Contains(t, body, "RRULE:FREQ=WEEKLY;BYDAY=MO\r\n")
}

func TestGenerateResolvesTimeRange(t *testing.T) {
	events := []model.EventRecord{
		{Date: "2024-01-15", Time: "1:00-2:30", Title: "Seminar"},
	}

	body, err := NewEmitter().Generate(events, "Cal", "UTC")
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)

	start, err := cal.Events()[0].GetStartAt()
	require.NoError(t, err)
	end, err := cal.Events()[0].GetEndAt()
	require.NoError(t, err)

	// Ambiguous 1:00-2:30 reads as an afternoon slot.
	require.Equal(t, time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC), start.UTC())
	require.Equal(t, time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC), end.UTC())
}

func TestGenerateEndTimeFieldAndDefaultDuration(t *testing.T) {
	events := []model.EventRecord{
		{Date: "2024-01-15", Time: "09:00", EndTime: "10:30", Title: "With End"},
		{Date: "2024-01-15", Time: "11:00", Title: "Default Hour"},
	}

	body, err := NewEmitter().Generate(events, "Cal", "UTC")
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)

	byTitle := map[string]*ics.VEvent{}
	for _, ev := range cal.Events() {
		byTitle[ev.GetProperty(ics.ComponentPropertySummary).Value] = ev
	}

	end, err := byTitle["With End"].GetEndAt()
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), end.UTC())

	end, err = byTitle["Default Hour"].GetEndAt()
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), end.UTC())
}

func TestGenerateSkipsMalformedEventAndContinues(t *testing.T) {
	events := []model.EventRecord{
		{Date: "not a date at all", Time: "09:00", Title: "Broken"},
		{Date: "2024-01-15", Time: "09:00", Title: "Fine"},
	}

	body, err := NewEmitter().Generate(events, "Cal", "UTC")
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)
	require.Contains(t, body, "SUMMARY:Fine")
}

func TestGenerateUnparsableTimeDefaultsToNoon(t *testing.T) {
	events := []model.EventRecord{
		{Date: "2024-01-15", Time: "TBD", Title: "Sometime"},
	}

	body, err := NewEmitter().Generate(events, "Cal", "UTC")
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	start, err := cal.Events()[0].GetStartAt()
	require.NoError(t, err)
	require.Equal(t, 12, start.UTC().Hour())
}

func TestGenerateMergesBeforeEmitting(t *testing.T) {
	events := []model.EventRecord{
		{Date: "2024-01-15", Time: "08:00-08:50", Title: "Math", Location: "R1"},
		{Date: "2024-01-15", Time: "08:50-09:40", Title: "Math", Location: "R1"},
	}

	body, err := NewEmitter().Generate(events, "Cal", "UTC")
	require.NoError(t, err)

	cal, err := ics.ParseCalendar(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 1)

	end, err := cal.Events()[0].GetEndAt()
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 15, 9, 40, 0, 0, time.UTC), end.UTC())
}

func TestGenerateUnknownTimezoneFails(t *testing.T) {
	_, err := NewEmitter().Generate(recurringFixture(), "Cal", "Not/AZone")
	require.Error(t, err)
}

func TestGenerateNoReminderWhenOffsetZero(t *testing.T) {
	events := []model.EventRecord{
		{Date: "2024-01-15", Time: "09:00", Title: "Quiet"},
	}

	body, err := NewEmitter().Generate(events, "Cal", "UTC")
	require.NoError(t, err)
	require.NotContains(t, body, "BEGIN:VALARM")
}
