package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ttcal/internal/model"
)

func sampleTable() model.NormalizedTable {
	return model.NormalizedTable{
		Columns: []string{"Day", "Time", "Course", "Venue"},
		Rows: []map[string]string{
			{"Day": "Monday", "Time": "09:00-10:30", "Course": "Math 101", "Venue": "Room 205"},
			{"Day": "Wednesday", "Time": "14:00", "Course": "Physics", "Venue": "Lab 3"},
			{"Day": "", "Time": "", "Course": "", "Venue": "somewhere"},
		},
	}
}

func sampleRoles() model.RoleMapping {
	return model.RoleMapping{Date: "Day", Time: "Time", Title: "Course", Location: "Venue"}
}

func TestEventsFromTableResolvesWeekdays(t *testing.T) {
	// 2024-01-15 is a Monday.
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	events := EventsFromTable(sampleTable(), sampleRoles(), TableOptions{From: from, ReminderMinutes: 45})
	require.Len(t, events, 2)

	// Same-day weekday resolves to the anchor itself.
	require.Equal(t, "2024-01-15", events[0].Date)
	require.Equal(t, "MONDAY", events[0].Recurring)
	require.Equal(t, "Math 101", events[0].Title)
	require.Equal(t, 45, events[0].ReminderMinutes)

	require.Equal(t, "2024-01-17", events[1].Date)
	require.Equal(t, "WEDNESDAY", events[1].Recurring)
}

func TestEventsFromTableWrapsToNextWeek(t *testing.T) {
	// Anchored on a Friday, Monday is three days out.
	friday := time.Date(2024, 1, 19, 0, 0, 0, 0, time.UTC)

	table := model.NormalizedTable{
		Columns: []string{"Day", "Time", "Course"},
		Rows: []map[string]string{
			{"Day": "Monday", "Time": "09:00", "Course": "Math"},
		},
	}
	events := EventsFromTable(table, model.RoleMapping{Date: "Day", Time: "Time", Title: "Course"}, TableOptions{From: friday})

	require.Len(t, events, 1)
	require.Equal(t, "2024-01-22", events[0].Date)
}

func TestEventsFromTableKeepsLiteralDates(t *testing.T) {
	table := model.NormalizedTable{
		Columns: []string{"Date", "Time", "Course"},
		Rows: []map[string]string{
			{"Date": "2024-03-05", "Time": "09:00", "Course": "Exam"},
		},
	}
	events := EventsFromTable(table, model.RoleMapping{Date: "Date", Time: "Time", Title: "Course"}, TableOptions{})

	require.Len(t, events, 1)
	require.Equal(t, "2024-03-05", events[0].Date)
	require.Equal(t, model.RecurrenceNone, events[0].Recurring)
}

func TestEventsFromTableSkipsBlankRows(t *testing.T) {
	events := EventsFromTable(sampleTable(), sampleRoles(), TableOptions{From: time.Now()})
	for _, ev := range events {
		require.False(t, ev.Date == "" && ev.Time == "" && ev.Title == "")
	}
}

func TestEventsFromTableUnmappedRolesLeaveFieldsEmpty(t *testing.T) {
	events := EventsFromTable(sampleTable(), model.RoleMapping{Title: "Course"}, TableOptions{})

	require.Len(t, events, 2)
	require.Equal(t, "", events[0].Date)
	require.Equal(t, "", events[0].Location)
	require.Equal(t, "Math 101", events[0].Title)
}
