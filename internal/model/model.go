package model

// RawGrid is the 2-D grid of raw cell text handed to layout inference by a
// format-specific decoder (CSV reader, spreadsheet reader, PDF extractor).
// Rows may have differing lengths; missing or null cells are "".
// A RawGrid is never mutated in place; every pipeline stage derives a new
// structure from it.
type RawGrid [][]string

// NormalizedTable is the flat, long-format output of layout inference:
// a final (unique) column name list plus one map per row. Missing values
// are "". All rows expose the same column set.
type NormalizedTable struct {
	Columns []string
	Rows    []map[string]string
}

// Empty reports whether the table carries no usable data.
func (t NormalizedTable) Empty() bool {
	return len(t.Rows) == 0
}

// RoleMapping maps the fixed semantic role set to the canonical column name
// claimed for it, or "" when the role stayed unmapped. Each column is claimed
// by at most one role.
type RoleMapping struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	EndTime     string `json:"end_time"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Recurrence tags understood by the recurrence encoder. Anything else is
// treated as an explicit weekday name, and unknown values fall back to none.
const (
	RecurrenceNone   = "none"
	RecurrenceWeekly = "weekly"
	RecurrenceDaily  = "daily"
)

// EventRecord is one schedule occurrence as supplied by the request layer.
// It is an immutable value: merging produces a new EventRecord rather than
// mutating an input.
type EventRecord struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Title       string `json:"title"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	EndTime     string `json:"end_time,omitempty"`

	// Recurring is a recurrence tag: none, weekly, daily, or a weekday name.
	Recurring string `json:"recurring,omitempty"`

	// ReminderMinutes is the alarm offset before the event start.
	// Zero or negative means no alarm.
	ReminderMinutes int `json:"reminder_minutes,omitempty"`
}
