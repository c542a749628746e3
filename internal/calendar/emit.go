// Package calendar turns flat event records into iCalendar text: it merges
// adjacent time slots, resolves ambiguous time text, encodes recurrence and
// reminder semantics, and serializes via golang-ical.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	appLog "ttcal/internal/log"
	"ttcal/internal/model"
	"ttcal/internal/timenorm"
)

// noonHour is the fallback start for events whose time text is unparsable;
// a guessed midday slot beats dropping the record.
const noonHour = 12

// Emitter assembles merged events into an iCalendar document.
type Emitter struct {
	// DefaultDuration applies when neither a time range nor an end_time
	// field resolves an end.
	DefaultDuration time.Duration

	// MergeToleranceMinutes is passed to the slot merger.
	MergeToleranceMinutes int
}

// NewEmitter returns an Emitter with the stock tunables.
func NewEmitter() *Emitter {
	return &Emitter{
		DefaultDuration:       time.Hour,
		MergeToleranceMinutes: DefaultMergeToleranceMinutes,
	}
}

// Generate merges the event list and serializes it as an iCalendar document
// localized to the named IANA zone ("" means UTC). Individual malformed
// events are logged and skipped; only an unknown timezone fails the batch.
func (e *Emitter) Generate(events []model.EventRecord, calendarName, timezone string) (string, error) {
	loc := time.UTC
	if timezone != "" {
		var err error
		loc, err = time.LoadLocation(timezone)
		if err != nil {
			return "", fmt.Errorf("unknown timezone %q: %w", timezone, err)
		}
	}

	merged := MergeWithTolerance(events, e.MergeToleranceMinutes)

	cal := ics.NewCalendar()
	cal.SetProductId("-//ttcal//Timetable Calendar//EN")
	cal.SetVersion("2.0")
	if calendarName != "" {
		cal.SetXWRCalName(calendarName)
	}
	cal.SetXWRTimezone(loc.String())

	added := 0
	for _, ev := range merged {
		if err := e.addEvent(cal, ev, loc); err != nil {
			appLog.Warn("skipping event", "title", ev.Title, "date", ev.Date, "reason", err)
			continue
		}
		added++
	}

	appLog.Info("calendar generated", "events_in", len(events), "after_merge", len(merged), "emitted", added)
	return cal.Serialize(), nil
}

// addEvent assembles one VEVENT. Any failure is reported to the caller so
// the event can be skipped without aborting the batch.
func (e *Emitter) addEvent(cal *ics.Calendar, ev model.EventRecord, loc *time.Location) error {
	day, err := ParseDate(ev.Date)
	if err != nil {
		return err
	}

	start, end := e.resolveTimes(ev)
	startAt := time.Date(day.Year(), day.Month(), day.Day(), start.Hour, start.Minute, 0, 0, loc)
	endAt := time.Date(day.Year(), day.Month(), day.Day(), end.Hour, end.Minute, 0, 0, loc)
	if !endAt.After(startAt) {
		endAt = startAt.Add(e.DefaultDuration)
	}

	title := ev.Title
	if title == "" {
		title = "Untitled Event"
	}

	uid := fmt.Sprintf("%s-%s@ttcal", startAt.Format(time.RFC3339), title)
	event := cal.AddEvent(uid)
	event.SetDtStampTime(time.Now().In(loc))
	event.SetStartAt(startAt)
	event.SetEndAt(endAt)
	event.SetSummary(title)
	if ev.Location != "" {
		event.SetLocation(ev.Location)
	}
	if ev.Description != "" {
		event.SetDescription(ev.Description)
	}

	if rule, ok := EncodeRecurrence(ev.Recurring, startAt); ok {
		event.AddRrule(rule)
	}
	attachReminder(event, ev.ReminderMinutes, title)

	return nil
}

// resolveTimes picks the event's start/end clocks by priority: explicit time
// range, then the end_time field, then the default duration. Unparsable time
// text falls back to a noon start rather than failing the record.
func (e *Emitter) resolveTimes(ev model.EventRecord) (timenorm.Clock, timenorm.Clock) {
	if startRaw, endRaw, ok := timenorm.SplitRange(ev.Time); ok {
		if start, end, ok := timenorm.ResolvePair(startRaw, endRaw); ok {
			return start, end
		}
	}

	if ev.EndTime != "" {
		if start, end, ok := timenorm.ResolvePair(ev.Time, ev.EndTime); ok {
			return start, end
		}
	}

	start, ok := timenorm.ResolveSingle(ev.Time)
	if !ok {
		appLog.Warn("unparsable time, defaulting to noon", "title", ev.Title, "time", ev.Time)
		start = timenorm.Clock{Hour: noonHour}
	}
	return start, e.defaultEnd(start)
}

func (e *Emitter) defaultEnd(start timenorm.Clock) timenorm.Clock {
	total := start.Minutes() + int(e.DefaultDuration.Minutes())
	return timenorm.Clock{Hour: total / 60, Minute: total % 60, Explicit: start.Explicit}
}

// attachReminder adds a display alarm firing minutesBefore the event start.
// Zero or negative offsets mean no alarm.
func attachReminder(event *ics.VEvent, minutesBefore int, title string) {
	if minutesBefore <= 0 {
		return
	}
	alarm := event.AddAlarm()
	alarm.SetAction(ics.ActionDisplay)
	alarm.SetTrigger(fmt.Sprintf("-PT%dM", minutesBefore))
	alarm.SetProperty(ics.ComponentPropertyDescription, "Reminder: "+title)
}
