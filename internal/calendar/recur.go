package calendar

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "ttcal/internal/log"
	"ttcal/internal/model"
)

var weekdayTags = map[string]rrule.Weekday{
	"MONDAY":    rrule.MO,
	"TUESDAY":   rrule.TU,
	"WEDNESDAY": rrule.WE,
	"THURSDAY":  rrule.TH,
	"FRIDAY":    rrule.FR,
	"SATURDAY":  rrule.SA,
	"SUNDAY":    rrule.SU,
}

var weekdayByTime = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// businessDays is what the "daily" tag actually means here: Monday through
// Friday, not literal daily. Intentional product semantics; do not "fix".
var businessDays = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}

// EncodeRecurrence translates a recurrence tag into an RRULE value:
//
//	weekly      -> weekly on the anchor date's weekday
//	daily       -> weekly on MO..FR
//	<WEEKDAY>   -> weekly on that weekday, regardless of the anchor's weekday
//	none/unknown-> no rule (ok=false)
func EncodeRecurrence(tag string, anchor time.Time) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", model.RecurrenceNone:
		return "", false
	case model.RecurrenceWeekly:
		return weeklyRule(weekdayByTime[anchor.Weekday()])
	case model.RecurrenceDaily:
		return weeklyRule(businessDays...)
	}

	if wd, ok := weekdayTags[strings.ToUpper(strings.TrimSpace(tag))]; ok {
		return weeklyRule(wd)
	}

	appLog.Warn("unsupported recurrence tag treated as none", "tag", tag)
	return "", false
}

func weeklyRule(days ...rrule.Weekday) (string, bool) {
	r, err := rrule.NewRRule(rrule.ROption{Freq: rrule.WEEKLY, Byweekday: days})
	if err != nil {
		appLog.Error("recurrence rule construction failed", err)
		return "", false
	}
	return r.String(), true
}
