package layout

import (
	"strings"

	"ttcal/internal/model"
)

// Semantic roles in fuzzy-match priority order.
var rolePriority = []string{"date", "time", "end_time", "title", "location", "description"}

var roleKeywords = map[string][]string{
	"date":        {"date", "day", "weekday", "day name", "datum", "fecha"},
	"time":        {"time", "times", "period", "session", "slot", "start", "begin", "start time"},
	"end_time":    {"end", "finish", "until", "to", "end time", "finish time"},
	"title":       {"title", "event", "name", "subject", "course", "course title", "class", "module", "topic", "activity"},
	"location":    {"location", "room", "room no", "rm", "venue", "place", "hall", "building", "lab", "address", "classroom"},
	"description": {"description", "notes", "details", "desc", "instructor", "teacher", "lecturer", "tutor"},
}

// MapRoles suggests which column serves each semantic role. Two greedy
// passes, first claim wins, no backtracking:
//
//	pass 1: exact case-insensitive matches on the usual timetable headings
//	pass 2: fuzzy substring matches, roles tried in priority order
//
// A column claimed in pass 1 is out of consideration for every other role,
// and no role is ever forced to resolve; unmatched roles stay empty.
func MapRoles(columns []string) model.RoleMapping {
	claimed := make(map[string]string, len(rolePriority)) // role -> column
	used := make(map[int]bool, len(columns))              // column index -> taken

	claim := func(role string, idx int) {
		claimed[role] = columns[idx]
		used[idx] = true
	}

	// Pass 1: exact matches.
	for i, col := range columns {
		if used[i] {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "day", "weekday":
			if claimed["date"] == "" {
				claim("date", i)
			}
		case "time":
			if claimed["time"] == "" {
				claim("time", i)
			}
		case "course", "subject":
			if claimed["title"] == "" {
				claim("title", i)
			}
		case "venue":
			if claimed["location"] == "" {
				claim("location", i)
			}
		}
	}

	// Pass 2: fuzzy substring matches over the remaining columns.
	for _, role := range rolePriority {
		if claimed[role] != "" {
			continue
		}
		for i, col := range columns {
			if used[i] {
				continue
			}
			if containsAny(strings.ToLower(col), roleKeywords[role]) {
				claim(role, i)
				break
			}
		}
	}

	return model.RoleMapping{
		Date:        claimed["date"],
		Time:        claimed["time"],
		EndTime:     claimed["end_time"],
		Title:       claimed["title"],
		Location:    claimed["location"],
		Description: claimed["description"],
	}
}
