package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ttcal/internal/model"
)

func TestMapRolesTimetableColumns(t *testing.T) {
	got := MapRoles([]string{"Day", "Time", "Course", "Room No", "Description"})

	require.Equal(t, model.RoleMapping{
		Date:        "Day",
		Time:        "Time",
		Title:       "Course",
		Location:    "Room No",
		Description: "Description",
		EndTime:     "",
	}, got)
}

func TestMapRolesFuzzyOnly(t *testing.T) {
	got := MapRoles([]string{"Date", "Start", "End", "Event", "Place"})

	require.Equal(t, "Date", got.Date)
	require.Equal(t, "Start", got.Time)
	require.Equal(t, "End", got.EndTime)
	require.Equal(t, "Event", got.Title)
	require.Equal(t, "Place", got.Location)
	require.Equal(t, "", got.Description)
}

func TestMapRolesFirstClaimWins(t *testing.T) {
	// Two plausible title columns: the exact "Course" match claims first,
	// leaving "Subject Notes" free for the description fuzzy pass.
	got := MapRoles([]string{"Course", "Subject Notes"})

	require.Equal(t, "Course", got.Title)
	require.Equal(t, "Subject Notes", got.Description)
}

func TestMapRolesExactPassExcludesColumnFromFuzzyPass(t *testing.T) {
	// "Day" is claimed exactly for date; it must not also satisfy a fuzzy
	// keyword for any other role.
	got := MapRoles([]string{"Day"})

	require.Equal(t, "Day", got.Date)
	require.Equal(t, "", got.Time)
	require.Equal(t, "", got.Title)
}

func TestMapRolesUnmappedStaysEmpty(t *testing.T) {
	got := MapRoles([]string{"Foo", "Bar"})
	require.Equal(t, model.RoleMapping{}, got)
}
