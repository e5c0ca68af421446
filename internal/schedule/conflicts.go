// Package schedule analyzes weekly timetables for clashing meetings.
package schedule

import "github.com/krsbot-dev/krsbot/internal/portal"

// WeekDays is the fixed day iteration order, matching the keys the portal
// uses in timetable rows.
var WeekDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Conflict is one (day, time slot) cell holding more than one meeting.
// Meetings keep their input order.
type Conflict struct {
	Day      string
	Time     string
	Meetings []portal.CourseMeeting
}

// Conflicts returns every timetable cell where two or more meetings collide.
// Deterministic: slots in input order, days monday through sunday. The input
// is never mutated; returned meeting slices are copies. Day keys outside the
// known week are ignored.
func Conflicts(slots []portal.ScheduleSlot) []Conflict {
	var conflicts []Conflict
	for _, slot := range slots {
		for _, day := range WeekDays {
			meetings := slot.Days[day]
			if len(meetings) < 2 {
				continue
			}
			conflicts = append(conflicts, Conflict{
				Day:      day,
				Time:     slot.ShiftTime,
				Meetings: append([]portal.CourseMeeting(nil), meetings...),
			})
		}
	}
	return conflicts
}
