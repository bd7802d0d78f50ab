// Package schedule builds the client-side booking menu: which days and
// half-hour labels a client can pick from. The menu is not validated against
// real barber availability; the backend owns that.
package schedule

import (
	"fmt"
	"time"
)

// DaysAhead is how many upcoming calendar days the date strip offers.
const DaysAhead = 7

// slotLabels covers 09:00-18:00 in half-hour steps with the 12:30-14:00
// lunch gap removed.
var slotLabels = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00", "17:30", "18:00",
}

// SlotLabels returns the bookable time labels for any day.
func SlotLabels() []string {
	out := make([]string, len(slotLabels))
	copy(out, slotLabels)
	return out
}

// CandidateDays returns the next DaysAhead calendar days starting today,
// truncated to midnight in loc.
func CandidateDays(now time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	days := make([]time.Time, 0, DaysAhead)
	for i := 0; i < DaysAhead; i++ {
		days = append(days, start.AddDate(0, 0, i))
	}
	return days
}

// Compose combines a calendar date with an "HH:MM" label into an instant on
// the shop's wall clock.
func Compose(date time.Time, label string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	var hour, minute int
	if _, err := fmt.Sscanf(label, "%d:%d", &hour, &minute); err != nil {
		return time.Time{}, fmt.Errorf("schedule: bad time label %q: %w", label, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("schedule: time label %q out of range", label)
	}
	date = date.In(loc)
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, loc), nil
}
