package model

import "time"

// Crew is a team that can absorb a fixed number of job hours per shift.
type Crew struct {
	ID            string
	NetShiftHours float64 // productive hours per workday
	// Unavailable lists days the crew cannot be booked. Keys are Day values.
	Unavailable map[time.Time]bool
}

// AvailableOn reports whether the crew works on day d.
func (c Crew) AvailableOn(d time.Time) bool {
	if len(c.Unavailable) == 0 {
		return true
	}
	return !c.Unavailable[Day(d)]
}
