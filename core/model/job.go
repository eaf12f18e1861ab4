package model

import "time"

// Job is a unit of field work waiting to be placed on a crew's day.
type Job struct {
	ID            string    `json:"id"`
	EarliestStart time.Time `json:"earliest_start"` // first day the job may be worked
	DueDate       time.Time `json:"due_date"`       // inclusive deadline; days after it count as late
	DurationHours float64   `json:"duration_hours"` // estimated on-site hours
	Partition     string    `json:"partition"`      // organizational partition (district, division...)
}

// Window reports whether the job's earliest start does not exceed its due date.
func (j Job) Window() bool {
	return !Day(j.EarliestStart).After(Day(j.DueDate))
}

// LateOn reports whether working the job on day d misses its due date.
func (j Job) LateOn(d time.Time) bool {
	return Day(d).After(Day(j.DueDate))
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
