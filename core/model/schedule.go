package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Workday is an eligible calendar day of the scheduling horizon.
type Workday struct {
	Index int       // position within the horizon, starting at 0
	Date  time.Time // calendar day at midnight UTC
}

// Assignment books one job on one crew for one workday.
type Assignment struct {
	JobID         string    `json:"job_id"`
	CrewID        string    `json:"crew_id"`
	Date          time.Time `json:"date"`
	EarliestStart time.Time `json:"earliest_start"`
	DueDate       time.Time `json:"due_date"`
	DurationHours float64   `json:"duration_hours"`
	Late          bool      `json:"late"`
}

// Schedule is the ordered set of assignments produced by one run.
type Schedule []Assignment

// Sort orders assignments by date, then crew, then job.
func (s Schedule) Sort() {
	sort.SliceStable(s, func(i, j int) bool {
		if !s[i].Date.Equal(s[j].Date) {
			return s[i].Date.Before(s[j].Date)
		}
		if s[i].CrewID != s[j].CrewID {
			return s[i].CrewID < s[j].CrewID
		}
		return s[i].JobID < s[j].JobID
	})
}

// Late returns the number of assignments past their due date.
func (s Schedule) Late() int {
	n := 0
	for _, a := range s {
		if a.Late {
			n++
		}
	}
	return n
}

// ByJob indexes the schedule by job identifier.
func (s Schedule) ByJob() map[string]Assignment {
	out := make(map[string]Assignment, len(s))
	for _, a := range s {
		out[a.JobID] = a
	}
	return out
}

// ActualCompletion is an observed outcome for a job, supplied after the fact.
type ActualCompletion struct {
	JobID  string    `json:"job_id"`
	Date   time.Time `json:"date"`   // day the work was actually performed
	Status string    `json:"status"` // free-form status reported by the field system
}

// Status is the outcome of a scheduling run.
type Status int

const (
	StatusOptimal Status = iota
	StatusFeasibleNotProven
	StatusInfeasible
	StatusNoJobsToSchedule
	StatusTimeout
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusFeasibleNotProven:
		return "FeasibleNotProven"
	case StatusInfeasible:
		return "Infeasible"
	case StatusNoJobsToSchedule:
		return "NoJobsToSchedule"
	case StatusTimeout:
		return "Timeout"
	default:
		return "unknown"
	}
}

// HasSchedule reports whether results with this status carry an authoritative schedule.
func (s Status) HasSchedule() bool {
	return s == StatusOptimal || s == StatusFeasibleNotProven
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStatus converts a status name (case insensitive) to a Status.
func ParseStatus(name string) (Status, error) {
	for _, st := range []Status{StatusOptimal, StatusFeasibleNotProven, StatusInfeasible, StatusNoJobsToSchedule, StatusTimeout} {
		if strings.EqualFold(st.String(), name) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", name)
}
