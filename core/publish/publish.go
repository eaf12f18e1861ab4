// Package publish declares how finished schedules leave the planner for the
// field systems that execute them.
package publish

import (
	"context"
	"errors"

	"github.com/kilianp07/crewplan/core/model"
)

// ErrPublish is returned when a schedule could not be delivered.
var ErrPublish = errors.New("publish failed")

// Run is the outcome of one scheduling run as seen by downstream systems.
type Run struct {
	RunID     string         `json:"run_id"`
	Partition string         `json:"partition,omitempty"`
	Status    model.Status   `json:"status"`
	LateJobs  int            `json:"late_jobs"`
	Schedule  model.Schedule `json:"-"`
}

// Publisher delivers a run's schedule. Implementations publish one message
// per crew so that each crew receives only its own bookings.
type Publisher interface {
	PublishSchedule(ctx context.Context, run Run) error
}

// ByCrew groups the schedule by crew id, keeping the schedule order.
func ByCrew(s model.Schedule) map[string]model.Schedule {
	out := make(map[string]model.Schedule)
	for _, a := range s {
		out[a.CrewID] = append(out[a.CrewID], a)
	}
	return out
}

// Nop discards every run.
type Nop struct{}

func (Nop) PublishSchedule(context.Context, Run) error { return nil }
