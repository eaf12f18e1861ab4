package solver

import (
	"time"

	"github.com/kilianp07/crewplan/core/model"
)

// EventKind identifies a search progress notification.
type EventKind int

const (
	EventIncumbent EventKind = iota
	EventTaskDone
	EventFinished
)

// String returns a human-readable representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventIncumbent:
		return "incumbent"
	case EventTaskDone:
		return "task_done"
	case EventFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Event is published on the progress bus while a search runs.
type Event struct {
	Kind      EventKind
	Objective int
	Task      int // -1 for the greedy seed
	Nodes     int64
	Elapsed   time.Duration
	Status    model.Status // set on EventFinished
}
