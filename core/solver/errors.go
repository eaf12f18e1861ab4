package solver

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInfeasibleInputs marks a job that can never satisfy its date window.
	ErrInfeasibleInputs = errors.New("job cannot be placed in the horizon")
	// ErrInfeasible indicates that no assignment satisfies every hard constraint.
	ErrInfeasible = errors.New("no feasible assignment")
	// ErrInternalInconsistency is raised when a solution fails post-solve validation.
	ErrInternalInconsistency = errors.New("internal inconsistency")
)

// InfeasibleError describes the tightest capacity constraint that made a run infeasible.
type InfeasibleError struct {
	JobID          string    // set when a single job cannot fit any shift
	From           time.Time // first workday of the violated window
	To             time.Time // last workday of the violated window
	RequiredHours  float64
	AvailableHours float64
	Reason         string
}

func (e *InfeasibleError) Error() string {
	if e.JobID != "" {
		return fmt.Sprintf("%v: job %s: %s", ErrInfeasible, e.JobID, e.Reason)
	}
	if e.From.IsZero() {
		return fmt.Sprintf("%v: %s", ErrInfeasible, e.Reason)
	}
	return fmt.Sprintf("%v: %s..%s requires %.2fh but only %.2fh available: %s",
		ErrInfeasible, e.From.Format(time.DateOnly), e.To.Format(time.DateOnly),
		e.RequiredHours, e.AvailableHours, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInfeasible).
func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }
