package metrics

import (
	"time"

	"github.com/kilianp07/crewplan/core/model"
)

// SolveEvent summarizes one scheduling run.
type SolveEvent struct {
	RunID      string
	Partition  string
	Status     model.Status
	Objective  int // late jobs in the returned schedule
	LowerBound int
	Jobs       int
	Crews      int
	Workdays   int
	Nodes      int64
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records run outcomes for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// IssueEvent reports a job left out of a run.
type IssueEvent struct {
	RunID  string
	JobID  string
	Kind   model.IssueKind
	Reason string
	Time   time.Time
}

// IssueRecorder records per-job issues.
type IssueRecorder interface {
	RecordJobIssues(evs []IssueEvent) error
}

// IncumbentEvent is emitted each time the search finds a better schedule.
type IncumbentEvent struct {
	Objective int
	Task      int // -1 for the greedy seed
	Nodes     int64
	Elapsed   time.Duration
	Time      time.Time
}

// ProgressRecorder records search progress.
type ProgressRecorder interface {
	RecordIncumbent(ev IncumbentEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error         { return nil }
func (NopSink) RecordJobIssues([]IssueEvent) error   { return nil }
func (NopSink) RecordIncumbent(IncumbentEvent) error { return nil }
