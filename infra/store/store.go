// Package store persists the outcome of scheduling runs so that schedules
// can be reconciled and audited later. Inputs are never stored.
package store

import (
	"context"
	"time"

	"github.com/kilianp07/crewplan/core/model"
)

// RunRecord captures one scheduling run and its result.
type RunRecord struct {
	RunID        string           `json:"run_id"`
	Timestamp    time.Time        `json:"timestamp"`
	Partition    string           `json:"partition"`
	HorizonStart time.Time        `json:"horizon_start"`
	HorizonEnd   time.Time        `json:"horizon_end"`
	Status       model.Status     `json:"status"`
	Objective    int              `json:"objective"`
	Assignments  model.Schedule   `json:"assignments"`
	Issues       []model.JobIssue `json:"issues,omitempty"`
}

// RunQuery defines filters for retrieving records. Zero values match everything.
type RunQuery struct {
	Start     time.Time
	End       time.Time
	Partition string
	RunID     string
	// Limit keeps only the most recent records when positive.
	Limit int
}

func (q RunQuery) matches(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Partition != "" && r.Partition != q.Partition {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	return true
}

func (q RunQuery) limit(res []RunRecord) []RunRecord {
	if q.Limit > 0 && len(res) > q.Limit {
		return res[len(res)-q.Limit:]
	}
	return res
}

// RunStore persists RunRecords and supports querying.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error              { return nil }
func (NopStore) Query(context.Context, RunQuery) ([]RunRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
