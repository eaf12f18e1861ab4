package planner

import (
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/crewplan/core/model"
)

// ErrInvalidJob marks job records rejected before modeling.
var ErrInvalidJob = errors.New("invalid job")

// JobFilter selects the jobs relevant to one run.
type JobFilter interface {
	Filter(jobs []model.Job, dueCutoff time.Time, partition string) []model.Job
}

// PartitionFilter keeps jobs due on or before the cutoff day whose partition
// equals the requested one. A zero cutoff or an empty partition does not
// restrict. Input order is preserved and the input is never modified.
type PartitionFilter struct{}

func (PartitionFilter) Filter(jobs []model.Job, dueCutoff time.Time, partition string) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if !dueCutoff.IsZero() && j.DueDate.After(dueCutoff) {
			continue
		}
		if partition != "" && j.Partition != partition {
			continue
		}
		out = append(out, j)
	}
	return out
}

// ValidateJobs splits jobs into records fit for modeling and issues for the
// rest: empty or duplicate identifiers, non-positive durations and earliest
// start after the due date. A duplicate keeps its first occurrence.
func ValidateJobs(jobs []model.Job) ([]model.Job, []model.JobIssue) {
	valid := make([]model.Job, 0, len(jobs))
	var issues []model.JobIssue
	seen := make(map[string]bool, len(jobs))
	reject := func(id, reason string) {
		issues = append(issues, model.JobIssue{
			JobID:  id,
			Kind:   model.IssueInvalidJob,
			Reason: reason,
			Err:    ErrInvalidJob,
		})
	}
	for _, j := range jobs {
		switch {
		case j.ID == "":
			reject(j.ID, "missing identifier")
		case seen[j.ID]:
			reject(j.ID, "duplicate identifier")
		case !(j.DurationHours > 0):
			reject(j.ID, fmt.Sprintf("duration %g hours is not positive", j.DurationHours))
		case j.EarliestStart.IsZero() || j.DueDate.IsZero():
			reject(j.ID, "missing earliest start or due date")
		case !j.Window():
			reject(j.ID, fmt.Sprintf("earliest start %s is after due date %s",
				j.EarliestStart.Format(time.DateOnly), j.DueDate.Format(time.DateOnly)))
		default:
			valid = append(valid, j)
		}
		if j.ID != "" {
			seen[j.ID] = true
		}
	}
	return valid, issues
}
