package solver

import (
	"fmt"

	"github.com/kilianp07/crewplan/core/model"
)

// Materialize converts a solution into a Schedule after re-checking every
// hard constraint. A violation means the engine is broken and is reported as
// ErrInternalInconsistency.
func Materialize(m *Model, sol Solution) (model.Schedule, error) {
	if len(sol.Choices) != m.NumJobs() {
		return nil, fmt.Errorf("%w: %d choices for %d jobs", ErrInternalInconsistency, len(sol.Choices), m.NumJobs())
	}
	load := make([]int64, len(m.capacity))
	sched := make(model.Schedule, 0, m.NumJobs())
	late := 0
	for j, v := range sol.Choices {
		job := m.Jobs[j]
		if v.Crew < 0 || v.Crew >= len(m.Crews) || v.Day < 0 || v.Day >= m.days() {
			return nil, fmt.Errorf("%w: job %s has no valid crew/workday (%d,%d)", ErrInternalInconsistency, job.ID, v.Crew, v.Day)
		}
		if v.Day < m.release[j] {
			return nil, fmt.Errorf("%w: job %s scheduled before its earliest start", ErrInternalInconsistency, job.ID)
		}
		k := m.slot(v.Crew, v.Day)
		load[k] += m.dur[j]
		if load[k] > m.capacity[k] {
			return nil, fmt.Errorf("%w: crew %s over capacity on %s", ErrInternalInconsistency,
				m.Crews[v.Crew].ID, m.Workdays[v.Day].Date.Format("2006-01-02"))
		}
		date := m.Workdays[v.Day].Date
		isLate := job.LateOn(date)
		if isLate != (v.Day > m.dueIdx[j]) {
			return nil, fmt.Errorf("%w: lateness of job %s disagrees with its due workday", ErrInternalInconsistency, job.ID)
		}
		if isLate {
			late++
		}
		sched = append(sched, model.Assignment{
			JobID:         job.ID,
			CrewID:        m.Crews[v.Crew].ID,
			Date:          date,
			EarliestStart: job.EarliestStart,
			DueDate:       job.DueDate,
			DurationHours: job.DurationHours,
			Late:          isLate,
		})
	}
	if late != sol.Objective {
		return nil, fmt.Errorf("%w: objective %d but %d late assignments", ErrInternalInconsistency, sol.Objective, late)
	}
	sched.Sort()
	return sched, nil
}
