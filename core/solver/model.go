// Package solver builds the crew scheduling constraint model and searches it
// for an assignment that minimizes the number of late jobs.
package solver

import (
	"fmt"
	"math"
	"sort"

	"github.com/kilianp07/crewplan/core/model"
)

// Model is the read-only constraint model shared by every search worker.
//
// Each job has one decision variable whose values are (crew, workday) pairs.
// Hard constraints: the workday is not before the job's release, the crew
// works that day and the per crew-day load stays within the crew capacity.
// A separate 0/1 lateness indicator is set when the workday is after dueIdx.
type Model struct {
	Jobs     []model.Job
	Crews    []model.Crew
	Workdays []model.Workday

	dur      []int64 // job duration in seconds
	release  []int   // first workday index the job may use
	dueIdx   []int   // last on-time workday index, -1 when always late
	capacity []int64 // crew-major [c*days+d] seconds, 0 when the crew is off
	byDur    []int   // job indices by decreasing duration
}

// NumJobs returns the number of modeled jobs.
func (m *Model) NumJobs() int { return len(m.Jobs) }

func (m *Model) days() int { return len(m.Workdays) }

func (m *Model) slot(c, d int) int { return c*len(m.Workdays) + d }

func seconds(hours float64) int64 {
	s := int64(math.Round(hours * 3600))
	if s < 1 && hours > 0 {
		s = 1
	}
	return s
}

// Build translates jobs, crews and workdays into a Model. Jobs whose earliest
// start falls after the last workday are returned as issues and left out of
// the model; every other job is modeled.
func Build(jobs []model.Job, crews []model.Crew, workdays []model.Workday) (*Model, []model.JobIssue) {
	m := &Model{Crews: crews, Workdays: workdays}
	var issues []model.JobIssue
	for _, j := range jobs {
		rel := releaseIndex(workdays, j)
		if rel < 0 {
			reason := "no workdays in horizon"
			if len(workdays) > 0 {
				reason = fmt.Sprintf("earliest start %s is after horizon end %s",
					model.Day(j.EarliestStart).Format("2006-01-02"),
					workdays[len(workdays)-1].Date.Format("2006-01-02"))
			}
			issues = append(issues, model.JobIssue{
				JobID:  j.ID,
				Kind:   model.IssueOutsideHorizon,
				Reason: reason,
				Err:    ErrInfeasibleInputs,
			})
			continue
		}
		m.Jobs = append(m.Jobs, j)
		m.dur = append(m.dur, seconds(j.DurationHours))
		m.release = append(m.release, rel)
		m.dueIdx = append(m.dueIdx, dueIndex(workdays, j))
	}

	m.capacity = make([]int64, len(crews)*len(workdays))
	for c, crew := range crews {
		cap := seconds(crew.NetShiftHours)
		for d, wd := range workdays {
			if crew.AvailableOn(wd.Date) {
				m.capacity[m.slot(c, d)] = cap
			}
		}
	}

	m.byDur = make([]int, len(m.Jobs))
	for i := range m.byDur {
		m.byDur[i] = i
	}
	sort.SliceStable(m.byDur, func(a, b int) bool { return m.dur[m.byDur[a]] > m.dur[m.byDur[b]] })
	return m, issues
}

// releaseIndex returns the first workday on or after the job's earliest start.
func releaseIndex(workdays []model.Workday, j model.Job) int {
	est := model.Day(j.EarliestStart)
	i := sort.Search(len(workdays), func(i int) bool { return !workdays[i].Date.Before(est) })
	if i == len(workdays) {
		return -1
	}
	return i
}

// dueIndex returns the last workday on or before the job's due date.
func dueIndex(workdays []model.Workday, j model.Job) int {
	due := model.Day(j.DueDate)
	return sort.Search(len(workdays), func(i int) bool { return workdays[i].Date.After(due) }) - 1
}

func hours(sec int64) float64 { return float64(sec) / 3600 }

// Check runs the structural capacity tests that prove infeasibility without
// search: a job larger than every shift it could use, and a suffix of the
// horizon whose demand from jobs released inside it exceeds its supply.
// The window with the largest deficit is reported.
func (m *Model) Check() error {
	D := m.days()
	for j := range m.Jobs {
		fits := false
		for c := range m.Crews {
			for d := m.release[j]; d < D && !fits; d++ {
				fits = m.capacity[m.slot(c, d)] >= m.dur[j]
			}
		}
		if !fits {
			return &InfeasibleError{
				JobID:  m.Jobs[j].ID,
				Reason: fmt.Sprintf("%.2fh exceeds every available crew shift from its earliest start", m.Jobs[j].DurationHours),
			}
		}
	}
	if len(m.Jobs) == 0 {
		return nil
	}

	demand, supply := m.suffixTotals()
	worst, worstDeficit := -1, int64(0)
	for t := D - 1; t >= 0; t-- {
		if deficit := demand[t] - supply[t]; deficit > worstDeficit {
			worst, worstDeficit = t, deficit
		}
	}
	if worst < 0 {
		return nil
	}
	return &InfeasibleError{
		From:           m.Workdays[worst].Date,
		To:             m.Workdays[D-1].Date,
		RequiredHours:  hours(demand[worst]),
		AvailableHours: hours(supply[worst]),
		Reason:         "job hours released in this window exceed total crew capacity",
	}
}

// suffixTotals returns, for every workday t, the hours of jobs released on or
// after t and the crew capacity from t to the end of the horizon.
func (m *Model) suffixTotals() (demand, supply []int64) {
	D := m.days()
	demand = make([]int64, D+1)
	supply = make([]int64, D+1)
	for j := range m.Jobs {
		demand[m.release[j]] += m.dur[j]
	}
	for d := 0; d < D; d++ {
		for c := range m.Crews {
			supply[d] += m.capacity[m.slot(c, d)]
		}
	}
	for t := D - 1; t >= 0; t-- {
		demand[t] += demand[t+1]
		supply[t] += supply[t+1]
	}
	return demand, supply
}

// tightestWindow reports the suffix window with the highest demand/supply
// ratio. It is used to describe infeasibility that search had to prove.
func (m *Model) tightestWindow() *InfeasibleError {
	D := m.days()
	if D == 0 || len(m.Jobs) == 0 {
		return &InfeasibleError{Reason: "no workday can host the jobs"}
	}
	demand, supply := m.suffixTotals()
	best, bestRatio := 0, -1.0
	for t := D - 1; t >= 0; t-- {
		ratio := math.Inf(1)
		if supply[t] > 0 {
			ratio = float64(demand[t]) / float64(supply[t])
		}
		if ratio > bestRatio {
			best, bestRatio = t, ratio
		}
	}
	return &InfeasibleError{
		From:           m.Workdays[best].Date,
		To:             m.Workdays[D-1].Date,
		RequiredHours:  hours(demand[best]),
		AvailableHours: hours(supply[best]),
		Reason:         "jobs cannot be packed into individual crew shifts",
	}
}
