// Package reconcile compares a planned schedule with observed completions.
package reconcile

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/crewplan/core/model"
)

// Row pairs a planned assignment with one observed completion.
type Row struct {
	model.Assignment
	Matched    bool      `json:"matched"`
	ActualDate time.Time `json:"actual_date"`
	Status     string    `json:"status"`
	// SlipDays is actual minus planned in calendar days; zero when unmatched.
	SlipDays int `json:"slip_days"`
}

// Summary aggregates a reconciliation.
type Summary struct {
	Planned   int `json:"planned"`
	Rows      int `json:"rows"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	OnPlan    int `json:"on_plan"`
	Early     int `json:"early"`
	Slipped   int `json:"slipped"`
	// Slip statistics over matched rows.
	MeanSlipDays   float64 `json:"mean_slip_days"`
	StdDevSlipDays float64 `json:"stddev_slip_days"`
}

// DailyCount compares planned and actual job counts on one calendar day.
type DailyCount struct {
	Date    time.Time `json:"date"`
	Planned int       `json:"planned"`
	Actual  int       `json:"actual"`
	Diff    int       `json:"diff"` // actual - planned
}

// Report is the result of Reconcile.
type Report struct {
	Rows    []Row        `json:"rows"`
	Summary Summary      `json:"summary"`
	Daily   []DailyCount `json:"daily"`
}

// Reconcile left-joins the schedule with actuals on the job identifier.
// Every actual of a planned job yields one row; a planned job without
// actuals yields a single unmatched row. Actuals of unplanned jobs are
// ignored. Row order follows the schedule, then the actuals.
func Reconcile(s model.Schedule, actuals []model.ActualCompletion) Report {
	byJob := make(map[string][]model.ActualCompletion, len(actuals))
	for _, a := range actuals {
		byJob[a.JobID] = append(byJob[a.JobID], a)
	}
	rows := make([]Row, 0, len(s))
	for _, asg := range s {
		matches := byJob[asg.JobID]
		if len(matches) == 0 {
			rows = append(rows, Row{Assignment: asg})
			continue
		}
		for _, a := range matches {
			rows = append(rows, Row{
				Assignment: asg,
				Matched:    true,
				ActualDate: model.Day(a.Date),
				Status:     a.Status,
				SlipDays:   daysBetween(asg.Date, a.Date),
			})
		}
	}
	return Report{Rows: rows, Summary: Summarize(s, rows), Daily: daily(s, rows)}
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(model.Day(to).Sub(model.Day(from)).Hours() / 24))
}

// Summarize aggregates reconciled rows of schedule s.
func Summarize(s model.Schedule, rows []Row) Summary {
	sum := Summary{Planned: len(s), Rows: len(rows)}
	var slips []float64
	for _, r := range rows {
		if !r.Matched {
			sum.Unmatched++
			continue
		}
		sum.Matched++
		slips = append(slips, float64(r.SlipDays))
		switch {
		case r.SlipDays == 0:
			sum.OnPlan++
		case r.SlipDays < 0:
			sum.Early++
		default:
			sum.Slipped++
		}
	}
	switch len(slips) {
	case 0:
	case 1:
		sum.MeanSlipDays = slips[0]
	default:
		sum.MeanSlipDays, sum.StdDevSlipDays = stat.MeanStdDev(slips, nil)
	}
	return sum
}

// DailyCounts returns planned and actual counts per calendar day over the
// union of planned and actual dates, with days without activity filled in.
// Actual counts cover the matched rows of the reconciliation.
func DailyCounts(s model.Schedule, actuals []model.ActualCompletion) []DailyCount {
	return Reconcile(s, actuals).Daily
}

func daily(s model.Schedule, rows []Row) []DailyCount {
	planned := make(map[time.Time]int)
	actual := make(map[time.Time]int)
	var first, last time.Time
	see := func(d time.Time) {
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}
	for _, a := range s {
		d := model.Day(a.Date)
		planned[d]++
		see(d)
	}
	for _, r := range rows {
		if r.Matched {
			actual[r.ActualDate]++
			see(r.ActualDate)
		}
	}
	if first.IsZero() {
		return nil
	}
	var out []DailyCount
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, DailyCount{Date: d, Planned: planned[d], Actual: actual[d], Diff: actual[d] - planned[d]})
	}
	return out
}
