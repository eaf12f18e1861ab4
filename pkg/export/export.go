// Package export writes schedules and reconciliation reports for external
// consumers such as spreadsheets and dashboards.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/kilianp07/crewplan/core/model"
	"github.com/kilianp07/crewplan/core/reconcile"
)

// ScheduleHeader is the column layout of schedule CSV files.
var ScheduleHeader = []string{"job_id", "crew_id", "date", "earliest_start", "due_date", "duration_hours", "late"}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

func hours(h float64) string { return strconv.FormatFloat(h, 'f', -1, 64) }

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteScheduleCSV writes the schedule to w in CSV format.
func WriteScheduleCSV(w io.Writer, s model.Schedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScheduleHeader); err != nil {
		return err
	}
	for _, a := range s {
		rec := []string{
			a.JobID,
			a.CrewID,
			day(a.Date),
			day(a.EarliestStart),
			day(a.DueDate),
			hours(a.DurationHours),
			strconv.FormatBool(a.Late),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteReconciliationCSV writes joined plan/actual rows to w.
func WriteReconciliationCSV(w io.Writer, rows []reconcile.Row) error {
	cw := csv.NewWriter(w)
	header := append(append([]string{}, ScheduleHeader...), "matched", "actual_date", "status", "slip_days")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		slip := ""
		if r.Matched {
			slip = strconv.Itoa(r.SlipDays)
		}
		rec := []string{
			r.JobID,
			r.CrewID,
			day(r.Date),
			day(r.EarliestStart),
			day(r.DueDate),
			hours(r.DurationHours),
			strconv.FormatBool(r.Late),
			strconv.FormatBool(r.Matched),
			day(r.ActualDate),
			r.Status,
			slip,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailyCSV writes per-day planned and actual counts to w.
func WriteDailyCSV(w io.Writer, counts []reconcile.DailyCount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "planned", "actual", "diff"}); err != nil {
		return err
	}
	for _, c := range counts {
		if err := cw.Write([]string{day(c.Date), strconv.Itoa(c.Planned), strconv.Itoa(c.Actual), strconv.Itoa(c.Diff)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
