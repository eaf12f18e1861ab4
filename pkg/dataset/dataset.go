// Package dataset loads job, actual and schedule records from CSV and YAML
// files into the typed records used by the planner.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/crewplan/core/model"
)

// ErrMissingColumn is returned when a required CSV column is absent.
var ErrMissingColumn = errors.New("missing column")

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006-01-02 15:04",
	time.RFC3339,
	"1/2/2006 15:04",
	"1/2/2006",
}

// ParseDate accepts ISO dates, date-times and US style dates. Times are
// kept so that due timestamps such as 2023-01-31 23:59 survive.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// table is a parsed CSV file with case-insensitive header lookup.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	t := &table{cols: make(map[string]int, len(recs[0])), rows: recs[1:]}
	for i, h := range recs[0] {
		t.cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return t, nil
}

// column returns the index of the first alias present, or -1.
func (t *table) column(aliases ...string) int {
	for _, a := range aliases {
		if i, ok := t.cols[a]; ok {
			return i
		}
	}
	return -1
}

func (t *table) require(aliases ...string) (int, error) {
	if i := t.column(aliases...); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrMissingColumn, aliases[0])
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// ReadJobsCSV reads job records. Recognized columns are id (job_id,
// callid), earliest_start (earlystart), due_date (duedate), the optional
// partition (district) and either duration_hours or duration. The
// duration column holds seconds, as in the planning exports; duration_hours
// wins when both are present. Values are parsed but not validated; the
// planner reports invalid jobs.
func ReadJobsCSV(r io.Reader) ([]model.Job, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("jobs: %w", err)
	}
	var idx [3]int
	for i, aliases := range [][]string{
		{"id", "job_id", "callid"},
		{"earliest_start", "earlystart"},
		{"due_date", "duedate"},
	} {
		if idx[i], err = t.require(aliases...); err != nil {
			return nil, fmt.Errorf("jobs: %w", err)
		}
	}
	dur, perHour := t.column("duration_hours"), 1.0
	if dur < 0 {
		if dur, err = t.require("duration_hours", "duration"); err != nil {
			return nil, fmt.Errorf("jobs: %w", err)
		}
		perHour = 3600
	}
	partition := t.column("partition", "district")
	jobs := make([]model.Job, 0, len(t.rows))
	for n, rec := range t.rows {
		v, err := strconv.ParseFloat(cell(rec, dur), 64)
		if err != nil {
			return nil, fmt.Errorf("jobs line %d: duration: %w", n+2, err)
		}
		j, err := parseJob(cell(rec, idx[0]), cell(rec, idx[1]), cell(rec, idx[2]), cell(rec, partition), v/perHour)
		if err != nil {
			return nil, fmt.Errorf("jobs line %d: %w", n+2, err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func parseJob(id, earliest, due, partition string, hours float64) (model.Job, error) {
	j := model.Job{ID: id, Partition: partition, DurationHours: hours}
	var err error
	if j.EarliestStart, err = ParseDate(earliest); err != nil {
		return j, fmt.Errorf("earliest start: %w", err)
	}
	if j.DueDate, err = ParseDate(due); err != nil {
		return j, fmt.Errorf("due date: %w", err)
	}
	return j, nil
}

// ReadActualsCSV reads observed completions. Recognized columns are job_id
// (id, callid), date (scheduledstart, actual_date) and the optional status.
// Rows with an empty date carry no completion and are skipped.
func ReadActualsCSV(r io.Reader) ([]model.ActualCompletion, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("actuals: %w", err)
	}
	id, err := t.require("job_id", "id", "callid")
	if err != nil {
		return nil, fmt.Errorf("actuals: %w", err)
	}
	date, err := t.require("date", "scheduledstart", "actual_date")
	if err != nil {
		return nil, fmt.Errorf("actuals: %w", err)
	}
	status := t.column("status")
	out := make([]model.ActualCompletion, 0, len(t.rows))
	for n, rec := range t.rows {
		v := cell(rec, date)
		if v == "" {
			continue
		}
		d, err := ParseDate(v)
		if err != nil {
			return nil, fmt.Errorf("actuals line %d: %w", n+2, err)
		}
		out = append(out, model.ActualCompletion{JobID: cell(rec, id), Date: model.Day(d), Status: cell(rec, status)})
	}
	return out, nil
}

// ReadScheduleCSV reads a schedule written by export.WriteScheduleCSV.
func ReadScheduleCSV(r io.Reader) (model.Schedule, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	var idx [3]int
	for i, name := range []string{"job_id", "crew_id", "date"} {
		if idx[i], err = t.require(name); err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
	}
	est, due, dur, late := t.column("earliest_start"), t.column("due_date"), t.column("duration_hours"), t.column("late")
	s := make(model.Schedule, 0, len(t.rows))
	for n, rec := range t.rows {
		a := model.Assignment{JobID: cell(rec, idx[0]), CrewID: cell(rec, idx[1])}
		if a.Date, err = ParseDate(cell(rec, idx[2])); err != nil {
			return nil, fmt.Errorf("schedule line %d: %w", n+2, err)
		}
		if v := cell(rec, est); v != "" {
			if a.EarliestStart, err = ParseDate(v); err != nil {
				return nil, fmt.Errorf("schedule line %d: %w", n+2, err)
			}
		}
		if v := cell(rec, due); v != "" {
			if a.DueDate, err = ParseDate(v); err != nil {
				return nil, fmt.Errorf("schedule line %d: %w", n+2, err)
			}
		}
		if v := cell(rec, dur); v != "" {
			if a.DurationHours, err = strconv.ParseFloat(v, 64); err != nil {
				return nil, fmt.Errorf("schedule line %d: %w", n+2, err)
			}
		}
		if v := cell(rec, late); v != "" {
			if a.Late, err = strconv.ParseBool(v); err != nil {
				return nil, fmt.Errorf("schedule line %d: %w", n+2, err)
			}
		}
		s = append(s, a)
	}
	s.Sort()
	return s, nil
}
