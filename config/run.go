package config

import (
	"fmt"
	"time"

	"github.com/kilianp07/crewplan/core/model"
	"github.com/kilianp07/crewplan/core/planner"
	"github.com/kilianp07/crewplan/pkg/dataset"
)

// RunConfig selects the horizon and the jobs of a scheduling run.
type RunConfig struct {
	// Year and Month select a calendar month.
	Year  int `json:"year"`
	Month int `json:"month"`
	// Start and End (YYYY-MM-DD) bound an arbitrary horizon when Year is zero.
	Start string `json:"start"`
	End   string `json:"end"`
	// Partition keeps only jobs of this partition when set.
	Partition string `json:"partition"`
	// DueCutoff keeps only jobs due at or before this timestamp when set.
	DueCutoff string `json:"due_cutoff"`
}

// Validate checks the horizon and the cutoff formats.
func (r RunConfig) Validate() error {
	if r.Month < 0 || r.Month > 12 {
		return fmt.Errorf("month %d out of range", r.Month)
	}
	_, err := r.Request(nil)
	return err
}

// Request converts the section into a planner request for jobs.
func (r RunConfig) Request(jobs []model.Job) (planner.Request, error) {
	req := planner.Request{Jobs: jobs, Year: r.Year, Month: time.Month(r.Month), Partition: r.Partition}
	var err error
	if r.Start != "" {
		if req.Start, err = dataset.ParseDate(r.Start); err != nil {
			return req, fmt.Errorf("start: %w", err)
		}
	}
	if r.End != "" {
		if req.End, err = dataset.ParseDate(r.End); err != nil {
			return req, fmt.Errorf("end: %w", err)
		}
	}
	if r.DueCutoff != "" {
		if req.DueCutoff, err = dataset.ParseDate(r.DueCutoff); err != nil {
			return req, fmt.Errorf("due_cutoff: %w", err)
		}
	}
	return req, nil
}
