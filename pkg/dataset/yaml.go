package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/crewplan/core/model"
)

// JobDoc is the YAML form of a job. Dates use any layout ParseDate accepts.
type JobDoc struct {
	ID            string  `yaml:"id"`
	EarliestStart string  `yaml:"earliest_start"`
	DueDate       string  `yaml:"due_date"`
	DurationHours float64 `yaml:"duration_hours"`
	Partition     string  `yaml:"partition"`
}

// Job converts the document into a model.Job.
func (d JobDoc) Job() (model.Job, error) {
	return parseJob(d.ID, d.EarliestStart, d.DueDate, d.Partition, d.DurationHours)
}

// ActualDoc is the YAML form of an observed completion.
type ActualDoc struct {
	JobID  string `yaml:"job_id"`
	Date   string `yaml:"date"`
	Status string `yaml:"status"`
}

// Actual converts the document into a model.ActualCompletion.
func (d ActualDoc) Actual() (model.ActualCompletion, error) {
	t, err := ParseDate(d.Date)
	if err != nil {
		return model.ActualCompletion{}, fmt.Errorf("actual %s: %w", d.JobID, err)
	}
	return model.ActualCompletion{JobID: d.JobID, Date: model.Day(t), Status: d.Status}, nil
}

// Jobs converts a list of documents.
func Jobs(docs []JobDoc) ([]model.Job, error) {
	jobs := make([]model.Job, 0, len(docs))
	for i, d := range docs {
		j, err := d.Job()
		if err != nil {
			return nil, fmt.Errorf("jobs[%d] %s: %w", i, d.ID, err)
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// ReadJobsYAML reads a document of the form `jobs: [...]`.
func ReadJobsYAML(r io.Reader) ([]model.Job, error) {
	var doc struct {
		Jobs []JobDoc `yaml:"jobs"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("jobs: %w", err)
	}
	return Jobs(doc.Jobs)
}

// LoadJobs reads jobs from a .csv, .yaml or .yml file.
func LoadJobs(path string) ([]model.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadJobsCSV(f)
	case ".yaml", ".yml":
		return ReadJobsYAML(f)
	default:
		return nil, fmt.Errorf("unsupported jobs format: %s", filepath.Ext(path))
	}
}

// LoadActuals reads actuals from a CSV file.
func LoadActuals(path string) ([]model.ActualCompletion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadActualsCSV(f)
}

// LoadSchedule reads a schedule CSV file.
func LoadSchedule(path string) (model.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadScheduleCSV(f)
}
