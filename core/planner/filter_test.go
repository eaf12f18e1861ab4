package planner

import (
	"testing"
	"time"

	"github.com/kilianp07/crewplan/core/model"
)

func TestPartitionFilter(t *testing.T) {
	jobs := []model.Job{
		{ID: "a", DueDate: date("2023-01-20"), Partition: "METRO"},
		{ID: "b", DueDate: date("2023-02-20"), Partition: "METRO"},
		{ID: "c", DueDate: date("2023-01-05"), Partition: "RURAL"},
		{ID: "d", DueDate: date("2023-01-31"), Partition: "METRO"},
	}
	cases := []struct {
		name      string
		cutoff    time.Time
		partition string
		want      []string
	}{
		{"cutoff and partition", date("2023-01-31"), "METRO", []string{"a", "d"}},
		{"cutoff only", date("2023-01-31"), "", []string{"a", "c", "d"}},
		{"partition only", time.Time{}, "RURAL", []string{"c"}},
		{"no restriction", time.Time{}, "", []string{"a", "b", "c", "d"}},
		{"nothing matches", date("2022-12-31"), "METRO", nil},
	}
	for _, c := range cases {
		got := PartitionFilter{}.Filter(jobs, c.cutoff, c.partition)
		if len(got) != len(c.want) {
			t.Fatalf("%s: expected %v got %d jobs", c.name, c.want, len(got))
		}
		for i, j := range got {
			if j.ID != c.want[i] {
				t.Fatalf("%s: position %d expected %s got %s", c.name, i, c.want[i], j.ID)
			}
		}
	}
	if jobs[0].ID != "a" || len(jobs) != 4 {
		t.Fatal("input modified")
	}
}

func TestValidateJobs(t *testing.T) {
	jobs := []model.Job{
		{ID: "ok", EarliestStart: date("2023-01-02"), DueDate: date("2023-01-02"), DurationHours: 1},
		{ID: "", EarliestStart: date("2023-01-02"), DueDate: date("2023-01-03"), DurationHours: 1},
		{ID: "neg", EarliestStart: date("2023-01-02"), DueDate: date("2023-01-03"), DurationHours: -2},
		{ID: "rev", EarliestStart: date("2023-01-04"), DueDate: date("2023-01-03"), DurationHours: 1},
		{ID: "nodate", DurationHours: 1},
		{ID: "ok", EarliestStart: date("2023-01-02"), DueDate: date("2023-01-05"), DurationHours: 1},
	}
	valid, issues := ValidateJobs(jobs)
	if len(valid) != 1 || valid[0].ID != "ok" || !valid[0].DueDate.Equal(date("2023-01-02")) {
		t.Fatalf("unexpected valid jobs %+v", valid)
	}
	if len(issues) != 5 {
		t.Fatalf("expected 5 issues got %d", len(issues))
	}
	for _, iss := range issues {
		if iss.Kind != model.IssueInvalidJob || iss.Reason == "" {
			t.Fatalf("unexpected issue %+v", iss)
		}
	}
}
