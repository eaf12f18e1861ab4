package scenarios

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/crewplan/core/planner"
	"github.com/kilianp07/crewplan/core/reconcile"
	"github.com/kilianp07/crewplan/core/solver"
	"github.com/kilianp07/crewplan/infra/logger"
	"github.com/kilianp07/crewplan/infra/metrics"
	"github.com/kilianp07/crewplan/pkg/dataset"
)

func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	cfg := planner.Config{
		NumCrews:             sc.NumCrews,
		NetShiftHours:        sc.NetShiftHours,
		SolverTimeoutSeconds: 10,
		Holidays:             sc.Holidays,
	}
	p, err := planner.New(cfg, nil, sink, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("planner: %v", err)
	}

	jobs, err := dataset.Jobs(sc.Jobs)
	if err != nil {
		t.Fatalf("jobs: %v", err)
	}
	req := planner.Request{Jobs: jobs, Year: sc.Horizon.Year, Month: time.Month(sc.Horizon.Month)}
	if sc.Horizon.Start != "" {
		if req.Start, err = dataset.ParseDate(sc.Horizon.Start); err != nil {
			t.Fatalf("start: %v", err)
		}
		if req.End, err = dataset.ParseDate(sc.Horizon.End); err != nil {
			t.Fatalf("end: %v", err)
		}
	}

	res, err := p.Plan(context.Background(), req)
	exp := sc.Expected
	if exp.InfeasibleJob != "" || errors.Is(err, solver.ErrInfeasible) {
		var ie *solver.InfeasibleError
		if !errors.As(err, &ie) {
			t.Fatalf("expected infeasibility, got %v", err)
		}
		if ie.JobID != exp.InfeasibleJob {
			t.Errorf("expected job %q to be blamed, got %q", exp.InfeasibleJob, ie.JobID)
		}
	} else if err != nil {
		t.Fatalf("plan: %v", err)
	}

	if res.Status != exp.Status {
		t.Errorf("expected status %s, got %s", exp.Status, res.Status)
	}
	if res.Objective != exp.Objective {
		t.Errorf("expected objective %d, got %d", exp.Objective, res.Objective)
	}
	if len(res.Schedule) != exp.Scheduled {
		t.Errorf("expected %d assignments, got %d", exp.Scheduled, len(res.Schedule))
	}
	if late := res.Schedule.Late(); res.Status.HasSchedule() && late != res.Objective {
		t.Errorf("late count %d differs from objective %d", late, res.Objective)
	}

	issues := make([]string, len(res.Issues))
	for i, iss := range res.Issues {
		issues[i] = iss.JobID
	}
	sort.Strings(issues)
	want := append([]string(nil), exp.Issues...)
	sort.Strings(want)
	if len(issues) != len(want) {
		t.Fatalf("expected issues %v, got %v", want, issues)
	}
	for i := range want {
		if issues[i] != want[i] {
			t.Fatalf("expected issues %v, got %v", want, issues)
		}
	}

	if got := testutil.CollectAndCount(reg, "crewplan_solve_total"); got != 1 {
		t.Errorf("expected one solve series, got %d", got)
	}

	if len(sc.Actuals) == 0 {
		return
	}
	actuals, err := sc.actuals()
	if err != nil {
		t.Fatalf("actuals: %v", err)
	}
	rep := reconcile.Reconcile(res.Schedule, actuals)
	if rep.Summary.Slipped != exp.Slipped {
		t.Errorf("expected %d slipped rows, got %d", exp.Slipped, rep.Summary.Slipped)
	}
}
