// Package planner runs the scheduling pipeline: it filters and validates
// jobs, builds the constraint model for a horizon, searches it and turns the
// result into a schedule that callers must interpret through its status.
package planner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/crewplan/core/calendar"
	"github.com/kilianp07/crewplan/core/logger"
	"github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/model"
	"github.com/kilianp07/crewplan/core/solver"
	"github.com/kilianp07/crewplan/infra/store"
	"github.com/kilianp07/crewplan/internal/eventbus"
)

// Request describes one scheduling run.
type Request struct {
	Jobs []model.Job
	// Year and Month select a calendar month. When Year is zero the horizon
	// runs from Start to End inclusive.
	Year  int
	Month time.Month
	Start time.Time
	End   time.Time
	// Partition and DueCutoff restrict the jobs considered; zero values keep all.
	Partition string
	DueCutoff time.Time
}

// Result is the outcome of a run. Schedule is authoritative only when
// Status.HasSchedule reports true.
type Result struct {
	RunID      string
	Status     model.Status
	Objective  int
	LowerBound int
	Schedule   model.Schedule
	Issues     []model.JobIssue
	Workdays   []model.Workday
	Nodes      int64
	Elapsed    time.Duration
}

// Planner wires the pipeline stages together.
type Planner struct {
	cfg      Config
	holidays calendar.HolidaySet
	crews    []model.Crew
	filter   JobFilter
	engine   *solver.Engine
	logger   logger.Logger
	metrics  metrics.MetricsSink

	mu    sync.Mutex
	store store.RunStore
}

// New creates a Planner. filter, sink, bus and log may be nil; bus receives
// search progress events when set.
func New(cfg Config, filter JobFilter, sink metrics.MetricsSink, bus *eventbus.Bus[solver.Event], log logger.Logger) (*Planner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner: %w", err)
	}
	holidays, err := cfg.HolidaySet()
	if err != nil {
		return nil, err
	}
	crews, err := cfg.Roster()
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = PartitionFilter{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	log = logger.OrNop(log)
	return &Planner{
		cfg:      cfg,
		holidays: holidays,
		crews:    crews,
		filter:   filter,
		engine:   solver.NewEngine(cfg.SolverConfig(), log, bus),
		logger:   log,
		metrics:  sink,
	}, nil
}

// SetRunStore configures the store used to persist run outcomes.
func (p *Planner) SetRunStore(s store.RunStore) {
	p.mu.Lock()
	p.store = s
	p.mu.Unlock()
}

// Config returns the effective configuration.
func (p *Planner) Config() Config { return p.cfg }

// Crews returns the roster used by every run.
func (p *Planner) Crews() []model.Crew { return p.crews }

// Horizon returns the workdays a request covers.
func (p *Planner) Horizon(req Request) ([]model.Workday, error) {
	switch {
	case req.Year != 0:
		return calendar.Workdays(req.Year, req.Month, p.holidays)
	case !req.Start.IsZero() && !req.End.IsZero():
		return calendar.Range(req.Start, req.End, p.holidays)
	default:
		return nil, fmt.Errorf("%w: no year/month or start/end given", calendar.ErrInvalidRange)
	}
}

// Plan runs the pipeline for req.
//
// Jobs that cannot be modeled are reported in Result.Issues while the other
// jobs are scheduled. A run without modeled jobs ends with status
// NoJobsToSchedule and an empty schedule. Global infeasibility returns status
// Infeasible, no schedule and an error wrapping solver.ErrInfeasible. An
// expired time budget is not an error.
func (p *Planner) Plan(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	res := Result{RunID: uuid.NewString()}

	workdays, err := p.Horizon(req)
	if err != nil {
		return res, err
	}
	res.Workdays = workdays

	jobs := p.filter.Filter(req.Jobs, req.DueCutoff, req.Partition)
	valid, issues := ValidateJobs(jobs)
	m, outside := solver.Build(valid, p.crews, workdays)
	res.Issues = append(issues, outside...)
	for _, iss := range res.Issues {
		p.logger.Warnf("run %s: %v", res.RunID, iss)
	}
	p.logger.Infof("run %s: %d of %d jobs modeled over %d workdays with %d crews",
		res.RunID, m.NumJobs(), len(req.Jobs), len(workdays), len(p.crews))

	if m.NumJobs() == 0 {
		res.Status = model.StatusNoJobsToSchedule
		res.Schedule = model.Schedule{}
		p.finish(ctx, req, &res, start)
		return res, nil
	}

	sol, err := p.engine.Solve(ctx, m)
	res.Status, res.LowerBound, res.Nodes = sol.Status, sol.LowerBound, sol.Nodes
	if err != nil {
		var ie *solver.InfeasibleError
		if errors.As(err, &ie) {
			p.logger.Errorf("run %s: infeasible: %v", res.RunID, ie)
		}
		p.finish(ctx, req, &res, start)
		return res, err
	}
	if !sol.Status.HasSchedule() {
		p.logger.Warnf("run %s: time budget of %s expired before any schedule was found",
			res.RunID, p.engine.Config().Timeout)
		p.finish(ctx, req, &res, start)
		return res, nil
	}

	sched, err := solver.Materialize(m, sol)
	if err != nil {
		p.logger.Errorf("run %s: %v", res.RunID, err)
		res.Elapsed = time.Since(start)
		return res, err
	}
	res.Schedule, res.Objective = sched, sol.Objective
	p.finish(ctx, req, &res, start)
	return res, nil
}

// finish records metrics and persists the run. Store failures are logged
// and do not change the result.
func (p *Planner) finish(ctx context.Context, req Request, res *Result, start time.Time) {
	res.Elapsed = time.Since(start)
	now := time.Now()

	if len(res.Issues) > 0 {
		if rec, ok := p.metrics.(metrics.IssueRecorder); ok {
			evs := make([]metrics.IssueEvent, len(res.Issues))
			for i, iss := range res.Issues {
				evs[i] = metrics.IssueEvent{RunID: res.RunID, JobID: iss.JobID, Kind: iss.Kind, Reason: iss.Reason, Time: now}
			}
			if err := rec.RecordJobIssues(evs); err != nil {
				p.logger.Errorf("issue metrics error: %v", err)
			}
		}
	}
	if err := p.metrics.RecordSolve(metrics.SolveEvent{
		RunID:      res.RunID,
		Partition:  req.Partition,
		Status:     res.Status,
		Objective:  res.Objective,
		LowerBound: res.LowerBound,
		Jobs:       len(res.Schedule),
		Crews:      len(p.crews),
		Workdays:   len(res.Workdays),
		Nodes:      res.Nodes,
		Duration:   res.Elapsed,
		Time:       now,
	}); err != nil {
		p.logger.Errorf("solve metrics error: %v", err)
	}

	p.mu.Lock()
	s := p.store
	p.mu.Unlock()
	if s != nil {
		rec := store.RunRecord{
			RunID:       res.RunID,
			Timestamp:   now,
			Partition:   req.Partition,
			Status:      res.Status,
			Objective:   res.Objective,
			Assignments: res.Schedule,
			Issues:      res.Issues,
		}
		if n := len(res.Workdays); n > 0 {
			rec.HorizonStart, rec.HorizonEnd = res.Workdays[0].Date, res.Workdays[n-1].Date
		}
		if err := s.Append(ctx, rec); err != nil {
			p.logger.Errorf("run %s: persist: %v", res.RunID, err)
		}
	}

	p.logger.Debugw("run finished", map[string]any{
		"run_id":    res.RunID,
		"status":    res.Status.String(),
		"late_jobs": res.Objective,
		"bound":     res.LowerBound,
		"issues":    len(res.Issues),
		"nodes":     res.Nodes,
		"elapsed":   res.Elapsed.String(),
	})
	p.logger.Infof("run %s: status=%s late=%d scheduled=%d issues=%d in %s",
		res.RunID, res.Status, res.Objective, len(res.Schedule), len(res.Issues), res.Elapsed)
}
