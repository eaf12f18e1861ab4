package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/crewplan/core/metrics"
)

// PromSink records scheduling runs in Prometheus metrics.
type PromSink struct {
	solves     *prometheus.CounterVec
	duration   prometheus.Histogram
	late       prometheus.Gauge
	issues     *prometheus.CounterVec
	incumbents prometheus.Counter
	nodes      prometheus.Counter
}

// NewPromSink registers run metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.solves, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewplan_solve_total",
		Help: "Scheduling runs by final status",
	}, []string{"status"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "crewplan_solve_duration_seconds",
		Help:    "Wall-clock time spent searching for a schedule",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 30, 60, 120},
	})); err != nil {
		return nil, err
	}
	if s.late, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "crewplan_late_jobs",
		Help: "Late jobs in the most recent schedule",
	})); err != nil {
		return nil, err
	}
	if s.issues, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "crewplan_job_issues_total",
		Help: "Jobs left out of a run by issue kind",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if s.incumbents, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewplan_incumbent_updates_total",
		Help: "Improved schedules found during search",
	})); err != nil {
		return nil, err
	}
	if s.nodes, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "crewplan_search_nodes_total",
		Help: "Search tree nodes explored",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the collector already registered under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve counts the run and updates duration, lateness and node metrics.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Status.String()).Inc()
	s.duration.Observe(ev.Duration.Seconds())
	if ev.Status.HasSchedule() {
		s.late.Set(float64(ev.Objective))
	}
	if ev.Nodes > 0 {
		s.nodes.Add(float64(ev.Nodes))
	}
	return nil
}

// RecordJobIssues counts issues by kind.
func (s *PromSink) RecordJobIssues(evs []coremetrics.IssueEvent) error {
	for _, e := range evs {
		s.issues.WithLabelValues(e.Kind.String()).Inc()
	}
	return nil
}

// RecordIncumbent counts incumbent improvements.
func (s *PromSink) RecordIncumbent(coremetrics.IncumbentEvent) error {
	s.incumbents.Inc()
	return nil
}
