package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/kilianp07/crewplan/auth"
	"github.com/kilianp07/crewplan/config"
	coremetrics "github.com/kilianp07/crewplan/core/metrics"
	coremon "github.com/kilianp07/crewplan/core/monitoring"
	"github.com/kilianp07/crewplan/core/model"
	"github.com/kilianp07/crewplan/core/planner"
	"github.com/kilianp07/crewplan/core/publish"
	"github.com/kilianp07/crewplan/core/solver"
	"github.com/kilianp07/crewplan/infra/logger"
	"github.com/kilianp07/crewplan/infra/metrics"
	"github.com/kilianp07/crewplan/infra/monitoring"
	"github.com/kilianp07/crewplan/infra/mqtt"
	"github.com/kilianp07/crewplan/infra/store"
	"github.com/kilianp07/crewplan/internal/eventbus"
)

const (
	pushTimeout  = 10 * time.Second
	flushTimeout = 2 * time.Second
)

// Service wires the planner to the configured metrics sinks, run store,
// schedule publisher and progress bus.
type Service struct {
	Planner *planner.Planner
	Store   store.RunStore

	cfg       *config.Config
	bus       *eventbus.Bus[solver.Event]
	collector <-chan struct{}
	stop      context.CancelFunc
	sink      coremetrics.MetricsSink
	gatherer  prometheus.Gatherer
	pushAuth  push.HTTPDoer
	publisher publish.Publisher
	monitor   coremon.Monitor
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg, err := logger.NewWithOptions("service", cfg.Logging.Options())
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	var pub publish.Publisher = publish.Nop{}
	if cfg.Publish.Enabled() {
		pp, err := mqtt.NewPahoPublisher(cfg.Publish)
		if err != nil {
			coremetrics.Close(sink)
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = pp
	}

	runs, err := store.New(cfg.Store)
	if err != nil {
		disconnect(pub)
		coremetrics.Close(sink)
		return nil, fmt.Errorf("run store: %w", err)
	}

	bus := eventbus.New[solver.Event](64)
	p, err := planner.New(cfg.Scheduler, planner.PartitionFilter{}, sink, bus, logg.With("planner"))
	if err != nil {
		_ = runs.Close()
		disconnect(pub)
		coremetrics.Close(sink)
		return nil, err
	}
	p.SetRunStore(runs)

	ctx, stop := context.WithCancel(context.Background())
	svc := &Service{
		Planner:   p,
		Store:     runs,
		cfg:       cfg,
		bus:       bus,
		collector: metrics.StartEventCollector(ctx, bus, sink, logg.With("collector")),
		stop:      stop,
		sink:      sink,
		gatherer:  prometheus.DefaultGatherer,
		publisher: pub,
		monitor:   mon,
		log:       logg,
	}
	if cfg.Metrics.PushAuth.Enabled() {
		svc.pushAuth = auth.NewClientCred(cfg.Metrics.PushAuth)
	}
	return svc, nil
}

// SetPublisher replaces the schedule publisher.
func (s *Service) SetPublisher(p publish.Publisher) {
	if p == nil {
		p = publish.Nop{}
	}
	s.publisher = p
}

// Plan schedules jobs over the horizon selected by the run section and
// publishes the schedule when one was found. Infeasibility is a planning
// outcome and is not reported to the monitor.
func (s *Service) Plan(ctx context.Context, jobs []model.Job) (planner.Result, error) {
	req, err := s.cfg.Run.Request(jobs)
	if err != nil {
		return planner.Result{}, err
	}
	res, err := s.Planner.Plan(ctx, req)
	if err != nil {
		if !errors.Is(err, solver.ErrInfeasible) {
			s.monitor.CaptureException(err, map[string]string{"run_id": res.RunID, "stage": "plan"})
		}
		return res, err
	}
	if !res.Status.HasSchedule() {
		return res, nil
	}
	run := publish.Run{
		RunID:     res.RunID,
		Partition: req.Partition,
		Status:    res.Status,
		LateJobs:  res.Objective,
		Schedule:  res.Schedule,
	}
	if err := s.publisher.PublishSchedule(ctx, run); err != nil {
		s.log.Errorf("run %s: publish: %v", res.RunID, err)
		return res, fmt.Errorf("publish run %s: %w", res.RunID, err)
	}
	return res, nil
}

// Close drains the progress collector, pushes metrics when a Pushgateway is
// configured, then releases the sinks, the publisher and the run store.
func (s *Service) Close() error {
	s.bus.Close()
	<-s.collector
	s.stop()

	var errs []error
	if url := s.cfg.Metrics.PushgatewayURL; url != "" {
		ctx, cancel := context.WithTimeout(context.Background(), pushTimeout)
		defer cancel()
		if err := metrics.Push(ctx, url, s.cfg.Metrics.JobName, s.gatherer, s.pushAuth); err != nil {
			s.log.Errorf("metrics push: %v", err)
			errs = append(errs, err)
		}
	}
	coremetrics.Close(s.sink)
	disconnect(s.publisher)
	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("run store: %w", err))
	}
	s.monitor.Flush(flushTimeout)
	return errors.Join(errs...)
}

func disconnect(p publish.Publisher) {
	if d, ok := p.(interface{ Disconnect() }); ok {
		d.Disconnect()
	}
}
