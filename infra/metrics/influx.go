package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/infra/logger"
)

const influxWriteTimeout = 5 * time.Second

// InfluxConfig locates the bucket receiving run events.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes scheduling run events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: influxWriteTimeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), influxWriteTimeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSolve writes one solve_event point per run.
func (s *InfluxSink) RecordSolve(ev coremetrics.SolveEvent) error {
	p := write.NewPointWithMeasurement("solve_event").
		AddTag("status", ev.Status.String()).
		AddTag("component", "planner")
	if ev.Partition != "" {
		p.AddTag("partition", ev.Partition)
	}
	p = p.AddField("run_id", ev.RunID).
		AddField("late_jobs", ev.Objective).
		AddField("lower_bound", ev.LowerBound).
		AddField("jobs", ev.Jobs).
		AddField("crews", ev.Crews).
		AddField("workdays", ev.Workdays).
		AddField("nodes", ev.Nodes).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordJobIssues writes one job_issue point per rejected job.
func (s *InfluxSink) RecordJobIssues(evs []coremetrics.IssueEvent) error {
	if len(evs) == 0 {
		return nil
	}
	points := make([]*write.Point, len(evs))
	for i, ev := range evs {
		points[i] = write.NewPointWithMeasurement("job_issue").
			AddTag("kind", ev.Kind.String()).
			AddField("run_id", ev.RunID).
			AddField("job_id", ev.JobID).
			AddField("reason", ev.Reason).
			SetTime(ev.Time)
	}
	return s.write(points...)
}

// RecordIncumbent writes a search_incumbent point for each improvement.
func (s *InfluxSink) RecordIncumbent(ev coremetrics.IncumbentEvent) error {
	p := write.NewPointWithMeasurement("search_incumbent").
		AddTag("component", "solver").
		AddField("late_jobs", ev.Objective).
		AddField("task", ev.Task).
		AddField("nodes", ev.Nodes).
		AddField("elapsed_ms", ev.Elapsed.Milliseconds()).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) write(points ...*write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), influxWriteTimeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
