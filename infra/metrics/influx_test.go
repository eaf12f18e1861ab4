package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/crewplan/core/factory"
	coremetrics "github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/model"
)

type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineRecorder) handler(health string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"name":"influxdb","message":"ready","status":"`+health+`","checks":[]}`)
			return
		}
		data, _ := io.ReadAll(r.Body)
		l.mu.Lock()
		l.lines = append(l.lines, strings.Split(strings.TrimSpace(string(data)), "\n")...)
		l.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

func (l *lineRecorder) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

func TestInfluxSink_RecordSolve(t *testing.T) {
	rec := &lineRecorder{}
	srv := httptest.NewServer(rec.handler("pass"))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Unix(1700000000, 0)
	err := sink.RecordSolve(coremetrics.SolveEvent{
		RunID:      "run-1",
		Partition:  "NORTH",
		Status:     model.StatusOptimal,
		Objective:  2,
		LowerBound: 2,
		Jobs:       10,
		Crews:      3,
		Workdays:   21,
		Nodes:      1234,
		Duration:   1500 * time.Millisecond,
		Time:       now,
	})
	require.NoError(t, err)

	lines := rec.all()
	require.Len(t, lines, 1)
	line := lines[0]
	assert.True(t, strings.HasPrefix(line, "solve_event,"), line)
	assert.Contains(t, line, "partition=NORTH")
	assert.Contains(t, line, "status=Optimal")
	assert.Contains(t, line, "late_jobs=2i")
	assert.Contains(t, line, "duration_ms=1500i")
	assert.Contains(t, line, `run_id="run-1"`)
}

func TestInfluxSink_IssuesAndIncumbents(t *testing.T) {
	rec := &lineRecorder{}
	srv := httptest.NewServer(rec.handler("pass"))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Now()
	require.NoError(t, sink.RecordJobIssues(nil))
	require.NoError(t, sink.RecordJobIssues([]coremetrics.IssueEvent{
		{RunID: "r", JobID: "J1", Kind: model.IssueInvalidJob, Reason: "negative duration", Time: now},
		{RunID: "r", JobID: "J2", Kind: model.IssueOutsideHorizon, Reason: "released after horizon", Time: now},
	}))
	require.NoError(t, sink.RecordIncumbent(coremetrics.IncumbentEvent{Objective: 3, Task: -1, Nodes: 0, Time: now}))

	lines := rec.all()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "job_issue,kind=invalid_job")
	assert.Contains(t, lines[1], "kind=outside_horizon")
	assert.Contains(t, lines[2], "search_incumbent,")
	assert.Contains(t, lines[2], "task=-1i")
}

func TestInfluxSinkWithFallback(t *testing.T) {
	rec := &lineRecorder{}
	ok := httptest.NewServer(rec.handler("pass"))
	defer ok.Close()
	s := NewInfluxSinkWithFallback(InfluxConfig{URL: ok.URL, Org: "org", Bucket: "bucket"})
	_, isInflux := s.(*InfluxSink)
	assert.True(t, isInflux)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	s = NewInfluxSinkWithFallback(InfluxConfig{URL: down.URL, Org: "org", Bucket: "bucket"})
	assert.IsType(t, coremetrics.NopSink{}, s)
}

func TestInfluxFactory(t *testing.T) {
	rec := &lineRecorder{}
	srv := httptest.NewServer(rec.handler("pass"))
	defer srv.Close()

	s, err := coremetrics.NewMetricsSink([]factory.ModuleConfig{{
		Type: "influx",
		Conf: map[string]any{"url": srv.URL, "org": "org", "bucket": "runs"},
	}})
	require.NoError(t, err)
	assert.IsType(t, &InfluxSink{}, s)

	_, err = coremetrics.NewMetricsSink([]factory.ModuleConfig{{Type: "influx"}})
	assert.Error(t, err)
}
