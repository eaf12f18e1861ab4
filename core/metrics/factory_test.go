package metrics

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/crewplan/core/factory"
)

type closingSink struct {
	NopSink
	closed int
}

func (c *closingSink) Close() { c.closed++ }

var lastClosing *closingSink

func init() {
	_ = RegisterMetricsSink("test", func(map[string]any) (MetricsSink, error) { return &recordSink{}, nil })
	_ = RegisterMetricsSink("closing", func(map[string]any) (MetricsSink, error) {
		lastClosing = &closingSink{}
		return lastClosing, nil
	})
}

// A failing entry closes the sinks built before it.
func TestNewMetricsSink_ClosesOnError(t *testing.T) {
	lastClosing = nil
	_, err := NewMetricsSink([]factory.ModuleConfig{{Type: "closing"}, {Type: "missing"}})
	if err == nil || !strings.Contains(err.Error(), "sinks[1] missing") {
		t.Fatalf("expected indexed error, got %v", err)
	}
	if lastClosing == nil || lastClosing.closed != 1 {
		t.Fatalf("expected the first sink to be closed once, got %+v", lastClosing)
	}
}

func TestCloseMultiSink(t *testing.T) {
	s, err := NewMetricsSink([]factory.ModuleConfig{{Type: "test"}, {Type: "closing"}})
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	Close(s)
	if lastClosing.closed != 1 {
		t.Fatalf("expected closing sink to be closed, got %d", lastClosing.closed)
	}
	Close(NopSink{})
}

/*
TestNewMetricsSink validates NewMetricsSink behavior with zero, one, and multiple configs.
Cases:
  - no config -> NopSink
  - one config -> the sink itself
  - two configs -> MultiSink with two sub-sinks
  - unknown type -> error
*/
func TestNewMetricsSink(t *testing.T) {
	s, err := NewMetricsSink(nil)
	if err != nil {
		t.Fatalf("create nop default: %v", err)
	}
	if _, ok := s.(NopSink); !ok {
		t.Fatalf("expected NopSink, got %T", s)
	}

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "test"}})
	if err != nil {
		t.Fatalf("create single: %v", err)
	}
	if _, ok := s.(*recordSink); !ok {
		t.Fatalf("expected recordSink, got %T", s)
	}

	s, err = NewMetricsSink([]factory.ModuleConfig{{Type: "test"}, {Type: "test"}})
	if err != nil {
		t.Fatalf("create multi: %v", err)
	}
	m, ok := s.(*MultiSink)
	if !ok {
		t.Fatalf("expected MultiSink, got %T", s)
	}
	if len(m.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(m.Sinks))
	}

	if _, err := NewMetricsSink([]factory.ModuleConfig{{Type: "test"}, {Type: "missing"}}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

// Test decoding from YAML and JSON.
func TestMetricsConfigDecode(t *testing.T) {
	var fromYAML Config
	data := `sinks:
  - type: test
  - type: test
pushgateway_url: http://localhost:9091
`
	if err := yaml.Unmarshal([]byte(data), &fromYAML); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if len(fromYAML.Sinks) != 2 {
		t.Fatalf("expected 2 sinks, got %d", len(fromYAML.Sinks))
	}

	var fromJSON Config
	if err := json.Unmarshal([]byte(`{"sinks":[{"type":"test"}],"pushgateway_url":"http://pg:9091"}`), &fromJSON); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	fromJSON.SetDefaults()
	if fromJSON.PushgatewayURL != "http://pg:9091" || fromJSON.JobName != "crewplan" {
		t.Fatalf("unexpected config %+v", fromJSON)
	}
}
