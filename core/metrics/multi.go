package metrics

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordJobIssues forwards issues to sinks implementing IssueRecorder.
func (m *MultiSink) RecordJobIssues(evs []IssueEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(IssueRecorder); ok {
			if err := rec.RecordJobIssues(evs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordIncumbent forwards progress to sinks implementing ProgressRecorder.
func (m *MultiSink) RecordIncumbent(ev IncumbentEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ProgressRecorder); ok {
			if err := rec.RecordIncumbent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases every sink holding a connection.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		Close(s)
	}
}
