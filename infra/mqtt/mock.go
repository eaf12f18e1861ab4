package mqtt

import (
	"context"
	"sync"

	"github.com/kilianp07/crewplan/core/publish"
)

// MockPublisher records runs instead of sending them.
type MockPublisher struct {
	Runs []publish.Run
	Err  error
	mu   sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishSchedule records the run or returns the configured error.
func (m *MockPublisher) PublishSchedule(_ context.Context, run publish.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Runs = append(m.Runs, run)
	return nil
}

// Published returns a copy of the recorded runs.
func (m *MockPublisher) Published() []publish.Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publish.Run(nil), m.Runs...)
}
