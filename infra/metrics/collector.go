package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/crewplan/core/logger"
	coremetrics "github.com/kilianp07/crewplan/core/metrics"
	"github.com/kilianp07/crewplan/core/solver"
	"github.com/kilianp07/crewplan/internal/eventbus"
)

// StartEventCollector subscribes to the solver progress bus and records
// incumbent improvements on sinks implementing ProgressRecorder. It stops
// when the context is canceled or the bus is closed; the returned channel is
// closed once the collector has exited. Sink errors are logged on log.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[solver.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	log = logger.OrNop(log)
	rec, ok := sink.(coremetrics.ProgressRecorder)
	if bus == nil || !ok {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if ev.Kind != solver.EventIncumbent {
					continue
				}
				if err := rec.RecordIncumbent(coremetrics.IncumbentEvent{
					Objective: ev.Objective,
					Task:      ev.Task,
					Nodes:     ev.Nodes,
					Elapsed:   ev.Elapsed,
					Time:      time.Now(),
				}); err != nil {
					log.Errorf("record incumbent %d: %v", ev.Objective, err)
				}
			}
		}
	}()
	return done
}
