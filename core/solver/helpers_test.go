package solver

import "github.com/kilianp07/crewplan/internal/eventbus"

func newTestBus() *eventbus.Bus[Event] { return eventbus.New[Event](256) }
