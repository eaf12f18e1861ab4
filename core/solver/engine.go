package solver

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/crewplan/core/logger"
	"github.com/kilianp07/crewplan/core/model"
	"github.com/kilianp07/crewplan/internal/eventbus"
)

const (
	// DefaultTimeout bounds the wall-clock time of one search.
	DefaultTimeout = 60 * time.Second
	// DefaultWorkers is the number of concurrent search workers.
	DefaultWorkers = 8

	pollEvery      = 128 // nodes between context checks
	tasksPerWorker = 4
	maxSplitDepth  = 4
)

// Config tunes the search engine.
type Config struct {
	Timeout time.Duration
	Workers int
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
}

// Solution is the raw result of a search, indexed like Model.Jobs.
type Solution struct {
	Status     model.Status
	Objective  int // number of late jobs
	LowerBound int // root lower bound on the objective
	Choices    []Choice
	Nodes      int64
	Tasks      int
	Elapsed    time.Duration
}

// Engine runs branch-and-bound search over a Model.
type Engine struct {
	cfg Config
	log logger.Logger
	bus *eventbus.Bus[Event]
}

// NewEngine creates an engine. log and bus may be nil.
func NewEngine(cfg Config, log logger.Logger, bus *eventbus.Bus[Event]) *Engine {
	cfg.SetDefaults()
	return &Engine{cfg: cfg, log: logger.OrNop(log), bus: bus}
}

// Config returns the effective engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Solve searches m for an assignment minimizing the number of late jobs.
//
// The root is split into ordered sub-problems explored depth-first by the
// workers. Expiry of the time budget, or cancellation of ctx, stops the
// workers and the best assignment found so far is returned with status
// FeasibleNotProven, or Timeout when none was found. An error wrapping
// ErrInfeasible is returned when no assignment exists.
func (e *Engine) Solve(ctx context.Context, m *Model) (Solution, error) {
	start := time.Now()
	if m.NumJobs() == 0 {
		return Solution{Status: model.StatusOptimal, Choices: []Choice{}}, nil
	}
	if err := m.Check(); err != nil {
		return Solution{Status: model.StatusInfeasible, Elapsed: time.Since(start)}, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	root := newState(m)
	rootLB, ok := root.evaluate()
	if !ok {
		return Solution{Status: model.StatusInfeasible, Elapsed: time.Since(start)}, m.tightestWindow()
	}

	best := newIncumbent()
	if seed, late, ok := greedy(m); ok {
		best.offer(late, -1, seed)
		e.publish(Event{Kind: EventIncumbent, Objective: late, Task: -1, Elapsed: time.Since(start)})
		e.log.Debugf("greedy seed: %d late jobs, root bound %d", late, rootLB)
	}

	tasks := split(m, e.cfg.Workers)
	var (
		next     atomic.Int64
		finished atomic.Int64
		nodes    atomic.Int64
	)
	g := new(errgroup.Group)
	workers := min(e.cfg.Workers, len(tasks))
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			st := newState(m)
			sr := &searcher{ctx: ctx, best: best, rootLB: rootLB, bufs: make([][]Choice, m.NumJobs()+1), e: e, start: start}
			defer func() { nodes.Add(sr.nodes) }()
			for {
				i := int(next.Add(1) - 1)
				if i >= len(tasks) || ctx.Err() != nil {
					return nil
				}
				st.reset()
				st.apply(tasks[i])
				sr.task = i
				sr.dfs(st)
				if sr.stopped {
					return nil
				}
				finished.Add(1)
				e.publish(Event{Kind: EventTaskDone, Task: i, Nodes: sr.nodes, Elapsed: time.Since(start)})
			}
		})
	}
	_ = g.Wait()

	sol := Solution{
		LowerBound: rootLB,
		Nodes:      nodes.Load(),
		Tasks:      len(tasks),
	}
	obj, choices, found := best.snapshot()
	complete := int(finished.Load()) == len(tasks)
	var err error
	switch {
	case found && (complete || obj == rootLB):
		sol.Status, sol.Objective, sol.Choices = model.StatusOptimal, obj, choices
	case found:
		sol.Status, sol.Objective, sol.Choices = model.StatusFeasibleNotProven, obj, choices
	case complete:
		sol.Status = model.StatusInfeasible
		err = m.tightestWindow()
	default:
		sol.Status = model.StatusTimeout
	}
	sol.Elapsed = time.Since(start)
	e.publish(Event{Kind: EventFinished, Objective: sol.Objective, Task: -1, Nodes: sol.Nodes, Elapsed: sol.Elapsed, Status: sol.Status})
	e.log.Debugf("search finished: status=%s objective=%d bound=%d nodes=%d tasks=%d elapsed=%s",
		sol.Status, sol.Objective, rootLB, sol.Nodes, len(tasks), sol.Elapsed)
	return sol, err
}

func (e *Engine) publish(ev Event) {
	if e.bus != nil {
		e.bus.Publish(ev)
	}
}

// split expands the root breadth-first into ordered sub-problems until
// there are enough of them to keep every worker busy. Children keep the
// depth-first value order, so task indices follow depth-first order.
func split(m *Model, workers int) [][]step {
	frontier := [][]step{nil}
	if workers <= 1 {
		return frontier
	}
	target := workers * tasksPerWorker
	st := newState(m)
	var buf []Choice
	for depth := 0; depth < maxSplitDepth && len(frontier) < target; depth++ {
		next := make([][]step, 0, len(frontier))
		expanded := false
		for _, prefix := range frontier {
			st.reset()
			st.apply(prefix)
			if st.assigned == m.NumJobs() {
				next = append(next, prefix)
				continue
			}
			if _, ok := st.evaluate(); !ok {
				continue
			}
			j, vals, ok := st.selectJob(buf[:0])
			buf = vals
			if !ok {
				continue
			}
			for _, v := range vals {
				child := make([]step, len(prefix), len(prefix)+1)
				copy(child, prefix)
				next = append(next, append(child, step{job: j, val: v}))
			}
			expanded = true
		}
		frontier = next
		if !expanded {
			break
		}
	}
	return frontier
}

// searcher is the depth-first explorer run by one worker.
type searcher struct {
	ctx     context.Context
	best    *incumbent
	e       *Engine
	start   time.Time
	task    int
	rootLB  int
	nodes   int64
	stopped bool
	bufs    [][]Choice // value buffers indexed by depth
}

func (sr *searcher) dfs(st *state) {
	sr.nodes++
	if sr.nodes%pollEvery == 0 && sr.ctx.Err() != nil {
		sr.stopped = true
	}
	if sr.stopped {
		return
	}
	if st.assigned == st.m.NumJobs() {
		if sr.best.offer(st.late, sr.task, st.choice) {
			sr.e.publish(Event{Kind: EventIncumbent, Objective: st.late, Task: sr.task, Nodes: sr.nodes, Elapsed: time.Since(sr.start)})
			sr.e.log.Debugf("task %d improved incumbent to %d late jobs", sr.task, st.late)
		}
		return
	}
	lb, ok := st.evaluate()
	if !ok {
		return
	}
	lb = max(lb, sr.rootLB)
	if sr.best.prunes(lb, sr.task) {
		return
	}
	depth := st.assigned
	j, vals, ok := st.selectJob(sr.bufs[depth][:0])
	if !ok {
		return
	}
	sr.bufs[depth] = vals
	for _, v := range vals {
		st.assign(j, v)
		sr.dfs(st)
		st.unassign(j)
		if sr.stopped || sr.best.prunes(lb, sr.task) {
			return
		}
	}
}
