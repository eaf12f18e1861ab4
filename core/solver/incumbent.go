package solver

import (
	"math"
	"sync"
	"sync/atomic"
)

// incumbent is the only state shared between workers: the best objective
// found so far and a snapshot of the assignment that achieved it.
//
// Solutions are ordered by (objective, task). The greedy seed uses task -1,
// so later equal solutions never replace it, and among search solutions the
// lower task index wins. The packed key lets workers prune without locking.
type incumbent struct {
	key    atomic.Int64
	mu     sync.Mutex
	obj    int
	task   int
	found  bool
	choice []Choice
}

func newIncumbent() *incumbent {
	b := &incumbent{}
	b.key.Store(math.MaxInt64)
	return b
}

func packKey(obj, task int) int64 {
	return int64(obj)<<32 | int64(uint32(task+1))
}

// prunes reports whether a subtree of task with lower bound lb cannot
// produce a solution ranked before the incumbent.
func (b *incumbent) prunes(lb, task int) bool {
	return packKey(lb, task) >= b.key.Load()
}

// offer records choice when it ranks before the incumbent.
func (b *incumbent) offer(obj, task int, choice []Choice) bool {
	k := packKey(obj, task)
	if k >= b.key.Load() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if k >= b.key.Load() {
		return false
	}
	b.choice = append([]Choice(nil), choice...)
	b.obj, b.task, b.found = obj, task, true
	b.key.Store(k)
	return true
}

func (b *incumbent) snapshot() (obj int, choice []Choice, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.found {
		return 0, nil, false
	}
	return b.obj, append([]Choice(nil), b.choice...), true
}
