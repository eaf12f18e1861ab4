package solver

import "math"

// Choice is the value of one job variable: a crew index and a workday index.
type Choice struct {
	Crew int
	Day  int
}

var unassigned = Choice{Crew: -1, Day: -1}

// step fixes one job variable; a task is the prefix of steps that roots a sub-problem.
type step struct {
	job int
	val Choice
}

// state is a worker-private partial assignment. It is never shared.
type state struct {
	m        *Model
	residual []int64
	choice   []Choice
	assigned int
	late     int

	forced  []bool
	demand  []int64
	prefix  []int64
	relMark []bool
	dueMark []bool
	seen    []int64
}

func newState(m *Model) *state {
	D := m.days()
	s := &state{
		m:        m,
		residual: make([]int64, len(m.capacity)),
		choice:   make([]Choice, m.NumJobs()),
		forced:   make([]bool, m.NumJobs()),
		demand:   make([]int64, D+1),
		prefix:   make([]int64, D+1),
		relMark:  make([]bool, D),
		dueMark:  make([]bool, D),
		seen:     make([]int64, 0, len(m.Crews)),
	}
	s.reset()
	return s
}

func (s *state) reset() {
	copy(s.residual, s.m.capacity)
	for i := range s.choice {
		s.choice[i] = unassigned
	}
	s.assigned, s.late = 0, 0
}

func (s *state) apply(prefix []step) {
	for _, st := range prefix {
		s.assign(st.job, st.val)
	}
}

func (s *state) assign(j int, v Choice) {
	s.residual[s.m.slot(v.Crew, v.Day)] -= s.m.dur[j]
	s.choice[j] = v
	s.assigned++
	if v.Day > s.m.dueIdx[j] {
		s.late++
	}
}

func (s *state) unassign(j int) {
	v := s.choice[j]
	s.residual[s.m.slot(v.Crew, v.Day)] += s.m.dur[j]
	s.choice[j] = unassigned
	s.assigned--
	if v.Day > s.m.dueIdx[j] {
		s.late--
	}
}

func (s *state) open(j int) bool { return s.choice[j].Crew < 0 }

// onTimePossible reports whether job j still has a legal value on or before its due workday.
func (s *state) onTimePossible(j int) bool {
	m := s.m
	last := m.dueIdx[j]
	for d := m.release[j]; d <= last; d++ {
		for c := range m.Crews {
			if s.residual[m.slot(c, d)] >= m.dur[j] {
				return true
			}
		}
	}
	return false
}

// evaluate propagates aggregate capacity and returns a lower bound on the
// number of late jobs of any completion of the current state. ok is false
// when some suffix of the horizon cannot absorb the open jobs released in it.
//
// The bound adds the late jobs already committed, the open jobs with no
// on-time value left, and the largest count, over workday intervals [a, b],
// of open jobs released at or after a and due by b that must be dropped so
// the rest fit the residual capacity of the interval.
func (s *state) evaluate() (lb int, ok bool) {
	m := s.m
	D := m.days()
	for d := range s.demand {
		s.demand[d] = 0
	}
	for j := range m.Jobs {
		if s.open(j) {
			s.demand[m.release[j]] += m.dur[j]
		}
	}
	s.prefix[0] = 0
	for d := 0; d < D; d++ {
		var day int64
		for c := range m.Crews {
			day += s.residual[m.slot(c, d)]
		}
		s.prefix[d+1] = s.prefix[d] + day
	}
	var need int64
	for t := D - 1; t >= 0; t-- {
		need += s.demand[t]
		if need > s.prefix[D]-s.prefix[t] {
			return 0, false
		}
	}

	forced := 0
	for d := 0; d < D; d++ {
		s.relMark[d], s.dueMark[d] = false, false
	}
	for j := range m.Jobs {
		s.forced[j] = false
		if !s.open(j) {
			continue
		}
		if !s.onTimePossible(j) {
			s.forced[j] = true
			forced++
			continue
		}
		s.relMark[m.release[j]] = true
		s.dueMark[m.dueIdx[j]] = true
	}

	worst := 0
	for a := 0; a < D; a++ {
		if !s.relMark[a] {
			continue
		}
		for b := a; b < D; b++ {
			if !s.dueMark[b] {
				continue
			}
			if k := s.overflow(a, b, s.prefix[b+1]-s.prefix[a]); k > worst {
				worst = k
			}
		}
	}
	return s.late + forced + worst, true
}

// overflow returns how many of the open, not yet forced, jobs confined to
// [a, b] must be removed, largest first, to fit capacity.
func (s *state) overflow(a, b int, capacity int64) int {
	m := s.m
	var total int64
	for _, j := range m.byDur {
		if s.inWindow(j, a, b) {
			total += m.dur[j]
		}
	}
	if total <= capacity {
		return 0
	}
	k := 0
	for _, j := range m.byDur {
		if !s.inWindow(j, a, b) {
			continue
		}
		total -= m.dur[j]
		k++
		if total <= capacity {
			break
		}
	}
	return k
}

func (s *state) inWindow(j, a, b int) bool {
	return s.open(j) && !s.forced[j] && s.m.release[j] >= a && s.m.dueIdx[j] <= b
}

// countValues counts the distinct legal values of job j, stopping once the
// count exceeds limit.
func (s *state) countValues(j, limit int) int {
	m := s.m
	n := 0
	for d := m.release[j]; d < m.days(); d++ {
		s.seen = s.seen[:0]
		for c := range m.Crews {
			r := s.residual[m.slot(c, d)]
			if r < m.dur[j] || s.seenResidual(r) {
				continue
			}
			s.seen = append(s.seen, r)
			n++
			if n > limit {
				return n
			}
		}
	}
	return n
}

// values appends the legal values of job j to buf in branching order:
// earliest workday first, then lowest crew index. Crews left with the same
// residual capacity on a day are interchangeable, so only the first is kept.
func (s *state) values(j int, buf []Choice) []Choice {
	m := s.m
	for d := m.release[j]; d < m.days(); d++ {
		s.seen = s.seen[:0]
		for c := range m.Crews {
			r := s.residual[m.slot(c, d)]
			if r < m.dur[j] || s.seenResidual(r) {
				continue
			}
			s.seen = append(s.seen, r)
			buf = append(buf, Choice{Crew: c, Day: d})
		}
	}
	return buf
}

func (s *state) seenResidual(r int64) bool {
	for _, v := range s.seen {
		if v == r {
			return true
		}
	}
	return false
}

// selectJob picks the open job with the fewest legal values, breaking ties
// by longer duration and then by lower index, and returns its values.
// ok is false when an open job has no legal value left.
func (s *state) selectJob(buf []Choice) (job int, vals []Choice, ok bool) {
	m := s.m
	best, bestCount := -1, math.MaxInt
	for j := range m.Jobs {
		if !s.open(j) {
			continue
		}
		n := s.countValues(j, bestCount)
		if n == 0 {
			return j, buf, false
		}
		if n < bestCount || (n == bestCount && m.dur[j] > m.dur[best]) {
			best, bestCount = j, n
		}
	}
	if best < 0 {
		return -1, buf, false
	}
	return best, s.values(best, buf), true
}
