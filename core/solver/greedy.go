package solver

import "sort"

// greedy builds a first incumbent. Jobs are taken by earliest due workday
// and placed first-fit inside their on-time window; jobs that do not fit on
// time are placed first-fit afterwards. ok is false when a job fits nowhere.
func greedy(m *Model) (choices []Choice, late int, ok bool) {
	D := m.days()
	order := make([]int, m.NumJobs())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ja, jb := order[a], order[b]
		if m.dueIdx[ja] != m.dueIdx[jb] {
			return m.dueIdx[ja] < m.dueIdx[jb]
		}
		if m.release[ja] != m.release[jb] {
			return m.release[ja] < m.release[jb]
		}
		return m.dur[ja] > m.dur[jb]
	})

	residual := append([]int64(nil), m.capacity...)
	choices = make([]Choice, m.NumJobs())
	place := func(j, last int) bool {
		for d := m.release[j]; d <= last; d++ {
			for c := range m.Crews {
				k := m.slot(c, d)
				if residual[k] >= m.dur[j] {
					residual[k] -= m.dur[j]
					choices[j] = Choice{Crew: c, Day: d}
					return true
				}
			}
		}
		return false
	}

	var deferred []int
	for _, j := range order {
		if !place(j, m.dueIdx[j]) {
			deferred = append(deferred, j)
		}
	}
	for _, j := range deferred {
		if !place(j, D-1) {
			return nil, 0, false
		}
	}
	return choices, len(deferred), true
}
