package stats

import (
	"sort"
	"time"

	"kanban/pkg/filter"
	"kanban/pkg/tasks"
)

// LabelCount is how many tasks carry a label.
type LabelCount struct {
	Label string
	Count int
}

// Summary is a snapshot of board statistics.
type Summary struct {
	Total         int
	ByStatus      map[tasks.Status]int
	Completed     int
	Rate          float64
	AvgCompletion time.Duration
	Labels        []LabelCount
	DueSoon       []tasks.Task
}

// Compute summarizes ts. DueSoon lists unfinished tasks due within days of
// now, earliest first.
func Compute(ts []tasks.Task, now time.Time, days int) Summary {
	s := Summary{
		Total:    len(ts),
		ByStatus: make(map[tasks.Status]int, len(tasks.Statuses)),
	}

	var spent time.Duration
	timed := 0
	counts := map[string]int{}
	for _, t := range ts {
		s.ByStatus[t.Status]++
		if t.IsDone() {
			s.Completed++
			if t.CompletedAt != nil && !t.CreatedAt.IsZero() && t.CompletedAt.After(t.CreatedAt) {
				spent += t.CompletedAt.Sub(t.CreatedAt)
				timed++
			}
		} else if due, ok := t.Due(); ok && filter.WithinDays(due, now, days) {
			s.DueSoon = append(s.DueSoon, t)
		}
		for _, l := range t.Labels {
			counts[l]++
		}
	}

	if s.Total > 0 {
		s.Rate = float64(s.Completed) / float64(s.Total)
	}
	if timed > 0 {
		s.AvgCompletion = spent / time.Duration(timed)
	}

	for l, n := range counts {
		s.Labels = append(s.Labels, LabelCount{Label: l, Count: n})
	}
	sort.Slice(s.Labels, func(i, j int) bool {
		if s.Labels[i].Count != s.Labels[j].Count {
			return s.Labels[i].Count > s.Labels[j].Count
		}
		return s.Labels[i].Label < s.Labels[j].Label
	})
	s.DueSoon = filter.SortTasks(s.DueSoon, filter.SortDueAsc)
	return s
}
