package filter

import (
	"sort"
	"time"

	"kanban/pkg/tasks"
)

// SortBy orders the filtered set.
type SortBy string

const (
	SortNone    SortBy = ""
	SortDueAsc  SortBy = "dueAsc"
	SortDueDesc SortBy = "dueDesc"
)

// Next cycles none -> ascending -> descending.
func (s SortBy) Next() SortBy {
	switch s {
	case SortNone:
		return SortDueAsc
	case SortDueAsc:
		return SortDueDesc
	default:
		return SortNone
	}
}

// SortTasks returns a sorted copy. Tasks without a due date sort last in
// both directions; ties keep their original order.
func SortTasks(ts []tasks.Task, by SortBy) []tasks.Task {
	sorted := make([]tasks.Task, len(ts))
	copy(sorted, ts)
	if by != SortDueAsc && by != SortDueDesc {
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		di, oki := sorted[i].Due()
		dj, okj := sorted[j].Due()
		switch {
		case !oki || !okj:
			return oki && !okj
		case by == SortDueDesc:
			return di.After(dj)
		default:
			return di.Before(dj)
		}
	})
	return sorted
}

// Query bundles everything the render side needs to pull a task list.
type Query struct {
	Filters Config
	Search  string
	Sort    SortBy
}

// Run filters, searches and sorts ts for display.
func (e Engine) Run(ts []tasks.Task, q Query, today time.Time) []tasks.Task {
	return SortTasks(Search(e.Apply(ts, q.Filters, today), q.Search), q.Sort)
}
