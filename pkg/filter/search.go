package filter

import (
	"strings"

	"kanban/pkg/tasks"
)

// MatchesSearch is a case-insensitive substring test on title and
// description. An empty term matches everything.
func MatchesSearch(t tasks.Task, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Title), term) ||
		strings.Contains(strings.ToLower(t.Description), term)
}

// Search keeps the tasks matching term, in order.
func Search(ts []tasks.Task, term string) []tasks.Task {
	out := make([]tasks.Task, 0, len(ts))
	for _, t := range ts {
		if MatchesSearch(t, term) {
			out = append(out, t)
		}
	}
	return out
}
