package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"kanban/pkg/board"
	"kanban/pkg/filter"
	"kanban/pkg/tasks"
)

// ListQuery are the listing flags
type ListQuery struct {
	Status   string
	Priority string
	Labels   string
	Upcoming bool
	Search   string
	Sort     string
}

// Apply sets the board's filters, search and sort from q
func (q ListQuery) Apply(b *board.Board) error {
	cfg := filter.DefaultConfig()

	if q.Status != "" {
		cfg.Status = nil
		for _, s := range strings.Split(q.Status, ",") {
			st, ok := tasks.ParseStatus(s)
			if !ok {
				return fmt.Errorf("unknown status %q", s)
			}
			cfg.Status = append(cfg.Status, st)
		}
	}
	if q.Priority != "" && q.Priority != filter.PriorityAll {
		p, ok := tasks.ParsePriority(q.Priority)
		if !ok {
			return fmt.Errorf("unknown priority %q", q.Priority)
		}
		cfg.Priority = string(p)
	}
	cfg.Labels = tasks.SplitLabels(q.Labels)
	if q.Upcoming {
		cfg.Date = filter.DateUpcoming
	}

	by := filter.SortBy(q.Sort)
	switch by {
	case filter.SortNone, filter.SortDueAsc, filter.SortDueDesc:
	default:
		return fmt.Errorf("unknown sort %q (dueAsc, dueDesc)", q.Sort)
	}

	b.SetFilters(cfg)
	b.SetSearch(q.Search)
	b.SetSort(by)
	return nil
}

// PrintTasks writes ts as an aligned table
func PrintTasks(out io.Writer, ts []tasks.Task) {
	if len(ts) == 0 {
		fmt.Fprintln(out, "No tasks.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tDUE\tPRIORITY\tLABELS\tREMINDER")
	for _, t := range ts {
		reminder := ""
		if t.RemindAt != nil {
			reminder = t.RemindAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(t.ID), t.Status, t.Title, t.DueDate, t.Priority, strings.Join(t.Labels, ","), reminder)
	}
	w.Flush()
}

// HandleList processes the -list command
func HandleList(b *board.Board, out io.Writer, q ListQuery) {
	if err := q.Apply(b); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		os.Exit(1)
	}
	PrintTasks(out, b.Visible())
}
