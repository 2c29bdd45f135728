package commands

import (
	"fmt"
	"io"
	"time"

	"kanban/pkg/board"
	"kanban/pkg/tasks"
)

// HandleStats prints the board statistics
func HandleStats(b *board.Board, out io.Writer) {
	s := b.Stats()

	fmt.Fprintf(out, "Tasks: %d\n", s.Total)
	for _, st := range tasks.Statuses {
		fmt.Fprintf(out, "  %-12s %d\n", st, s.ByStatus[st])
	}
	fmt.Fprintf(out, "Completion rate: %.0f%%\n", s.Rate*100)
	if s.AvgCompletion > 0 {
		fmt.Fprintf(out, "Average completion time: %s\n", s.AvgCompletion.Round(time.Minute))
	}
	if len(s.Labels) > 0 {
		fmt.Fprintln(out, "Labels:")
		for _, lc := range s.Labels {
			fmt.Fprintf(out, "  %-12s %d\n", lc.Label, lc.Count)
		}
	}
	if len(s.DueSoon) > 0 {
		fmt.Fprintln(out, "Due soon:")
		for _, t := range s.DueSoon {
			fmt.Fprintf(out, "  %s  %s\n", t.DueDate, t.Title)
		}
	}
}
