package commands

import (
	"context"
	"fmt"
	"io"

	"kanban/pkg/board"
)

// HandleReminders reports missed reminders through the board's alerter and
// lists the pending ones.
func HandleReminders(b *board.Board, out io.Writer) {
	if missed := b.SweepMissed(); len(missed) == 0 {
		fmt.Fprintln(out, "No missed reminders.")
	}

	active := b.Scheduler().Active()
	if len(active) == 0 {
		fmt.Fprintln(out, "No pending reminders.")
		return
	}
	fmt.Fprintln(out, "Pending reminders:")
	for _, e := range active {
		fmt.Fprintf(out, "  %s  %s\n", e.RemindAt.Format("2006-01-02 15:04"), e.Title)
	}
}

// HandleWatch runs the reminder loop until ctx is cancelled.
func HandleWatch(ctx context.Context, b *board.Board, out io.Writer) {
	fmt.Fprintf(out, "Watching %d pending reminder(s), press Ctrl+C to stop\n", len(b.Scheduler().Active()))
	b.Start(ctx)
	<-ctx.Done()
	b.Stop()
}
