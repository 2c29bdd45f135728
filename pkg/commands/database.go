package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"kanban/pkg/board"
)

// PurgeDone deletes done tasks after asking for confirmation on in, unless
// yes is set. It reports how many tasks were removed.
func PurgeDone(b *board.Board, in io.Reader, out io.Writer, label string, yes bool) int {
	if !yes {
		scope := "all done tasks"
		if label != "" {
			scope = fmt.Sprintf("done tasks labeled %s", label)
		}
		fmt.Fprintf(out, "This will delete %s. Continue? (y/N): ", scope)
		var response string
		fmt.Fscanln(in, &response)
		if r := strings.ToLower(strings.TrimSpace(response)); r != "y" && r != "yes" {
			fmt.Fprintln(out, "Operation cancelled")
			return 0
		}
	}
	return b.PurgeDone(label)
}

// HandleDatabaseCommand processes the -database command
func HandleDatabaseCommand(b *board.Board, in io.Reader, out io.Writer, command, label string, yes bool) {
	switch command {
	case "purge-done":
		n := PurgeDone(b, in, out, label, yes)
		fmt.Fprintf(out, "Deleted %d done task(s)\n", n)
	case "labels":
		labels := b.Store().Labels()
		if len(labels) == 0 {
			fmt.Fprintln(out, "No labels.")
			return
		}
		for _, name := range b.Store().LabelNames() {
			fmt.Fprintf(out, "%s\t%s\n", name, labels[name])
		}
	default:
		fmt.Fprintf(out, "Unknown database command: %s (purge-done, labels)\n", command)
		os.Exit(1)
	}
}
