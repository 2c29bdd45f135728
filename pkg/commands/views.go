package commands

import (
	"fmt"
	"io"
	"os"

	"kanban/pkg/board"
)

// HandleSaveView stores the listing flags as a named view
func HandleSaveView(b *board.Board, out io.Writer, name string, q ListQuery) {
	if err := q.Apply(b); err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		os.Exit(1)
	}
	if !b.SaveView(name) {
		fmt.Fprintln(out, "Error: view name must not be empty")
		os.Exit(1)
	}
	fmt.Fprintf(out, "Saved view %s\n", name)
}

// HandleApplyView lists the tasks a saved view shows
func HandleApplyView(b *board.Board, out io.Writer, name string) {
	if !b.ApplyView(name) {
		fmt.Fprintf(out, "No saved view named %s\n", name)
		return
	}
	PrintTasks(out, b.Visible())
}

// HandleDeleteView processes the -delete-view command
func HandleDeleteView(b *board.Board, out io.Writer, name string) {
	b.DeleteView(name)
	fmt.Fprintf(out, "Deleted view %s\n", name)
}

// HandleListViews prints the saved view names
func HandleListViews(b *board.Board, out io.Writer) {
	names := b.SavedViews()
	if len(names) == 0 {
		fmt.Fprintln(out, "No saved views.")
		return
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
}
