package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"kanban/pkg/board"
	"kanban/pkg/transfer"
)

// ExportFile writes the board to file. An empty format is taken from the
// file extension.
func ExportFile(b *board.Board, file, format string) error {
	if format == "" {
		format = filepath.Ext(file)
	}
	f, err := transfer.ParseFormat(format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	w, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("creating %s: %w", file, err)
	}
	if err := b.Export(w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// HandleExportCommand processes the -export command
func HandleExportCommand(b *board.Board, out io.Writer, file, format string) {
	if err := ExportFile(b, file, format); err != nil {
		fmt.Fprintf(out, "Error exporting: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "Exported %d task(s) to %s\n", len(b.Store().Tasks()), file)
}
