package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"kanban/pkg/board"
)

// ImportFile loads a board export (.json) or a text checklist (.txt). A JSON
// import replaces the board; a checklist is appended to it.
func ImportFile(b *board.Board, file string) (int, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".json":
		f, err := os.Open(file)
		if err != nil {
			return 0, fmt.Errorf("opening %s: %w", file, err)
		}
		defer f.Close()
		if _, err := b.Import(f); err != nil {
			return 0, err
		}
		return len(b.Store().Tasks()), nil
	case ".txt":
		content, err := os.ReadFile(file)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", file, err)
		}
		n, _ := b.ImportText(string(content))
		return n, nil
	}
	return 0, fmt.Errorf("unsupported file type %q (.json, .txt)", filepath.Ext(file))
}

// HandleImportCommand processes the -import command
func HandleImportCommand(b *board.Board, out io.Writer, file string) {
	n, err := ImportFile(b, file)
	if err != nil {
		fmt.Fprintf(out, "Error importing: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "Imported %d task(s) from %s\n", n, file)
}
