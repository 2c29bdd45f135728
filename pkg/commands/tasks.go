package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"kanban/pkg/board"
	"kanban/pkg/tasks"
)

const idPrefix = "task-"

var (
	ErrNoMatch   = errors.New("no task matches")
	ErrAmbiguous = errors.New("id prefix matches more than one task")
)

// shortID is the part of an id worth typing
func shortID(id string) string {
	id = strings.TrimPrefix(id, idPrefix)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ResolveTask finds a task by full id or unique id prefix, with or without
// the task- prefix.
func ResolveTask(b *board.Board, ref string) (tasks.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return tasks.Task{}, ErrNoMatch
	}
	if t, ok := b.Store().Get(ref); ok {
		return t, nil
	}

	var found []tasks.Task
	for _, t := range b.Store().Tasks() {
		if strings.HasPrefix(t.ID, ref) || strings.HasPrefix(strings.TrimPrefix(t.ID, idPrefix), ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return tasks.Task{}, fmt.Errorf("%w: %s", ErrNoMatch, ref)
	case 1:
		return found[0], nil
	}
	return tasks.Task{}, fmt.Errorf("%w: %s", ErrAmbiguous, ref)
}

// MoveTask changes the status of the referenced task
func MoveTask(b *board.Board, ref, status string) (tasks.Task, error) {
	st, ok := tasks.ParseStatus(status)
	if !ok {
		return tasks.Task{}, fmt.Errorf("unknown status %q (todo, in-progress, done)", status)
	}
	t, err := ResolveTask(b, ref)
	if err != nil {
		return tasks.Task{}, err
	}
	moved, _, err := b.Move(t.ID, st)
	return moved, err
}

// HandleMoveTask processes the -move command
func HandleMoveTask(b *board.Board, out io.Writer, ref, status string) {
	t, err := MoveTask(b, ref, status)
	if err != nil {
		fmt.Fprintf(out, "Error moving task: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "Moved %s to %s\n", t.Title, t.Status)
}

// HandleDeleteTask processes the -delete command
func HandleDeleteTask(b *board.Board, out io.Writer, ref string) {
	t, err := ResolveTask(b, ref)
	if err != nil {
		fmt.Fprintf(out, "Error deleting task: %v\n", err)
		os.Exit(1)
	}
	res := b.Delete(t.ID)
	fmt.Fprintf(out, "Deleted task %s: %s\n", shortID(t.ID), t.Title)
	if len(res.RemovedLabels) > 0 {
		fmt.Fprintf(out, "Removed unused label(s): %s\n", strings.Join(res.RemovedLabels, ", "))
	}
}

// HandleDeleteLabel processes the -delete-label command
func HandleDeleteLabel(b *board.Board, out io.Writer, name string) {
	res := b.DeleteLabel(strings.TrimSpace(name))
	if !res.Changed() {
		fmt.Fprintf(out, "No label named %s\n", name)
		return
	}
	fmt.Fprintf(out, "Deleted label %s\n", name)
}
