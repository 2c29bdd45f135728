package commands

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"kanban/pkg/board"
	"kanban/pkg/tasks"
)

var (
	labelTagRegex       = regexp.MustCompile(`\+(\w[\w-]*)`)
	removeLabelTagRegex = regexp.MustCompile(`\s*\+\w[\w-]*\s*`)
)

// AddOptions are the -add flags
type AddOptions struct {
	Text     string
	Date     string
	Priority string
	Labels   string
	Reminder string
}

// AddTask creates a task from the command line. +label tags in the text
// become labels and are removed from the title.
func AddTask(b *board.Board, opts AddOptions) (tasks.Task, error) {
	labels := append(extractLabels(opts.Text), tasks.SplitLabels(opts.Labels)...)
	t, _, err := b.Create(tasks.Draft{
		Title:        removeLabelTags(opts.Text),
		DueDate:      opts.Date,
		Priority:     tasks.Priority(opts.Priority),
		Labels:       labels,
		ReminderType: tasks.ReminderType(opts.Reminder),
	})
	return t, err
}

// HandleAddTask processes the -add command
func HandleAddTask(b *board.Board, out io.Writer, opts AddOptions) {
	t, err := AddTask(b, opts)
	if err != nil {
		fmt.Fprintf(out, "Error adding task: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(out, "Added task %s: %s\n", shortID(t.ID), t.Title)
	if t.RemindAt != nil {
		fmt.Fprintf(out, "Reminder set for %s\n", t.RemindAt.Format("2006-01-02 15:04"))
	}
}

// extractLabels finds all +label tags in text
func extractLabels(text string) []string {
	var labels []string
	for _, match := range labelTagRegex.FindAllStringSubmatch(text, -1) {
		labels = append(labels, match[1])
	}
	return labels
}

// removeLabelTags removes +label tags from text for clean title
func removeLabelTags(text string) string {
	return strings.TrimSpace(removeLabelTagRegex.ReplaceAllString(text, " "))
}
