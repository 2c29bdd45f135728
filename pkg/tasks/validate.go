package tasks

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError rejects a single form field; the mutation did not happen.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Draft carries the editable fields of a task as entered by the user.
type Draft struct {
	Title        string
	Description  string
	DueDate      string
	Priority     Priority
	Status       Status
	Labels       []string
	ReminderType ReminderType
}

// validate normalizes d in place. Past due dates are only rejected on create
// so that editing an overdue task stays possible.
func (d *Draft) validate(today time.Time, creating bool) error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}
	d.Description = strings.TrimSpace(d.Description)

	d.DueDate = strings.TrimSpace(d.DueDate)
	if d.DueDate != "" {
		due, err := time.ParseInLocation(DateLayout, d.DueDate, today.Location())
		if err != nil {
			return &ValidationError{Field: "dueDate", Message: "must be YYYY-MM-DD"}
		}
		midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
		if creating && due.Before(midnight) {
			return &ValidationError{Field: "dueDate", Message: "cannot be in the past"}
		}
	}

	p, ok := ParsePriority(string(d.Priority))
	if !ok {
		return &ValidationError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", d.Priority)}
	}
	d.Priority = p

	if d.Status == "" {
		d.Status = StatusTodo
	} else if st, ok := ParseStatus(string(d.Status)); ok {
		d.Status = st
	} else {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", d.Status)}
	}

	d.ReminderType = ParseReminderType(string(d.ReminderType))
	d.Labels = cleanLabels(d.Labels)
	return nil
}

// cleanLabels trims names, drops blanks and keeps the first of duplicates.
func cleanLabels(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, l := range in {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// SplitLabels parses the comma-separated label field of the task form.
func SplitLabels(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return cleanLabels(strings.Split(s, ","))
}
