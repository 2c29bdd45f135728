package tasks

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar-date format of Task.DueDate.
const DateLayout = "2006-01-02"

// Status is the board column a task sits in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses lists the columns in board order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// ParseStatus accepts the stored spelling of a status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Statuses, st) {
		return st, true
	}
	return "", false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority maps an empty string to the medium default.
func ParsePriority(s string) (Priority, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PriorityMedium, true
	}
	p := Priority(s)
	if slices.Contains(Priorities, p) {
		return p, true
	}
	return "", false
}

// ReminderType is a reminder policy; ComputeRemindAt turns it into a time.
type ReminderType string

const (
	ReminderNone           ReminderType = "none"
	ReminderSameDay09      ReminderType = "same-day-09"
	ReminderSameDay18      ReminderType = "same-day-18"
	ReminderOneDayBefore18 ReminderType = "one-day-before-18"
)

var ReminderTypes = []ReminderType{ReminderNone, ReminderSameDay09, ReminderSameDay18, ReminderOneDayBefore18}

// ParseReminderType never fails: anything unrecognized is ReminderNone.
func ParseReminderType(s string) ReminderType {
	rt := ReminderType(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(ReminderTypes, rt) {
		return rt
	}
	return ReminderNone
}

type Subtask struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Status Status `json:"status" yaml:"status"`
}

type Task struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Description  string       `json:"description" yaml:"description,omitempty"`
	DueDate      string       `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Priority     Priority     `json:"priority" yaml:"priority"`
	Status       Status       `json:"status" yaml:"status"`
	Labels       []string     `json:"labels" yaml:"labels,omitempty"`
	ReminderType ReminderType `json:"reminderType,omitempty" yaml:"reminderType,omitempty"`
	RemindAt     *time.Time   `json:"remindAt" yaml:"remindAt,omitempty"`
	Reminded     bool         `json:"reminded" yaml:"reminded"`
	CreatedAt    time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt" yaml:"updatedAt"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
	Subtasks     []Subtask    `json:"subtasks" yaml:"subtasks,omitempty"`
}

func (t Task) HasLabel(label string) bool {
	return slices.Contains(t.Labels, label)
}

// Due returns the due date at local midnight.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation(DateLayout, t.DueDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsDone reports whether the task sits in the done column.
func (t Task) IsDone() bool {
	return t.Status == StatusDone
}

func (t Task) clone() Task {
	c := t
	c.Labels = slices.Clone(t.Labels)
	c.Subtasks = slices.Clone(t.Subtasks)
	if t.RemindAt != nil {
		at := *t.RemindAt
		c.RemindAt = &at
	}
	if t.CompletedAt != nil {
		done := *t.CompletedAt
		c.CompletedAt = &done
	}
	return c
}

func normalizeTask(t *Task) {
	if t.Labels == nil {
		t.Labels = []string{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.ReminderType == "" {
		t.ReminderType = ReminderNone
	}
}
