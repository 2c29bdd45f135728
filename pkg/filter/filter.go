package filter

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"kanban/pkg/tasks"
)

// DateWindow restricts tasks by due date. The zero value means no
// restriction and is encoded as JSON null.
type DateWindow string

const (
	DateAny      DateWindow = ""
	DateUpcoming DateWindow = "upcoming"
)

func (w DateWindow) MarshalJSON() ([]byte, error) {
	if w == DateAny {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}

func (w *DateWindow) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*w = DateAny
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*w = DateWindow(s)
	return nil
}

// PriorityAll disables the priority predicate.
const PriorityAll = "all"

// Config is the active filter selection.
type Config struct {
	Status   []tasks.Status `json:"status"`
	Date     DateWindow     `json:"date"`
	Priority string         `json:"priority"`
	Labels   []string       `json:"labels"`
}

// DefaultConfig shows every column with no other restriction.
func DefaultConfig() Config {
	return Config{
		Status:   slices.Clone(tasks.Statuses),
		Date:     DateAny,
		Priority: PriorityAll,
		Labels:   []string{},
	}
}

// Clone returns a deep copy.
func (c Config) Clone() Config {
	c.Status = slices.Clone(c.Status)
	c.Labels = slices.Clone(c.Labels)
	return c
}

// WithoutLabels drops the named labels from the label selection.
func (c Config) WithoutLabels(names []string) Config {
	c = c.Clone()
	c.Labels = slices.DeleteFunc(c.Labels, func(l string) bool { return slices.Contains(names, l) })
	return c
}

// ToggleStatus adds or removes one status from the selection.
func (c Config) ToggleStatus(st tasks.Status) Config {
	c = c.Clone()
	if i := slices.Index(c.Status, st); i >= 0 {
		c.Status = slices.Delete(c.Status, i, i+1)
	} else {
		c.Status = append(c.Status, st)
	}
	return c
}

// ToggleLabel adds or removes one label from the selection.
func (c Config) ToggleLabel(label string) Config {
	c = c.Clone()
	if i := slices.Index(c.Labels, label); i >= 0 {
		c.Labels = slices.Delete(c.Labels, i, i+1)
	} else {
		c.Labels = append(c.Labels, label)
	}
	return c
}

// LabelMode selects how a multi-label selection is matched.
type LabelMode int

const (
	// MatchAll requires every selected label on the task.
	MatchAll LabelMode = iota
	// MatchAny requires at least one selected label on the task.
	MatchAny
)

// ParseLabelMode reads the label_match setting; anything but "any" is MatchAll.
func ParseLabelMode(s string) LabelMode {
	if strings.EqualFold(strings.TrimSpace(s), "any") {
		return MatchAny
	}
	return MatchAll
}

func (m LabelMode) String() string {
	if m == MatchAny {
		return "any"
	}
	return "all"
}

// DefaultUpcomingDays is the length of the upcoming window after today.
const DefaultUpcomingDays = 7

// Engine evaluates a Config against tasks.
type Engine struct {
	LabelMode    LabelMode
	UpcomingDays int
}

func NewEngine(mode LabelMode, upcomingDays int) Engine {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}
	return Engine{LabelMode: mode, UpcomingDays: upcomingDays}
}

// Matches reports whether t passes every predicate of cfg. today is used at
// calendar-day granularity only.
func (e Engine) Matches(t tasks.Task, cfg Config, today time.Time) bool {
	return slices.Contains(cfg.Status, t.Status) &&
		e.matchesDate(t, cfg.Date, today) &&
		matchesPriority(t, cfg.Priority) &&
		e.matchesLabels(t, cfg.Labels)
}

func (e Engine) matchesDate(t tasks.Task, w DateWindow, today time.Time) bool {
	if w != DateUpcoming {
		return true
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	return WithinDays(due, today, e.upcomingDays())
}

func (e Engine) upcomingDays() int {
	if e.UpcomingDays <= 0 {
		return DefaultUpcomingDays
	}
	return e.UpcomingDays
}

func matchesPriority(t tasks.Task, p string) bool {
	return p == "" || p == PriorityAll || string(t.Priority) == p
}

func (e Engine) matchesLabels(t tasks.Task, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	if e.LabelMode == MatchAny {
		return slices.ContainsFunc(selected, t.HasLabel)
	}
	for _, l := range selected {
		if !t.HasLabel(l) {
			return false
		}
	}
	return true
}

// Apply keeps the tasks that match cfg, in order.
func (e Engine) Apply(ts []tasks.Task, cfg Config, today time.Time) []tasks.Task {
	out := make([]tasks.Task, 0, len(ts))
	for _, t := range ts {
		if e.Matches(t, cfg, today) {
			out = append(out, t)
		}
	}
	return out
}

// WithinDays reports whether day lies in [today, today+days], both compared
// at local midnight.
func WithinDays(day, today time.Time, days int) bool {
	d := midnight(day)
	start := midnight(today)
	end := start.AddDate(0, 0, days)
	return !d.Before(start) && !d.After(end)
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
