package filter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/pkg/tasks"
)

var today = time.Date(2024, 6, 1, 15, 30, 0, 0, time.Local)

func task(status tasks.Status, prio tasks.Priority, due string, labels ...string) tasks.Task {
	return tasks.Task{Title: "t", Status: status, Priority: prio, DueDate: due, Labels: labels}
}

func TestMatches_Status(t *testing.T) {
	e := NewEngine(MatchAll, 7)
	cfg := DefaultConfig()
	cfg.Status = []tasks.Status{tasks.StatusTodo}

	assert.True(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityLow, ""), cfg, today))
	assert.False(t, e.Matches(task(tasks.StatusDone, tasks.PriorityLow, ""), cfg, today))

	cfg.Status = nil
	assert.False(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityLow, ""), cfg, today))
}

func TestMatches_UpcomingWindowIsInclusive(t *testing.T) {
	e := NewEngine(MatchAll, 7)
	cfg := DefaultConfig()
	cfg.Date = DateUpcoming

	cases := map[string]bool{
		"2024-06-01": true,
		"2024-06-08": true,
		"2024-06-09": false,
		"2024-05-31": false,
		"":           false,
	}
	for due, want := range cases {
		assert.Equal(t, want, e.Matches(task(tasks.StatusTodo, tasks.PriorityMedium, due), cfg, today), due)
	}
}

func TestMatches_NoDateWindowIgnoresDue(t *testing.T) {
	e := NewEngine(MatchAll, 7)
	assert.True(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityMedium, "2030-01-01"), DefaultConfig(), today))
	assert.True(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityMedium, ""), DefaultConfig(), today))
}

func TestMatches_Priority(t *testing.T) {
	e := NewEngine(MatchAll, 7)
	cfg := DefaultConfig()
	assert.True(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityHigh, ""), cfg, today))

	cfg.Priority = "high"
	assert.True(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityHigh, ""), cfg, today))
	assert.False(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityLow, ""), cfg, today))
}

func TestMatches_LabelIntersection(t *testing.T) {
	e := NewEngine(MatchAll, 7)
	tk := task(tasks.StatusTodo, tasks.PriorityMedium, "", "A", "B")

	cfg := DefaultConfig()
	cfg.Labels = []string{"A", "C"}
	assert.False(t, e.Matches(tk, cfg, today))

	cfg.Labels = []string{"A"}
	assert.True(t, e.Matches(tk, cfg, today))

	cfg.Labels = []string{"B", "A"}
	assert.True(t, e.Matches(tk, cfg, today))

	cfg.Labels = []string{}
	assert.True(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityMedium, ""), cfg, today))
}

func TestMatches_LabelUnion(t *testing.T) {
	e := NewEngine(MatchAny, 7)
	tk := task(tasks.StatusTodo, tasks.PriorityMedium, "", "A", "B")

	cfg := DefaultConfig()
	cfg.Labels = []string{"A", "C"}
	assert.True(t, e.Matches(tk, cfg, today))

	cfg.Labels = []string{"C"}
	assert.False(t, e.Matches(tk, cfg, today))
}

func TestMatches_AllPredicatesMustHold(t *testing.T) {
	e := NewEngine(MatchAll, 7)
	cfg := Config{
		Status:   []tasks.Status{tasks.StatusInProgress},
		Date:     DateUpcoming,
		Priority: "low",
		Labels:   []string{"home"},
	}

	assert.True(t, e.Matches(task(tasks.StatusInProgress, tasks.PriorityLow, "2024-06-03", "home"), cfg, today))
	assert.False(t, e.Matches(task(tasks.StatusInProgress, tasks.PriorityLow, "2024-06-03"), cfg, today))
	assert.False(t, e.Matches(task(tasks.StatusInProgress, tasks.PriorityHigh, "2024-06-03", "home"), cfg, today))
	assert.False(t, e.Matches(task(tasks.StatusTodo, tasks.PriorityLow, "2024-06-03", "home"), cfg, today))
}

func TestParseLabelMode(t *testing.T) {
	assert.Equal(t, MatchAny, ParseLabelMode("ANY"))
	assert.Equal(t, MatchAll, ParseLabelMode("all"))
	assert.Equal(t, MatchAll, ParseLabelMode(""))
	assert.Equal(t, "any", MatchAny.String())
}

func TestConfig_JSONShape(t *testing.T) {
	b, err := json.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":["todo","in-progress","done"],"date":null,"priority":"all","labels":[]}`, string(b))

	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{"status":["done"],"date":"upcoming","priority":"high","labels":["x"]}`), &cfg))
	assert.Equal(t, DateUpcoming, cfg.Date)
	assert.Equal(t, []tasks.Status{tasks.StatusDone}, cfg.Status)
}

func TestConfig_Toggles(t *testing.T) {
	cfg := DefaultConfig()
	off := cfg.ToggleStatus(tasks.StatusDone)
	assert.Equal(t, []tasks.Status{tasks.StatusTodo, tasks.StatusInProgress}, off.Status)
	assert.Len(t, cfg.Status, 3, "toggle must not alias the original")

	on := off.ToggleLabel("x").ToggleLabel("y").ToggleLabel("x")
	assert.Equal(t, []string{"y"}, on.Labels)
	assert.Equal(t, []string{}, on.WithoutLabels([]string{"y"}).Labels)
}

func TestSearch(t *testing.T) {
	ts := []tasks.Task{
		{Title: "Buy Milk", Description: ""},
		{Title: "call bob", Description: "about the MILK order"},
		{Title: "other"},
	}
	assert.Len(t, Search(ts, "milk"), 2)
	assert.Len(t, Search(ts, "  "), 3)
	assert.Empty(t, Search(ts, "zebra"))
}

func TestWithinDays(t *testing.T) {
	late := time.Date(2024, 6, 8, 23, 59, 0, 0, time.Local)
	assert.True(t, WithinDays(late, today, 7))
	assert.False(t, WithinDays(late.Add(time.Minute), today, 7))
}
