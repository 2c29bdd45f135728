package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/pkg/board"
	"kanban/pkg/config"
	"kanban/pkg/database"
	"kanban/pkg/filter"
	"kanban/pkg/tasks"
	"kanban/pkg/utils"
	"kanban/pkg/views"
)

func newTestModel(t *testing.T) (Model, *board.Board) {
	t.Helper()
	b := board.New(database.NewMemoryStore(), board.Options{
		Clock: utils.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local)),
	})
	b.Load()
	return NewModel(b, config.Config{}, config.DefaultStyles()), b
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_AddTaskThroughForm(t *testing.T) {
	m, b := newTestModel(t)

	m = press(m, "a", "Pay rent", "tab", "monthly", "tab", "2024-06-10", "tab", "tab", "home, bills")
	m = press(m, "tab")
	m.inputs[fieldReminder].SetValue(string(tasks.ReminderOneDayBefore18))
	m = press(m, "enter")

	require.NoError(t, m.err)
	assert.Equal(t, NormalMode, m.mode)
	require.Len(t, m.items, 1)
	got := m.items[0]
	assert.Equal(t, "Pay rent", got.Title)
	assert.Equal(t, "monthly", got.Description)
	assert.Equal(t, []string{"home", "bills"}, got.Labels)
	require.NotNil(t, got.RemindAt)
	assert.Len(t, b.Scheduler().Active(), 1)
}

func TestModel_ValidationKeepsFormOpen(t *testing.T) {
	m, b := newTestModel(t)

	m = press(m, "a")
	m.focusInput(fieldReminder)
	m = press(m, "enter")

	assert.Equal(t, AddMode, m.mode)
	var verr *tasks.ValidationError
	require.ErrorAs(t, m.err, &verr)
	assert.Equal(t, fieldTitle, m.activeInput)
	assert.Empty(t, b.Store().Tasks())
}

func TestModel_MoveAndDelete(t *testing.T) {
	m, b := newTestModel(t)
	_, _, err := b.Create(tasks.Draft{Title: "a"})
	require.NoError(t, err)
	m = press(m, "esc")
	m.loadTasks()

	m = press(m, ">")
	assert.Equal(t, tasks.StatusInProgress, b.Store().Tasks()[0].Status)
	m = press(m, ">", ">")
	assert.Equal(t, tasks.StatusDone, b.Store().Tasks()[0].Status)
	m = press(m, "<")
	assert.Equal(t, tasks.StatusInProgress, b.Store().Tasks()[0].Status)

	m = press(m, "d", "n")
	assert.Len(t, b.Store().Tasks(), 1)
	m = press(m, "d", "y")
	assert.Empty(t, b.Store().Tasks())
	assert.Empty(t, m.items)
}

func TestModel_FilterKeys(t *testing.T) {
	m, b := newTestModel(t)

	m = press(m, "1")
	assert.NotContains(t, b.Filters().Status, tasks.StatusTodo)
	m = press(m, "2", "3")
	assert.Equal(t, []tasks.Status{tasks.StatusDone}, b.Filters().Status, "the last column stays visible")

	m = press(m, "u", "p", "s")
	assert.Equal(t, filter.DateUpcoming, b.Filters().Date)
	assert.Equal(t, string(tasks.PriorityLow), b.Filters().Priority)
	assert.Equal(t, filter.SortDueAsc, b.Sort())

	m = press(m, "c")
	assert.Equal(t, filter.DefaultConfig(), b.Filters())

	press(m, "tab")
	assert.Equal(t, views.ViewTodo, b.View())
}

func TestModel_SaveAndApplyViewPrompts(t *testing.T) {
	m, b := newTestModel(t)

	m = press(m, "/", "report", "enter")
	assert.Equal(t, "report", b.Search())

	m = press(m, "w", "focus", "enter")
	assert.Equal(t, []string{"focus"}, b.SavedViews())

	m = press(m, "c")
	assert.Empty(t, b.Search())

	m = press(m, "v", "focus", "enter")
	assert.Equal(t, "report", b.Search())

	m = press(m, "x", "focus", "enter")
	assert.Empty(t, b.SavedViews())
	assert.Equal(t, NormalMode, m.mode)
}

func TestModel_BannerAndAlert(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(BannerMsg{Text: "a is due soon", Visible: true})
	m = next.(Model)
	assert.Contains(t, m.View(), "a is due soon")

	next, _ = m.Update(BannerMsg{})
	m = next.(Model)
	assert.NotContains(t, m.View(), "a is due soon")

	next, _ = m.Update(AlertMsg{Text: "You missed 1 reminder(s):"})
	m = next.(Model)
	assert.Equal(t, AlertMode, m.mode)
	assert.Contains(t, m.View(), "You missed 1 reminder(s):")

	m = press(m, "enter")
	assert.Equal(t, NormalMode, m.mode)
}

func TestModel_ToggleTheme(t *testing.T) {
	m, b := newTestModel(t)
	m = press(m, "t")
	assert.Equal(t, board.ThemeDark, b.Theme())
	assert.Equal(t, config.DefaultStyles().Dark, m.palette())
}
