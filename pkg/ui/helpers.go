package ui

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"kanban/pkg/filter"
	"kanban/pkg/tasks"
	"kanban/pkg/utils"
)

// loadTasks pulls the visible tasks from the board and rebuilds the rows
func (m *Model) loadTasks() {
	m.items = m.board.Visible()
	labelColors := m.board.Store().Labels()

	rows := make([]table.Row, 0, len(m.items))
	for _, t := range m.items {
		reminder := ""
		if t.RemindAt != nil {
			reminder = t.RemindAt.Format("01-02 15:04")
			if t.Reminded {
				reminder += " ✓"
			}
		}
		rows = append(rows, table.Row{
			statusMark(t.Status),
			t.Title,
			t.DueDate,
			string(t.Priority),
			m.renderLabels(t.Labels, labelColors),
			reminder,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func statusMark(s tasks.Status) string {
	switch s {
	case tasks.StatusDone:
		return "[x]"
	case tasks.StatusInProgress:
		return "[~]"
	}
	return "[ ]"
}

// renderLabels colors each label with its token's palette entry
func (m Model) renderLabels(labels []string, colors map[string]string) string {
	parts := make([]string, 0, len(labels))
	for _, l := range labels {
		style := lipgloss.NewStyle()
		if c, ok := m.styles.LabelColors[colors[l]]; ok {
			style = style.Foreground(lipgloss.Color(c))
		}
		parts = append(parts, style.Render(l))
	}
	return strings.Join(parts, " ")
}

// focusInput focuses form field i and blurs the others
func (m *Model) focusInput(i int) {
	m.activeInput = (i + fieldCount) % fieldCount
	for j := range m.inputs {
		if j == m.activeInput {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *Model) focusNextInput() { m.focusInput(m.activeInput + 1) }
func (m *Model) focusPreviousInput() { m.focusInput(m.activeInput - 1) }

// startEdit fills the form from t
func (m *Model) startEdit(t tasks.Task) {
	m.mode = EditMode
	m.editingItem = &t
	m.resetInputs()
	m.inputs[fieldTitle].SetValue(t.Title)
	m.inputs[fieldDescription].SetValue(t.Description)
	m.inputs[fieldDueDate].SetValue(t.DueDate)
	m.inputs[fieldPriority].SetValue(string(t.Priority))
	m.inputs[fieldLabels].SetValue(strings.Join(t.Labels, ", "))
	m.inputs[fieldReminder].SetValue(string(t.ReminderType))
}

func (m Model) draft() tasks.Draft {
	return tasks.Draft{
		Title:        m.inputs[fieldTitle].Value(),
		Description:  m.inputs[fieldDescription].Value(),
		DueDate:      m.inputs[fieldDueDate].Value(),
		Priority:     tasks.Priority(m.inputs[fieldPriority].Value()),
		Labels:       tasks.SplitLabels(m.inputs[fieldLabels].Value()),
		ReminderType: tasks.ReminderType(m.inputs[fieldReminder].Value()),
	}
}

// submitForm creates or updates a task. A validation error keeps the form
// open with the offending field focused.
func (m *Model) submitForm() {
	var err error
	switch m.mode {
	case AddMode:
		_, _, err = m.board.Create(m.draft())
	case EditMode:
		if m.editingItem != nil {
			_, _, err = m.board.Update(m.editingItem.ID, m.draft())
		}
	}

	var verr *tasks.ValidationError
	if errors.As(err, &verr) {
		m.err = verr
		m.focusInput(fieldFor(verr.Field))
		return
	}
	m.err = err

	m.mode = NormalMode
	m.resetInputs()
	m.editingItem = nil
	m.loadTasks()
}

func fieldFor(name string) int {
	switch name {
	case "description":
		return fieldDescription
	case "dueDate":
		return fieldDueDate
	case "priority":
		return fieldPriority
	case "labels":
		return fieldLabels
	case "reminderType":
		return fieldReminder
	}
	return fieldTitle
}

// moveSelected shifts the selected task one column left or right
func (m *Model) moveSelected(step int) {
	t, ok := m.selected()
	if !ok {
		return
	}
	i := slices.Index(tasks.Statuses, t.Status) + step
	if i < 0 || i >= len(tasks.Statuses) {
		return
	}
	if _, _, err := m.board.Move(t.ID, tasks.Statuses[i]); err != nil {
		m.err = err
		return
	}
	m.loadTasks()
}

// cyclePriority steps the priority filter through all, low, medium, high
func (m *Model) cyclePriority() {
	options := []string{filter.PriorityAll}
	for _, p := range tasks.Priorities {
		options = append(options, string(p))
	}
	cfg := m.board.Filters()
	cfg.Priority = options[(slices.Index(options, cfg.Priority)+1)%len(options)]
	m.board.SetFilters(cfg)
	m.loadTasks()
}

// toggleStatus shows or hides a column, always leaving one visible
func (m *Model) toggleStatus(st tasks.Status) {
	cfg := m.board.Filters().ToggleStatus(st)
	if len(cfg.Status) == 0 {
		return
	}
	m.board.SetFilters(cfg)
	m.loadTasks()
}

func (m *Model) toggleUpcoming() {
	cfg := m.board.Filters()
	if cfg.Date == filter.DateUpcoming {
		cfg.Date = filter.DateAny
	} else {
		cfg.Date = filter.DateUpcoming
	}
	m.board.SetFilters(cfg)
	m.loadTasks()
}

// startPrompt opens the single-line prompt
func (m *Model) startPrompt(kind promptKind) {
	m.mode = PromptMode
	m.prompt = kind
	m.promptInput.Reset()
	m.promptInput.Placeholder = m.promptHint()
	m.promptInput.Focus()
}

func (m Model) promptTitle() string {
	switch m.prompt {
	case promptFilterLabel:
		return " Filter by Label "
	case promptDeleteLabel:
		return " Delete Label "
	case promptSaveView:
		return " Save View "
	case promptApplyView:
		return " Apply View "
	}
	return " Delete View "
}

// promptHint lists what can be entered
func (m Model) promptHint() string {
	var options []string
	switch m.prompt {
	case promptFilterLabel, promptDeleteLabel:
		options = m.board.Store().LabelNames()
	case promptApplyView, promptDeleteView:
		options = m.board.SavedViews()
	case promptSaveView:
		return "View name"
	}
	if len(options) == 0 {
		return "(none)"
	}
	return strings.Join(options, ", ")
}

// submitPrompt runs the prompt's action
func (m *Model) submitPrompt() {
	value := strings.TrimSpace(m.promptInput.Value())
	m.mode = NormalMode
	m.promptInput.Blur()
	if value == "" {
		return
	}

	switch m.prompt {
	case promptFilterLabel:
		m.board.SetFilters(m.board.Filters().ToggleLabel(value))
	case promptDeleteLabel:
		m.board.DeleteLabel(value)
	case promptSaveView:
		m.board.SaveView(value)
	case promptApplyView:
		if !m.board.ApplyView(value) {
			utils.Log("No saved view named %q", value)
		}
		m.searchInput.SetValue(m.board.Search())
		m.applyTableStyles()
	case promptDeleteView:
		m.board.DeleteView(value)
	}
	m.loadTasks()
}

// filterSummary describes the active view, filters, search and sort
func (m Model) filterSummary() string {
	cfg := m.board.Filters()
	parts := []string{fmt.Sprintf("view: %s", m.board.View())}

	if len(cfg.Status) < len(tasks.Statuses) {
		names := make([]string, len(cfg.Status))
		for i, st := range cfg.Status {
			names[i] = string(st)
		}
		parts = append(parts, "status: "+strings.Join(names, ","))
	}
	if cfg.Date == filter.DateUpcoming {
		parts = append(parts, "upcoming")
	}
	if cfg.Priority != filter.PriorityAll {
		parts = append(parts, "priority: "+cfg.Priority)
	}
	if len(cfg.Labels) > 0 {
		parts = append(parts, fmt.Sprintf("labels (%s): %s", m.board.Engine().LabelMode, strings.Join(cfg.Labels, ",")))
	}
	if s := m.board.Search(); s != "" {
		parts = append(parts, fmt.Sprintf("search: %q", s))
	}
	if by := m.board.Sort(); by != filter.SortNone {
		parts = append(parts, "sort: "+string(by))
	}
	return fmt.Sprintf("%d task(s) | %s", len(m.items), strings.Join(parts, " | "))
}
