package ui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kanban/pkg/board"
	"kanban/pkg/config"
	"kanban/pkg/keymaps"
	"kanban/pkg/tasks"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode
	EditMode
	DeleteConfirmMode
	SearchMode   // Mode for searching tasks
	HelpViewMode // Mode for displaying help
	PromptMode   // Single-line prompt for labels and saved views
	StatsMode
	AlertMode // Missed reminder summary
)

// promptKind says what the prompt input is for.
type promptKind int

const (
	promptFilterLabel promptKind = iota
	promptDeleteLabel
	promptSaveView
	promptApplyView
	promptDeleteView
)

// Form fields, in tab order.
const (
	fieldTitle = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldLabels
	fieldReminder
	fieldCount
)

// BannerMsg mirrors the reminder banner into the model.
type BannerMsg struct {
	Text    string
	Visible bool
}

// AlertMsg shows a message that stays until dismissed.
type AlertMsg struct {
	Text string
}

// RefreshMsg asks the model to re-pull the visible tasks, e.g. after a
// reminder fired in the background.
type RefreshMsg struct{}

// Model represents the application state
type Model struct {
	table         table.Model
	items         []tasks.Task
	board         *board.Board
	width, height int
	err           error

	// Configuration
	config config.Config
	styles config.Styles
	keyMap keymaps.KeyMap

	// Form state
	mode        InputMode
	inputs      []textinput.Model
	activeInput int
	searchInput textinput.Model
	promptInput textinput.Model
	prompt      promptKind

	// Edit/delete state
	editingItem *tasks.Task

	banner string
	alert  string
}

var columns = []table.Column{
	{Title: "", Width: 5},
	{Title: "Title", Width: 36},
	{Title: "Due", Width: 10},
	{Title: "Priority", Width: 8},
	{Title: "Labels", Width: 24},
	{Title: "Reminder", Width: 17},
}

// NewModel creates a new UI model over a loaded board
func NewModel(b *board.Board, cfg config.Config, styles config.Styles) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	inputs := make([]textinput.Model, fieldCount)
	placeholders := []string{
		"Title",
		"Description",
		"Due date (YYYY-MM-DD, optional)",
		"low, medium or high",
		"Labels, comma separated",
		"none, same-day-09, same-day-18 or one-day-before-18",
	}
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].Width = 50
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search title and description"
	searchInput.Width = 40

	promptInput := textinput.New()
	promptInput.Width = 40

	m := Model{
		table:       t,
		board:       b,
		config:      cfg,
		styles:      styles,
		keyMap:      keymaps.BuildKeyMap(cfg.KeyMap),
		mode:        NormalMode,
		inputs:      inputs,
		searchInput: searchInput,
		promptInput: promptInput,
	}
	m.applyTableStyles()
	m.loadTasks()
	return m
}

// Init initializes the model (required by Bubble Tea Model interface)
func (m Model) Init() tea.Cmd {
	return nil
}

// palette returns the colors of the active theme.
func (m Model) palette() config.Palette {
	if m.board.Theme() == board.ThemeDark {
		return m.styles.Dark
	}
	return m.styles.Light
}

func (m *Model) applyTableStyles() {
	p := m.palette()
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(p.BorderColor)).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(lipgloss.Color(p.NormalTextColor))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(p.SelectedTextColor)).
		Background(lipgloss.Color(p.SelectedBgColor)).
		Bold(true)
	m.table.SetStyles(s)
}

// resetInputs clears all form inputs
func (m *Model) resetInputs() {
	for i := range m.inputs {
		m.inputs[i].Reset()
		m.inputs[i].Blur()
	}
	m.inputs[fieldPriority].SetValue(string(tasks.PriorityMedium))
	m.inputs[fieldReminder].SetValue(string(tasks.ReminderNone))
	m.activeInput = fieldTitle
	m.inputs[fieldTitle].Focus()
}

// selected returns the task under the cursor.
func (m Model) selected() (tasks.Task, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.items) {
		return tasks.Task{}, false
	}
	return m.items[i], true
}
