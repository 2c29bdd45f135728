package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"kanban/pkg/filter"
	"kanban/pkg/tasks"
	"kanban/pkg/utils"
	"kanban/pkg/views"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case BannerMsg:
		m.banner = ""
		if msg.Visible {
			m.banner = msg.Text
		}
		m.loadTasks()
		return m, nil

	case AlertMsg:
		m.alert = msg.Text
		m.mode = AlertMode
		return m, nil

	case RefreshMsg:
		m.loadTasks()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case NormalMode:
			switch {
			case key.Matches(msg, m.keyMap.ShowHelp):
				m.mode = HelpViewMode

			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit

			case key.Matches(msg, m.keyMap.CloseBanner):
				if m.banner != "" {
					m.board.Banner().Dismiss()
					m.banner = ""
				}
				m.err = nil

			case key.Matches(msg, m.keyMap.AddTask):
				m.mode = AddMode
				m.err = nil
				m.resetInputs()

			case key.Matches(msg, m.keyMap.EditTask):
				if t, ok := m.selected(); ok {
					m.err = nil
					m.startEdit(t)
				}

			case key.Matches(msg, m.keyMap.DeleteTask):
				if t, ok := m.selected(); ok {
					m.mode = DeleteConfirmMode
					m.editingItem = &t
				}

			case key.Matches(msg, m.keyMap.MoveLeft):
				m.moveSelected(-1)

			case key.Matches(msg, m.keyMap.MoveRight):
				m.moveSelected(1)

			case key.Matches(msg, m.keyMap.SearchTasks):
				m.mode = SearchMode
				m.searchInput.SetValue(m.board.Search())
				m.searchInput.Focus()
				return m, nil

			case key.Matches(msg, m.keyMap.CycleView):
				m.board.SetView(views.NextView(m.board.View()))
				m.loadTasks()

			case key.Matches(msg, m.keyMap.ToggleTodo):
				m.toggleStatus(tasks.StatusTodo)

			case key.Matches(msg, m.keyMap.ToggleInProgress):
				m.toggleStatus(tasks.StatusInProgress)

			case key.Matches(msg, m.keyMap.ToggleDone):
				m.toggleStatus(tasks.StatusDone)

			case key.Matches(msg, m.keyMap.ToggleUpcoming):
				m.toggleUpcoming()

			case key.Matches(msg, m.keyMap.CyclePriority):
				m.cyclePriority()

			case key.Matches(msg, m.keyMap.FilterLabel):
				m.startPrompt(promptFilterLabel)
				return m, nil

			case key.Matches(msg, m.keyMap.DeleteLabel):
				m.startPrompt(promptDeleteLabel)
				return m, nil

			case key.Matches(msg, m.keyMap.ClearFilters):
				m.board.SetFilters(filter.DefaultConfig())
				m.board.SetSearch("")
				m.loadTasks()

			case key.Matches(msg, m.keyMap.ToggleSortBy):
				m.board.SetSort(m.board.Sort().Next())
				m.loadTasks()

			case key.Matches(msg, m.keyMap.SaveView):
				m.startPrompt(promptSaveView)
				return m, nil

			case key.Matches(msg, m.keyMap.ApplyView):
				m.startPrompt(promptApplyView)
				return m, nil

			case key.Matches(msg, m.keyMap.DeleteView):
				m.startPrompt(promptDeleteView)
				return m, nil

			case key.Matches(msg, m.keyMap.ToggleTheme):
				theme := m.board.ToggleTheme()
				utils.Log("Theme switched to %s", theme)
				m.applyTableStyles()

			case key.Matches(msg, m.keyMap.ShowStats):
				m.mode = StatsMode
			}

		case AddMode, EditMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.resetInputs()
				m.editingItem = nil
				m.err = nil
				return m, nil

			case "tab", "down":
				m.focusNextInput()
				return m, nil

			case "shift+tab", "up":
				m.focusPreviousInput()
				return m, nil

			case "enter":
				if m.activeInput == fieldCount-1 { // Submit on enter from the last field
					m.submitForm()
				} else {
					m.focusNextInput()
				}
				return m, nil
			}

			m.inputs[m.activeInput], cmd = m.inputs[m.activeInput].Update(msg)
			cmds = append(cmds, cmd)

		case SearchMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.board.SetSearch("")
				m.searchInput.Blur()
				m.loadTasks()
				return m, nil

			case "enter":
				m.board.SetSearch(m.searchInput.Value())
				utils.Log("Searching for: %s", m.searchInput.Value())
				m.mode = NormalMode
				m.searchInput.Blur()
				m.loadTasks()
				return m, nil
			}

			m.searchInput, cmd = m.searchInput.Update(msg)
			cmds = append(cmds, cmd)

		case PromptMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.promptInput.Blur()
				return m, nil

			case "enter":
				m.submitPrompt()
				return m, nil
			}

			m.promptInput, cmd = m.promptInput.Update(msg)
			cmds = append(cmds, cmd)

		case DeleteConfirmMode:
			switch msg.String() {
			case "y", "Y":
				if m.editingItem != nil {
					utils.Log("Deleting task ID: %s", m.editingItem.ID)
					m.board.Delete(m.editingItem.ID)
					m.loadTasks()
				}
				m.mode = NormalMode
				m.editingItem = nil

			case "n", "N", "esc":
				m.mode = NormalMode
				m.editingItem = nil
			}
			return m, nil

		case HelpViewMode, StatsMode, AlertMode:
			switch {
			case msg.String() == "esc", msg.String() == "enter",
				key.Matches(msg, m.keyMap.ShowHelp) && m.mode == HelpViewMode,
				key.Matches(msg, m.keyMap.ShowStats) && m.mode == StatsMode:
				m.mode = NormalMode
				m.alert = ""
			case key.Matches(msg, m.keyMap.QuitApp) && m.mode != AlertMode:
				return m, tea.Quit
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(msg.Height - 8)
	}

	// Only update table in normal mode
	if m.mode == NormalMode {
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

