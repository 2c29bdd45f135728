package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// header renders a title bar in the given background color
func (m Model) header(text, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.palette().SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(text)
}

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder
	p := m.palette()

	if m.banner != "" {
		sb.WriteString(lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.BannerTextColor)).
			Background(lipgloss.Color(p.BannerBgColor)).
			Padding(0, 1).
			Render("⏰ " + m.banner))
		sb.WriteString("\n\n")
	}

	switch m.mode {
	case NormalMode:
		sb.WriteString(m.header(" Kanban ", p.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(p.MutedTextColor)).Render(m.filterSummary()))
		sb.WriteString("\n")

	case AddMode:
		sb.WriteString(m.header(" Add New Task ", p.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case EditMode:
		sb.WriteString(m.header(" Edit Task ", p.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case DeleteConfirmMode:
		sb.WriteString(m.header(" Delete Task ", p.ErrorColor))
		sb.WriteString("\n\n")
		if m.editingItem != nil {
			sb.WriteString("Are you sure you want to delete this task?\n\n")
			sb.WriteString(fmt.Sprintf("Title: %s\n", m.editingItem.Title))
			sb.WriteString(fmt.Sprintf("Description: %s\n", m.editingItem.Description))
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))
		}

	case SearchMode:
		sb.WriteString(m.header(" Search Tasks ", p.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString("Enter search term to find tasks:")
		sb.WriteString("\n\n")
		sb.WriteString(m.searchInput.View())

	case PromptMode:
		sb.WriteString(m.header(m.promptTitle(), p.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.promptInput.View())

	case StatsMode:
		sb.WriteString(m.header(" Statistics ", p.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderStats())

	case AlertMode:
		sb.WriteString(m.header(" Reminders ", p.ErrorColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.alert)
		sb.WriteString("\n")

	case HelpViewMode:
		sb.WriteString(m.renderHelp())
	}

	// Error message if any
	if m.err != nil {
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(p.ErrorColor)).
			Render(fmt.Sprintf("\n\nError: %v", m.err)))
	}

	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

// renderHelp lists every binding
func (m Model) renderHelp() string {
	var sb strings.Builder
	p := m.palette()

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.AccentColor)).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.NormalTextColor))

	addCommand := func(binding key.Binding) {
		sb.WriteString(fmt.Sprintf("%s: %s\n", descStyle.Render(binding.Help().Desc), keyStyle.Render(binding.Help().Key)))
	}
	section := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
		sb.WriteString("\n\n")
	}

	sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
	sb.WriteString("\n\n")
	addCommand(m.keyMap.QuitApp)
	addCommand(m.keyMap.ShowHelp)
	addCommand(m.keyMap.AddTask)
	addCommand(m.keyMap.EditTask)
	addCommand(m.keyMap.DeleteTask)
	addCommand(m.keyMap.MoveLeft)
	addCommand(m.keyMap.MoveRight)
	addCommand(m.keyMap.DeleteLabel)
	addCommand(m.keyMap.ShowStats)
	addCommand(m.keyMap.ToggleTheme)
	addCommand(m.keyMap.CloseBanner)

	section("Filters")
	addCommand(m.keyMap.SearchTasks)
	addCommand(m.keyMap.ToggleTodo)
	addCommand(m.keyMap.ToggleInProgress)
	addCommand(m.keyMap.ToggleDone)
	addCommand(m.keyMap.ToggleUpcoming)
	addCommand(m.keyMap.CyclePriority)
	addCommand(m.keyMap.FilterLabel)
	addCommand(m.keyMap.ClearFilters)
	addCommand(m.keyMap.ToggleSortBy)

	section("Views")
	addCommand(m.keyMap.CycleView)
	addCommand(m.keyMap.SaveView)
	addCommand(m.keyMap.ApplyView)
	addCommand(m.keyMap.DeleteView)

	return sb.String()
}

// renderStats shows the board statistics
func (m Model) renderStats() string {
	var sb strings.Builder
	s := m.board.Stats()

	sb.WriteString(fmt.Sprintf("Tasks: %d (%d done)\n", s.Total, s.Completed))
	sb.WriteString(fmt.Sprintf("Completion rate: %.0f%%\n", s.Rate*100))
	if s.AvgCompletion > 0 {
		sb.WriteString(fmt.Sprintf("Average completion time: %s\n", s.AvgCompletion.Round(time.Minute)))
	}
	if len(s.Labels) > 0 {
		sb.WriteString("\nLabels:\n")
		for _, lc := range s.Labels {
			sb.WriteString(fmt.Sprintf("  %-20s %d\n", lc.Label, lc.Count))
		}
	}
	if len(s.DueSoon) > 0 {
		sb.WriteString("\nDue soon:\n")
		for _, t := range s.DueSoon {
			sb.WriteString(fmt.Sprintf("  %s  %s\n", t.DueDate, t.Title))
		}
	}
	return sb.String()
}

// helpBar renders a sleek status bar with available actions
func (m Model) helpBar() string {
	var actions []string
	p := m.palette()

	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.AccentColor)).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(p.NormalTextColor))
	separator := lipgloss.NewStyle().Foreground(lipgloss.Color(p.BorderColor)).Render(" • ")

	addAction := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}
	addBinding := func(b key.Binding, desc string) {
		addAction(b.Help().Key, desc)
	}

	switch m.mode {
	case NormalMode:
		addBinding(m.keyMap.AddTask, "add")
		addBinding(m.keyMap.EditTask, "edit")
		addBinding(m.keyMap.DeleteTask, "del")
		addAction(m.keyMap.MoveLeft.Help().Key+"/"+m.keyMap.MoveRight.Help().Key, "move")
		addBinding(m.keyMap.CycleView, "view")
		addBinding(m.keyMap.SearchTasks, "search")
		addBinding(m.keyMap.ToggleSortBy, "sort")
		addBinding(m.keyMap.ShowHelp, "help")
		addBinding(m.keyMap.QuitApp, "quit")

	case AddMode, EditMode:
		addAction("tab", "next field")
		addAction("enter", "save")
		addAction("esc", "cancel")

	case DeleteConfirmMode:
		addAction("y", "confirm")
		addAction("n", "cancel")

	case SearchMode, PromptMode:
		addAction("enter", "ok")
		addAction("esc", "cancel")

	case HelpViewMode, StatsMode, AlertMode:
		addAction("esc", "back")
	}

	return strings.Join(actions, separator)
}

// renderForm renders the input form for adding/editing tasks
func (m Model) renderForm() string {
	var sb strings.Builder
	labels := []string{"Title", "Description", "Due Date (YYYY-MM-DD)", "Priority", "Labels", "Reminder"}
	for i, in := range m.inputs {
		sb.WriteString(labels[i] + ":\n")
		sb.WriteString(in.View())
		if i < len(m.inputs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
