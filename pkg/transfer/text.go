package transfer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"kanban/pkg/filter"
	"kanban/pkg/tasks"
)

const textDateLayout = "02.01.2006"

// noDueHeading groups tasks without a due date in text exports.
const noDueHeading = "No due date:"

var (
	dateRegex  = regexp.MustCompile(`^(?:(\d{2})\.(\d{2})\.(\d{4})|(\d{4})-(\d{2})-(\d{2})):?$`)
	labelRegex = regexp.MustCompile(`(?:^|\s)[+@](\S+)`)
)

func statusMark(s tasks.Status) string {
	switch s {
	case tasks.StatusDone:
		return "x"
	case tasks.StatusInProgress:
		return "~"
	}
	return " "
}

// EncodeText renders tasks as a checklist grouped by due date, earliest
// first, with undated tasks at the end.
func EncodeText(ts []tasks.Task) string {
	var lines []string
	lastHeading := ""
	for _, t := range filter.SortTasks(ts, filter.SortDueAsc) {
		heading := noDueHeading
		if due, ok := t.Due(); ok {
			heading = due.Format(textDateLayout) + ":"
		}
		if heading != lastHeading {
			lines = append(lines, "", heading)
			lastHeading = heading
		}

		line := fmt.Sprintf("- [%s] %s", statusMark(t.Status), t.Title)
		for _, l := range t.Labels {
			if !strings.ContainsAny(l, " \t") {
				line += " +" + l
			}
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}

// DecodeText parses a checklist in the EncodeText layout. Date headings in
// DD.MM.YYYY or YYYY-MM-DD form apply to the tasks below them; +word and
// @word tags become labels.
func DecodeText(content string) []tasks.Task {
	var out []tasks.Task
	currentDate := ""
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == noDueHeading {
			currentDate = ""
			continue
		}
		if m := dateRegex.FindStringSubmatch(line); m != nil {
			var day, month, year int
			if m[1] != "" {
				day, _ = strconv.Atoi(m[1])
				month, _ = strconv.Atoi(m[2])
				year, _ = strconv.Atoi(m[3])
			} else {
				year, _ = strconv.Atoi(m[4])
				month, _ = strconv.Atoi(m[5])
				day, _ = strconv.Atoi(m[6])
			}
			currentDate = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local).Format(tasks.DateLayout)
			continue
		}
		if !strings.HasPrefix(line, "- ") {
			continue
		}

		text := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		status := tasks.StatusTodo
		switch {
		case strings.HasPrefix(text, "[x]"):
			status = tasks.StatusDone
		case strings.HasPrefix(text, "[~]"):
			status = tasks.StatusInProgress
		}
		if len(text) >= 3 && text[0] == '[' && text[2] == ']' {
			text = strings.TrimSpace(text[3:])
		}

		var labels []string
		for _, m := range labelRegex.FindAllStringSubmatch(text, -1) {
			labels = append(labels, m[1])
		}
		title := strings.Join(strings.Fields(labelRegex.ReplaceAllString(text, "")), " ")
		if title == "" {
			continue
		}

		out = append(out, tasks.Task{
			Title:    title,
			DueDate:  currentDate,
			Priority: tasks.PriorityMedium,
			Status:   status,
			Labels:   labels,
		})
	}
	return out
}
