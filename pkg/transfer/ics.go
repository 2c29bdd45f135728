package transfer

import (
	"fmt"
	"strings"
	"time"

	"kanban/pkg/tasks"
)

const (
	icsDateLayout  = "20060102"
	icsStampLayout = "20060102T150405Z"
)

// EncodeICS builds one calendar with an all-day event per task that has a
// due date. Tasks with a reminder get a display alarm at remindAt.
func EncodeICS(ts []tasks.Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Kanban//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	for _, t := range ts {
		due, ok := t.Due()
		if !ok {
			continue
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(fmt.Sprintf("%s@kanban", t.ID)),
			"DTSTAMP:"+now.UTC().Format(icsStampLayout),
			"SUMMARY:"+escapeICSText(t.Title),
			"DTSTART;VALUE=DATE:"+due.Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+due.AddDate(0, 0, 1).Format(icsDateLayout),
		)
		if desc := strings.TrimSpace(t.Description); desc != "" {
			lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
		}
		if len(t.Labels) > 0 {
			escaped := make([]string, len(t.Labels))
			for i, l := range t.Labels {
				escaped[i] = escapeICSText(l)
			}
			lines = append(lines, "CATEGORIES:"+strings.Join(escaped, ","))
		}
		if t.RemindAt != nil {
			lines = append(lines,
				"BEGIN:VALARM",
				"ACTION:DISPLAY",
				"DESCRIPTION:"+escapeICSText(t.Title),
				"TRIGGER;VALUE=DATE-TIME:"+t.RemindAt.UTC().Format(icsStampLayout),
				"END:VALARM",
			)
		}
		lines = append(lines, "END:VEVENT")
	}
	lines = append(lines, "END:VCALENDAR", "")
	return strings.Join(lines, "\r\n")
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
