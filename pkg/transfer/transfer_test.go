package transfer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"kanban/pkg/tasks"
)

var stamp = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func sampleTasks() []tasks.Task {
	remind := time.Date(2024, 6, 9, 18, 0, 0, 0, time.Local)
	return []tasks.Task{
		{ID: "task-1", Title: "Pay rent", DueDate: "2024-06-10", Priority: tasks.PriorityHigh, Status: tasks.StatusTodo,
			Labels: []string{"home"}, ReminderType: tasks.ReminderOneDayBefore18, RemindAt: &remind},
		{ID: "task-2", Title: "Write report", Description: "Q2, final; v2", DueDate: "2024-06-05", Priority: tasks.PriorityMedium, Status: tasks.StatusDone,
			Labels: []string{"work"}},
		{ID: "task-3", Title: "Someday", Priority: tasks.PriorityLow, Status: tasks.StatusInProgress},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "": FormatJSON, ".yml": FormatYAML, "TXT": FormatText, "ics": FormatICS} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestEncodeJSON_Shape(t *testing.T) {
	var buf bytes.Buffer
	doc := NewDocument(sampleTasks(), map[string]string{"home": "tag-1", "work": "tag-2"})
	require.NoError(t, Encode(&buf, FormatJSON, doc, stamp))

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "tasks")
	assert.Contains(t, raw, "labels")
	assert.JSONEq(t, `"1.0"`, string(raw["version"]))
}

func TestDecode_ExportIsImportable(t *testing.T) {
	var buf bytes.Buffer
	doc := NewDocument(sampleTasks(), map[string]string{"home": "tag-1", "work": "tag-2"})
	require.NoError(t, Encode(&buf, FormatJSON, doc, stamp))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 3)
	assert.Equal(t, "Pay rent", got.Tasks[0].Title)
	assert.True(t, got.Tasks[0].RemindAt.Equal(*sampleTasks()[0].RemindAt))
	assert.Equal(t, doc.Labels, got.Labels)
}

func TestDecode_RejectsOtherShapes(t *testing.T) {
	for name, input := range map[string]string{
		"not json":       "hello",
		"array":          `[{"title":"x"}]`,
		"missing labels": `{"tasks":[]}`,
		"missing tasks":  `{"labels":{}}`,
		"tasks not list": `{"tasks":{},"labels":{}}`,
	} {
		_, err := Decode(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrInvalidFormat, name)
	}
}

func TestDecode_IgnoresVersion(t *testing.T) {
	got, err := Decode(strings.NewReader(`{"tasks":[],"labels":{},"version":"9.9"}`))
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
	assert.Equal(t, Version, got.Version)
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatYAML, NewDocument(sampleTasks(), nil), stamp))

	var back struct {
		Tasks []struct {
			Title  string   `yaml:"title"`
			Labels []string `yaml:"labels"`
		} `yaml:"tasks"`
		Version string `yaml:"version"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	require.Len(t, back.Tasks, 3)
	assert.Equal(t, "Pay rent", back.Tasks[0].Title)
	assert.Equal(t, []string{"home"}, back.Tasks[0].Labels)
	assert.Equal(t, "1.0", back.Version)
}

func TestEncodeText_GroupsByDueDate(t *testing.T) {
	want := strings.Join([]string{
		"05.06.2024:",
		"- [x] Write report +work",
		"",
		"10.06.2024:",
		"- [ ] Pay rent +home",
		"",
		"No due date:",
		"- [~] Someday",
		"",
	}, "\n")
	assert.Equal(t, want, EncodeText(sampleTasks()))
}

func TestDecodeText(t *testing.T) {
	got := DecodeText(EncodeText(sampleTasks()))
	require.Len(t, got, 3)

	assert.Equal(t, "Write report", got[0].Title)
	assert.Equal(t, "2024-06-05", got[0].DueDate)
	assert.Equal(t, tasks.StatusDone, got[0].Status)
	assert.Equal(t, []string{"work"}, got[0].Labels)

	assert.Equal(t, "Pay rent", got[1].Title)
	assert.Equal(t, tasks.StatusTodo, got[1].Status)

	assert.Equal(t, "Someday", got[2].Title)
	assert.Empty(t, got[2].DueDate)
	assert.Equal(t, tasks.StatusInProgress, got[2].Status)
}

func TestDecodeText_AcceptsISODatesAndContexts(t *testing.T) {
	got := DecodeText("2024-07-01:\n- call bank @phone +money\nnot a task\n-   \n")
	require.Len(t, got, 1)
	assert.Equal(t, "call bank", got[0].Title)
	assert.Equal(t, "2024-07-01", got[0].DueDate)
	assert.Equal(t, []string{"phone", "money"}, got[0].Labels)
}

func TestEncodeICS(t *testing.T) {
	out := EncodeICS(sampleTasks(), stamp)

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"), "undated tasks are skipped")
	assert.Equal(t, 1, strings.Count(out, "BEGIN:VALARM"))
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20240610\r\n")
	assert.Contains(t, out, "DTEND;VALUE=DATE:20240611\r\n")
	assert.Contains(t, out, "DESCRIPTION:Q2\\, final\\; v2\r\n")
	assert.Contains(t, out, "TRIGGER;VALUE=DATE-TIME:"+sampleTasks()[0].RemindAt.UTC().Format(icsStampLayout))
	assert.Contains(t, out, "DTSTAMP:20240601T100000Z")
}
