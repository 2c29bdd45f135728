package transfer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"kanban/pkg/tasks"
)

// Version is written into every export. It is not checked on import.
const Version = "1.0"

// ErrInvalidFormat is returned for any import that is not a board export.
var ErrInvalidFormat = errors.New("invalid import format")

// Format is an export file type.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "txt"
	FormatICS  Format = "ics"
)

var Formats = []Format{FormatJSON, FormatYAML, FormatText, FormatICS}

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "json", "":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "txt", "text":
		return FormatText, nil
	case "ics", "ical":
		return FormatICS, nil
	}
	return "", fmt.Errorf("unknown export type: %s", s)
}

// Document is the board as exported and imported.
type Document struct {
	Tasks   []tasks.Task      `json:"tasks" yaml:"tasks"`
	Labels  map[string]string `json:"labels" yaml:"labels"`
	Version string            `json:"version" yaml:"version"`
}

func NewDocument(ts []tasks.Task, labels map[string]string) Document {
	if ts == nil {
		ts = []tasks.Task{}
	}
	if labels == nil {
		labels = map[string]string{}
	}
	return Document{Tasks: ts, Labels: labels, Version: Version}
}

// Encode writes doc to w in the given format. now stamps calendar exports.
func Encode(w io.Writer, f Format, doc Document, now time.Time) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		_, err := io.WriteString(w, EncodeText(doc.Tasks))
		return err
	case FormatICS:
		_, err := io.WriteString(w, EncodeICS(doc.Tasks, now))
		return err
	}
	return fmt.Errorf("unknown export type: %s", f)
}

// Decode reads a JSON board export. Only the presence of the tasks and
// labels keys is checked; anything else is rejected with ErrInvalidFormat.
// The version key is not read: every document is taken as the current
// version.
func Decode(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	rawTasks, ok := raw["tasks"]
	if !ok {
		return Document{}, fmt.Errorf("%w: missing tasks", ErrInvalidFormat)
	}
	rawLabels, ok := raw["labels"]
	if !ok {
		return Document{}, fmt.Errorf("%w: missing labels", ErrInvalidFormat)
	}

	var doc Document
	if err := json.Unmarshal(rawTasks, &doc.Tasks); err != nil {
		return Document{}, fmt.Errorf("%w: tasks: %v", ErrInvalidFormat, err)
	}
	if err := json.Unmarshal(rawLabels, &doc.Labels); err != nil {
		return Document{}, fmt.Errorf("%w: labels: %v", ErrInvalidFormat, err)
	}
	return NewDocument(doc.Tasks, doc.Labels), nil
}
