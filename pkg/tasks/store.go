package tasks

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"kanban/pkg/database"
	"kanban/pkg/utils"
)

// LabelColorCount is the number of color tokens handed out to new labels.
const LabelColorCount = 8

// Result says what a mutation touched so the caller can decide what to
// re-derive or redraw.
type Result struct {
	TasksChanged     bool
	LabelsChanged    bool
	RemindersChanged bool
	// RemovedLabels lists labels dropped from the mapping, sorted.
	RemovedLabels []string
}

// Changed reports whether anything at all was modified.
func (r Result) Changed() bool {
	return r.TasksChanged || r.LabelsChanged || r.RemindersChanged
}

// Store is the authoritative collection of tasks and labels. Every mutation
// is written through to the KV before it returns.
type Store struct {
	mu     sync.RWMutex
	kv     database.KV
	clock  utils.Clock
	tasks  []Task
	labels map[string]string

	newColor func() string
}

func NewStore(kv database.KV, clock utils.Clock) *Store {
	if clock == nil {
		clock = utils.RealClock{}
	}
	return &Store{
		kv:       kv,
		clock:    clock,
		tasks:    []Task{},
		labels:   map[string]string{},
		newColor: randomColor,
	}
}

func randomColor() string {
	return fmt.Sprintf("tag-%d", rand.IntN(LabelColorCount)+1)
}

// Load restores tasks and labels from the KV. Corrupt values are logged and
// treated as empty.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []Task{}
	s.labels = map[string]string{}

	if raw, ok := s.kv.Get(database.TasksKey); ok {
		var loaded []Task
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			utils.WithFields(logrus.Fields{"key": database.TasksKey}).Warnf("discarding corrupt tasks: %v", err)
		} else {
			for i := range loaded {
				normalizeTask(&loaded[i])
			}
			s.tasks = loaded
		}
	}
	if raw, ok := s.kv.Get(database.LabelsKey); ok {
		var loaded map[string]string
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			utils.WithFields(logrus.Fields{"key": database.LabelsKey}).Warnf("discarding corrupt labels: %v", err)
		} else if loaded != nil {
			s.labels = loaded
		}
	}
	utils.Log("Loaded %d tasks and %d labels", len(s.tasks), len(s.labels))
}

// persist writes both keys. Callers hold s.mu.
func (s *Store) persist() {
	tasksJSON, err := json.Marshal(s.tasks)
	if err != nil {
		utils.Warn("encoding tasks: %v", err)
		return
	}
	labelsJSON, err := json.Marshal(s.labels)
	if err != nil {
		utils.Warn("encoding labels: %v", err)
		return
	}
	s.kv.Set(database.TasksKey, string(tasksJSON))
	s.kv.Set(database.LabelsKey, string(labelsJSON))
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// ensureLabels gives every new label name a color. Callers hold s.mu.
func (s *Store) ensureLabels(names []string) bool {
	added := false
	for _, name := range names {
		if _, ok := s.labels[name]; !ok {
			s.labels[name] = s.newColor()
			added = true
		}
	}
	return added
}

// collectLabels drops every label no task references, recomputed from
// scratch. Callers hold s.mu.
func (s *Store) collectLabels() []string {
	used := make(map[string]bool)
	for _, t := range s.tasks {
		for _, l := range t.Labels {
			used[l] = true
		}
	}
	var removed []string
	for name := range s.labels {
		if !used[name] {
			delete(s.labels, name)
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	return removed
}

// applyReminder re-derives RemindAt and resets Reminded when the due date,
// the policy or the resulting time changed. It reports whether the reminder
// state moved.
func applyReminder(t *Task, prevDue string, prevType ReminderType, prevAt *time.Time) bool {
	t.RemindAt = ComputeRemindAt(t.DueDate, t.ReminderType)
	if t.DueDate != prevDue || t.ReminderType != prevType || !sameInstant(t.RemindAt, prevAt) {
		t.Reminded = false
		return true
	}
	return false
}

// Create validates d and appends a new task.
func (s *Store) Create(d Draft) (Task, Result, error) {
	now := s.clock.Now()
	if err := d.validate(now, true); err != nil {
		return Task{}, Result{}, err
	}

	t := Task{
		ID:           "task-" + uuid.NewString(),
		Title:        d.Title,
		Description:  d.Description,
		DueDate:      d.DueDate,
		Priority:     d.Priority,
		Status:       d.Status,
		Labels:       d.Labels,
		ReminderType: d.ReminderType,
		CreatedAt:    now,
		UpdatedAt:    now,
		Subtasks:     []Subtask{},
	}
	t.RemindAt = ComputeRemindAt(t.DueDate, t.ReminderType)
	if t.Status == StatusDone {
		t.CompletedAt = &now
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{TasksChanged: true, RemindersChanged: t.RemindAt != nil}
	res.LabelsChanged = s.ensureLabels(t.Labels)
	s.tasks = append(s.tasks, t)
	s.persist()

	utils.WithFields(logrus.Fields{"task": t.ID, "remindAt": t.RemindAt}).Debug("created task")
	return t.clone(), res, nil
}

// Update replaces the editable fields of task id. A missing id is a no-op.
func (s *Store) Update(id string, d Draft) (Task, Result, error) {
	now := s.clock.Now()
	if err := d.validate(now, false); err != nil {
		return Task{}, Result{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		utils.Log("Update of missing task %s ignored", id)
		return Task{}, Result{}, nil
	}
	t := &s.tasks[i]
	prevDue, prevType, prevAt := t.DueDate, t.ReminderType, t.RemindAt

	t.Title = d.Title
	t.Description = d.Description
	t.DueDate = d.DueDate
	t.Priority = d.Priority
	t.Labels = d.Labels
	t.ReminderType = d.ReminderType
	t.UpdatedAt = now

	res := Result{TasksChanged: true}
	res.RemindersChanged = applyReminder(t, prevDue, prevType, prevAt)
	added := s.ensureLabels(t.Labels)
	res.RemovedLabels = s.collectLabels()
	res.LabelsChanged = added || len(res.RemovedLabels) > 0
	out := t.clone()
	s.persist()

	utils.WithFields(logrus.Fields{"task": id, "remindAt": out.RemindAt, "reminded": out.Reminded}).Debug("updated task")
	return out, res, nil
}

// Move changes the status of task id. completedAt is stamped the first time
// the task reaches done and never again.
func (s *Store) Move(id string, status Status) (Task, Result, error) {
	st, ok := ParseStatus(string(status))
	if !ok {
		return Task{}, Result{}, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, Result{}, nil
	}
	t := &s.tasks[i]
	if t.Status == st {
		return t.clone(), Result{}, nil
	}

	now := s.clock.Now()
	wasDone := t.IsDone()
	t.Status = st
	t.UpdatedAt = now
	if st == StatusDone && t.CompletedAt == nil {
		t.CompletedAt = &now
	}
	res := Result{
		TasksChanged:     true,
		RemindersChanged: t.RemindAt != nil && wasDone != t.IsDone(),
	}
	out := t.clone()
	s.persist()

	utils.WithFields(logrus.Fields{"task": id, "status": st}).Debug("moved task")
	return out, res, nil
}

// Delete removes task id and garbage-collects labels nobody references any
// more. A missing id is a no-op.
func (s *Store) Delete(id string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Result{}
	}
	removed := s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)

	res := Result{TasksChanged: true, RemindersChanged: removed.RemindAt != nil}
	res.RemovedLabels = s.collectLabels()
	res.LabelsChanged = len(res.RemovedLabels) > 0
	s.persist()

	utils.WithFields(logrus.Fields{"task": id, "labelsRemoved": res.RemovedLabels}).Debug("deleted task")
	return res
}

// DeleteLabel removes name from the mapping and from every task.
func (s *Store) DeleteLabel(name string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := Result{}
	if _, ok := s.labels[name]; ok {
		delete(s.labels, name)
		res.LabelsChanged = true
		res.RemovedLabels = []string{name}
	}
	now := s.clock.Now()
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.HasLabel(name) {
			t.Labels = slices.DeleteFunc(t.Labels, func(l string) bool { return l == name })
			t.UpdatedAt = now
			res.TasksChanged = true
		}
	}
	if res.Changed() {
		s.persist()
	}
	return res
}

// Replace swaps in an imported board wholesale.
func (s *Store) Replace(tasks []Task, labels map[string]string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		t = t.clone()
		normalizeTask(&t)
		if t.ID == "" {
			t.ID = "task-" + uuid.NewString()
		}
		for j := range t.Subtasks {
			if t.Subtasks[j].ID == "" {
				t.Subtasks[j].ID = "subtask-" + uuid.NewString()
			}
		}
		s.tasks = append(s.tasks, t)
	}
	s.labels = make(map[string]string, len(labels))
	for k, v := range labels {
		s.labels[k] = v
	}
	for _, t := range s.tasks {
		s.ensureLabels(t.Labels)
	}
	removed := s.collectLabels()
	s.persist()

	return Result{TasksChanged: true, LabelsChanged: true, RemindersChanged: true, RemovedLabels: removed}
}

// ClaimReminder marks task id reminded if it is still due to fire at the
// given time: present, not done, not already reminded, and with RemindAt
// equal to at and not after now. The check and the write are one step, so a
// reminder can be claimed once.
func (s *Store) ClaimReminder(id string, at, now time.Time) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	t := &s.tasks[i]
	if t.IsDone() || t.Reminded || t.RemindAt == nil || !t.RemindAt.Equal(at) || t.RemindAt.After(now) {
		return Task{}, false
	}
	t.Reminded = true
	out := t.clone()
	s.persist()
	return out, true
}

// MarkReminded flags tasks reminded in one write. marks maps a task id to
// the remindAt it was seen with; a task is only marked while it is present,
// not done, not yet reminded and still has that remindAt. It returns the ids
// it marked.
func (s *Store) MarkReminded(marks map[string]time.Time) []string {
	if len(marks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var marked []string
	for id, at := range marks {
		i := s.indexOf(id)
		if i < 0 {
			continue
		}
		t := &s.tasks[i]
		if t.IsDone() || t.Reminded || t.RemindAt == nil || !t.RemindAt.Equal(at) {
			continue
		}
		t.Reminded = true
		marked = append(marked, id)
	}
	if len(marked) > 0 {
		s.persist()
	}
	return marked
}

// Get returns a copy of task id.
func (s *Store) Get(id string) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Tasks returns a copy of every task in insertion order.
func (s *Store) Tasks() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

// Labels returns a copy of the name -> color mapping.
func (s *Store) Labels() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]string, len(s.labels))
	for k, v := range s.labels {
		out[k] = v
	}
	return out
}

// LabelNames returns label names sorted.
func (s *Store) LabelNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.labels))
	for k := range s.labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
