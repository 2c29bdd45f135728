package views

import (
	"encoding/json"
	"slices"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"kanban/pkg/database"
	"kanban/pkg/filter"
	"kanban/pkg/tasks"
	"kanban/pkg/utils"
)

// Board views. A view narrows the board to one column or shows them all.
const (
	ViewAll        = "all"
	ViewTodo       = string(tasks.StatusTodo)
	ViewInProgress = string(tasks.StatusInProgress)
	ViewDone       = string(tasks.StatusDone)
)

var Views = []string{ViewAll, ViewTodo, ViewInProgress, ViewDone}

// ParseView maps unknown names to ViewAll.
func ParseView(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if slices.Contains(Views, s) {
		return s
	}
	return ViewAll
}

// NextView cycles through Views.
func NextView(v string) string {
	i := slices.Index(Views, v)
	return Views[(i+1)%len(Views)]
}

// Preset is a replayable bundle of board state.
type Preset struct {
	View    string        `json:"view"`
	Filters filter.Config `json:"filters"`
	Search  string        `json:"search"`
}

// normalize fills what an older or hand-edited entry may lack.
func (p Preset) normalize() Preset {
	p.View = ParseView(p.View)
	if p.Filters.Status == nil {
		p.Filters.Status = slices.Clone(tasks.Statuses)
	}
	if p.Filters.Priority == "" {
		p.Filters.Priority = filter.PriorityAll
	}
	if p.Filters.Labels == nil {
		p.Filters.Labels = []string{}
	}
	return p
}

// Store keeps saved views as one JSON object in the key-value store.
type Store struct {
	kv database.KV
}

func NewStore(kv database.KV) *Store {
	return &Store{kv: kv}
}

// load never fails: a missing or corrupt value is an empty mapping.
func (s *Store) load() map[string]Preset {
	presets := map[string]Preset{}
	raw, ok := s.kv.Get(database.SavedViewsKey)
	if !ok || raw == "" {
		return presets
	}
	if err := json.Unmarshal([]byte(raw), &presets); err != nil {
		utils.WithFields(logrus.Fields{"key": database.SavedViewsKey}).Warnf("discarding corrupt saved views: %v", err)
		return map[string]Preset{}
	}
	return presets
}

func (s *Store) save(presets map[string]Preset) {
	data, err := json.Marshal(presets)
	if err != nil {
		utils.Warn("Failed to encode saved views: %v", err)
		return
	}
	s.kv.Set(database.SavedViewsKey, string(data))
}

// Save stores p under name, replacing any view of the same name. Blank
// names are refused.
func (s *Store) Save(name string, p Preset) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	presets := s.load()
	p = p.normalize()
	p.Filters = p.Filters.Clone()
	presets[name] = p
	s.save(presets)
	utils.Log("Saved view %q", name)
	return true
}

// Apply returns the view saved under name.
func (s *Store) Apply(name string) (Preset, bool) {
	p, ok := s.load()[strings.TrimSpace(name)]
	if !ok {
		utils.Log("Saved view %q not found", name)
		return Preset{}, false
	}
	return p.normalize(), true
}

// Delete removes name. Deleting a missing view does nothing.
func (s *Store) Delete(name string) {
	name = strings.TrimSpace(name)
	presets := s.load()
	if _, ok := presets[name]; !ok {
		return
	}
	delete(presets, name)
	s.save(presets)
	utils.Log("Deleted view %q", name)
}

// List returns the saved view names in order.
func (s *Store) List() []string {
	presets := s.load()
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
