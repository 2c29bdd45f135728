package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":         {"?", "show/hide commands"},
	"QuitApp":          {"q", "quit"},
	"AddTask":          {"a", "add task"},
	"EditTask":         {"e", "edit task"},
	"DeleteTask":       {"d", "delete task"},
	"MoveLeft":         {"shift+left,<", "move task to previous column"},
	"MoveRight":        {"shift+right,>", "move task to next column"},
	"SearchTasks":      {"/", "search tasks"},
	"CycleView":        {"tab", "cycle view (all, todo, in progress, done)"},
	"ToggleTodo":       {"1", "show/hide todo"},
	"ToggleInProgress": {"2", "show/hide in progress"},
	"ToggleDone":       {"3", "show/hide done"},
	"ToggleUpcoming":   {"u", "toggle upcoming filter"},
	"CyclePriority":    {"p", "cycle priority filter"},
	"FilterLabel":      {"l", "toggle label filter"},
	"DeleteLabel":      {"L", "delete label"},
	"ClearFilters":     {"c", "clear filters"},
	"ToggleSortBy":     {"s", "cycle sort by due date"},
	"SaveView":         {"w", "save current view"},
	"ApplyView":        {"v", "apply saved view"},
	"DeleteView":       {"x", "delete saved view"},
	"ToggleTheme":      {"t", "toggle light/dark theme"},
	"ShowStats":        {"i", "show statistics"},
	"CloseBanner":      {"esc", "close reminder banner"},
}

type KeyMap struct {
	ShowHelp         key.Binding
	QuitApp          key.Binding
	AddTask          key.Binding
	EditTask         key.Binding
	DeleteTask       key.Binding
	MoveLeft         key.Binding
	MoveRight        key.Binding
	SearchTasks      key.Binding
	CycleView        key.Binding
	ToggleTodo       key.Binding
	ToggleInProgress key.Binding
	ToggleDone       key.Binding
	ToggleUpcoming   key.Binding
	CyclePriority    key.Binding
	FilterLabel      key.Binding
	DeleteLabel      key.Binding
	ClearFilters     key.Binding
	ToggleSortBy     key.Binding
	SaveView         key.Binding
	ApplyView        key.Binding
	DeleteView       key.Binding
	ToggleTheme      key.Binding
	ShowStats        key.Binding
	CloseBanner      key.Binding
}

// bindings addresses every binding of km by action name.
func (km *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"ShowHelp":         &km.ShowHelp,
		"QuitApp":          &km.QuitApp,
		"AddTask":          &km.AddTask,
		"EditTask":         &km.EditTask,
		"DeleteTask":       &km.DeleteTask,
		"MoveLeft":         &km.MoveLeft,
		"MoveRight":        &km.MoveRight,
		"SearchTasks":      &km.SearchTasks,
		"CycleView":        &km.CycleView,
		"ToggleTodo":       &km.ToggleTodo,
		"ToggleInProgress": &km.ToggleInProgress,
		"ToggleDone":       &km.ToggleDone,
		"ToggleUpcoming":   &km.ToggleUpcoming,
		"CyclePriority":    &km.CyclePriority,
		"FilterLabel":      &km.FilterLabel,
		"DeleteLabel":      &km.DeleteLabel,
		"ClearFilters":     &km.ClearFilters,
		"ToggleSortBy":     &km.ToggleSortBy,
		"SaveView":         &km.SaveView,
		"ApplyView":        &km.ApplyView,
		"DeleteView":       &km.DeleteView,
		"ToggleTheme":      &km.ToggleTheme,
		"ShowStats":        &km.ShowStats,
		"CloseBanner":      &km.CloseBanner,
	}
}

// BuildKeyMap applies configured overrides on top of the defaults. Action
// names are matched case-insensitively since the config layer folds keys.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keys := range configOverrides {
		overrides[strings.ToLower(action)] = keys
	}

	km := KeyMap{}
	for action, binding := range km.bindings() {
		def := KeyDefinitions[action]
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && override != "" {
			keyStr = override
		}
		*binding = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
	}
	return km
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	var keys []string
	for _, k := range strings.Split(keyStr, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = []string{defaultKey}
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}
