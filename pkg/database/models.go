package database

// Keys under which the board persists its state. Every value is JSON.
const (
	TasksKey      = "kanban_tasks"
	LabelsKey     = "kanban_labels"
	ThemeKey      = "kanban_theme"
	ViewKey       = "kanban_view"
	SavedViewsKey = "kanban_saved_views"
)

// KV is the persistence collaborator: a synchronous string store whose
// failures are logged and absorbed rather than returned.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
}
