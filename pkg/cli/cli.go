package cli

import (
	"context"
	"flag"
	"io"
	"os"

	"kanban/pkg/board"
	"kanban/pkg/commands"
)

// Args represents parsed command line arguments
type Args struct {
	ConfigPath string
	Verbose    bool
	Database   string

	// Task operations
	AddTask      string
	DateFlag     string
	PriorityFlag string
	LabelsFlag   string
	ReminderFlag string
	MoveID       string
	StatusFlag   string
	DeleteID     string
	DeleteLabel  string

	// Listing
	List         bool
	LabelFlag    string
	UpcomingFlag bool
	SearchFlag   string
	SortFlag     string
	Stats        bool

	// Saved views
	SaveView   string
	ApplyView  string
	DeleteView string
	ListViews  bool

	// Database operations
	DatabaseCmd string
	YesFlag     bool

	// Import/Export operations
	ImportFile string
	ExportFile string
	TypeFlag   string

	// Reminders
	Reminders bool
	Watch     bool
}

// ParseArgs parses command line arguments and returns Args struct
func ParseArgs() *Args {
	args, err := ParseArgsFrom(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	return args
}

// ParseArgsFrom parses argv with its own flag set
func ParseArgsFrom(argv []string, output io.Writer) (*Args, error) {
	args := &Args{}
	fs := flag.NewFlagSet("kanban", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&args.ConfigPath, "config", "", "Path to configuration file")
	fs.BoolVar(&args.Verbose, "verbose", false, "Enable verbose logging")
	fs.StringVar(&args.Database, "db", "", "Database path or postgres:// URL, overriding the config")

	// Task operations
	fs.StringVar(&args.AddTask, "add", "", "Add a new task (+label tags become labels)")
	fs.StringVar(&args.DateFlag, "date", "", "Due date for task (YYYY-MM-DD format)")
	fs.StringVar(&args.PriorityFlag, "priority", "", "Priority (low, medium, high); with -list, filter by priority")
	fs.StringVar(&args.LabelsFlag, "labels", "", "Comma separated labels for the new task")
	fs.StringVar(&args.ReminderFlag, "reminder", "", "Reminder (none, same-day-09, same-day-18, one-day-before-18)")
	fs.StringVar(&args.MoveID, "move", "", "Move the task with this id (or unique id prefix)")
	fs.StringVar(&args.StatusFlag, "status", "", "Target status for -move; with -list, filter by status")
	fs.StringVar(&args.DeleteID, "delete", "", "Delete the task with this id (or unique id prefix)")
	fs.StringVar(&args.DeleteLabel, "delete-label", "", "Delete a label from every task")

	// Listing
	fs.BoolVar(&args.List, "list", false, "List tasks")
	fs.StringVar(&args.LabelFlag, "label", "", "Filter by comma separated labels")
	fs.BoolVar(&args.UpcomingFlag, "upcoming", false, "Only tasks due in the upcoming window")
	fs.StringVar(&args.SearchFlag, "search", "", "Only tasks whose title or description contains this")
	fs.StringVar(&args.SortFlag, "sort", "", "Sort by due date (dueAsc, dueDesc)")
	fs.BoolVar(&args.Stats, "stats", false, "Show board statistics")

	// Saved views
	fs.StringVar(&args.SaveView, "save-view", "", "Save the -list filters as a named view")
	fs.StringVar(&args.ApplyView, "apply-view", "", "List tasks using a saved view")
	fs.StringVar(&args.DeleteView, "delete-view", "", "Delete a saved view")
	fs.BoolVar(&args.ListViews, "views", false, "List saved views")

	// Database operations
	fs.StringVar(&args.DatabaseCmd, "database", "", "Database command (purge-done, labels); purge-done honors -label")
	fs.BoolVar(&args.YesFlag, "yes", false, "Skip confirmation")

	// Import/Export operations
	fs.StringVar(&args.ImportFile, "import", "", "Import tasks from file (.json replaces the board, .txt appends)")
	fs.StringVar(&args.ExportFile, "export", "", "Export tasks to file")
	fs.StringVar(&args.TypeFlag, "type", "json", "Export file type (json, yaml, txt, ics)")

	// Reminders
	fs.BoolVar(&args.Reminders, "reminders", false, "Report missed and list upcoming reminders")
	fs.BoolVar(&args.Watch, "watch", false, "Run the reminder loop in the foreground, ringing the terminal bell")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	return args, nil
}

// listQuery collects the listing flags
func (args *Args) listQuery() commands.ListQuery {
	return commands.ListQuery{
		Status:   args.StatusFlag,
		Priority: args.PriorityFlag,
		Labels:   args.LabelFlag,
		Upcoming: args.UpcomingFlag,
		Search:   args.SearchFlag,
		Sort:     args.SortFlag,
	}
}

// HasCommand reports whether args name a command rather than the board UI
func HasCommand(args *Args) bool {
	return args.AddTask != "" || args.MoveID != "" || args.DeleteID != "" || args.DeleteLabel != "" ||
		args.DatabaseCmd != "" || args.ImportFile != "" || args.ExportFile != "" ||
		args.SaveView != "" || args.ApplyView != "" || args.DeleteView != "" || args.ListViews ||
		args.List || args.Stats || args.Reminders || args.Watch
}

// HandleCommands processes CLI commands and returns true if a command was handled
func HandleCommands(ctx context.Context, b *board.Board, args *Args) bool {
	out := os.Stdout

	switch {
	case args.AddTask != "":
		commands.HandleAddTask(b, out, commands.AddOptions{
			Text:     args.AddTask,
			Date:     args.DateFlag,
			Priority: args.PriorityFlag,
			Labels:   args.LabelsFlag,
			Reminder: args.ReminderFlag,
		})
	case args.MoveID != "":
		commands.HandleMoveTask(b, out, args.MoveID, args.StatusFlag)
	case args.DeleteID != "":
		commands.HandleDeleteTask(b, out, args.DeleteID)
	case args.DeleteLabel != "":
		commands.HandleDeleteLabel(b, out, args.DeleteLabel)
	case args.DatabaseCmd != "":
		commands.HandleDatabaseCommand(b, os.Stdin, out, args.DatabaseCmd, args.LabelFlag, args.YesFlag)
	case args.ImportFile != "":
		commands.HandleImportCommand(b, out, args.ImportFile)
	case args.ExportFile != "":
		commands.HandleExportCommand(b, out, args.ExportFile, args.TypeFlag)
	case args.SaveView != "":
		commands.HandleSaveView(b, out, args.SaveView, args.listQuery())
	case args.ApplyView != "":
		commands.HandleApplyView(b, out, args.ApplyView)
	case args.DeleteView != "":
		commands.HandleDeleteView(b, out, args.DeleteView)
	case args.ListViews:
		commands.HandleListViews(b, out)
	case args.List:
		commands.HandleList(b, out, args.listQuery())
	case args.Stats:
		commands.HandleStats(b, out)
	case args.Reminders:
		commands.HandleReminders(b, out)
	case args.Watch:
		commands.HandleWatch(ctx, b, out)
	default:
		// No CLI command was handled
		return false
	}
	return true
}
