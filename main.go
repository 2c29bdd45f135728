package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"kanban/pkg/board"
	"kanban/pkg/cli"
	"kanban/pkg/config"
	"kanban/pkg/database"
	"kanban/pkg/filter"
	"kanban/pkg/reminder"
	"kanban/pkg/ui"
	"kanban/pkg/utils"
)

func main() {
	// Parse command line flags
	args := cli.ParseArgs()

	utils.InitLogger(args.Verbose)
	defer utils.CloseLogger()

	// Load configuration
	cfg, styles, err := config.Load(args.ConfigPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if args.Database != "" {
		cfg.Database = args.Database
	}

	// Connect to database
	kv, closer, err := database.Open(cfg.Database, cfg.RedisAddr)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := board.Options{
		LabelMode:      filter.ParseLabelMode(cfg.LabelMatch),
		UpcomingDays:   cfg.UpcomingDays,
		PollInterval:   cfg.PollInterval,
		BannerDuration: cfg.BannerDuration,
		Sink:           reminder.LogSink{Enabled: cfg.Notifications},
		Alerter:        reminder.AlertFunc(func(m string) { fmt.Println(m) }),
	}
	if args.Watch {
		opts.Sink = &reminder.BellSink{W: os.Stdout}
	}

	if cli.HasCommand(args) {
		b := board.New(kv, opts)
		b.Load()
		cli.HandleCommands(ctx, b, args)
		return
	}

	runTUI(ctx, kv, opts, cfg, styles)
}

// runTUI starts the board UI. Reminder events from the scheduler goroutine
// reach the model as messages.
func runTUI(ctx context.Context, kv database.KV, opts board.Options, cfg config.Config, styles config.Styles) {
	relay := &ui.Relay{}
	opts.Alerter = relay
	opts.OnFire = relay.OnFire

	b := board.New(kv, opts)
	b.Load()

	runCtx, cancel := context.WithCancel(ctx)
	p := tea.NewProgram(ui.NewModel(b, cfg, styles), tea.WithAltScreen(), tea.WithContext(runCtx))
	relay.Attach(b, p)

	// Send blocks until the program reads messages, so the missed-reminder
	// sweep must not run on this goroutine before Run.
	started := make(chan struct{})
	go func() {
		defer close(started)
		b.Start(runCtx)
	}()

	_, err := p.Run()
	cancel()
	<-started
	b.Stop()

	if err != nil && ctx.Err() == nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
