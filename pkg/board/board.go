package board

import (
	"context"
	"encoding/json"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kanban/pkg/database"
	"kanban/pkg/filter"
	"kanban/pkg/reminder"
	"kanban/pkg/stats"
	"kanban/pkg/tasks"
	"kanban/pkg/transfer"
	"kanban/pkg/utils"
	"kanban/pkg/views"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Options configures a Board. Zero values fall back to defaults.
type Options struct {
	LabelMode      filter.LabelMode
	UpcomingDays   int
	PollInterval   time.Duration
	BannerDuration time.Duration
	Sink           reminder.Sink
	Alerter        reminder.Alerter
	Clock          utils.Clock
	OnFire         func(t tasks.Task)
}

// Board is the single owned handle over the task store, the reminder
// scheduler, the saved views and the active filter state. Every mutation is
// persisted and its dependent state re-derived before the call returns.
type Board struct {
	kv     database.KV
	clock  utils.Clock
	store  *tasks.Store
	sched  *reminder.Scheduler
	views  *views.Store
	engine filter.Engine

	mu      sync.Mutex
	view    string
	filters filter.Config
	search  string
	sort    filter.SortBy
	theme   string
}

func New(kv database.KV, opts Options) *Board {
	if opts.Clock == nil {
		opts.Clock = utils.RealClock{}
	}
	store := tasks.NewStore(kv, opts.Clock)
	b := &Board{
		kv:      kv,
		clock:   opts.Clock,
		store:   store,
		views:   views.NewStore(kv),
		engine:  filter.NewEngine(opts.LabelMode, opts.UpcomingDays),
		view:    views.ViewAll,
		filters: filter.DefaultConfig(),
		theme:   ThemeLight,
	}
	b.sched = reminder.New(store, reminder.Options{
		Interval: opts.PollInterval,
		Sink:     opts.Sink,
		Banner:   reminder.NewBanner(opts.BannerDuration),
		Alerter:  opts.Alerter,
		Clock:    opts.Clock,
		OnFire:   opts.OnFire,
	})
	return b
}

// Load restores tasks, labels, view and theme, and computes the active
// reminder set.
func (b *Board) Load() {
	b.store.Load()

	b.mu.Lock()
	if v, ok := b.getString(database.ViewKey); ok {
		b.view = views.ParseView(v)
	}
	if th, ok := b.getString(database.ThemeKey); ok && (th == ThemeLight || th == ThemeDark) {
		b.theme = th
	}
	b.mu.Unlock()

	b.sched.Refresh(b.clock.Now())
}

// Start reports missed reminders, asks for notification permission in the
// background and starts the poll loop.
func (b *Board) Start(ctx context.Context) {
	b.SweepMissed()
	b.sched.RequestPermission(ctx)
	b.sched.Start(ctx)
}

// SweepMissed reports reminders whose time passed while nothing was running.
func (b *Board) SweepMissed() []reminder.Entry {
	return b.sched.SweepMissed(b.clock.Now())
}

// Stop ends the poll loop.
func (b *Board) Stop() {
	b.sched.Stop()
}

func (b *Board) Store() *tasks.Store { return b.store }
func (b *Board) Scheduler() *reminder.Scheduler { return b.sched }
func (b *Board) Banner() *reminder.Banner { return b.sched.Banner() }
func (b *Board) Engine() filter.Engine { return b.engine }

func (b *Board) getString(key string) (string, bool) {
	raw, ok := b.kv.Get(key)
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		utils.WithFields(logrus.Fields{"key": key}).Warnf("ignoring corrupt value: %v", err)
		return "", false
	}
	return s, true
}

func (b *Board) setString(key, value string) {
	data, _ := json.Marshal(value)
	b.kv.Set(key, string(data))
}

// settle re-derives what a mutation invalidated.
func (b *Board) settle(res tasks.Result) {
	if res.RemindersChanged {
		b.sched.Refresh(b.clock.Now())
	}
	if len(res.RemovedLabels) > 0 {
		b.mu.Lock()
		b.filters = b.filters.WithoutLabels(res.RemovedLabels)
		b.mu.Unlock()
	}
}

func (b *Board) Create(d tasks.Draft) (tasks.Task, tasks.Result, error) {
	t, res, err := b.store.Create(d)
	if err != nil {
		return t, res, err
	}
	b.settle(res)
	return t, res, nil
}

func (b *Board) Update(id string, d tasks.Draft) (tasks.Task, tasks.Result, error) {
	t, res, err := b.store.Update(id, d)
	if err != nil {
		return t, res, err
	}
	b.settle(res)
	return t, res, nil
}

func (b *Board) Move(id string, status tasks.Status) (tasks.Task, tasks.Result, error) {
	t, res, err := b.store.Move(id, status)
	if err != nil {
		return t, res, err
	}
	b.settle(res)
	return t, res, nil
}

func (b *Board) Delete(id string) tasks.Result {
	res := b.store.Delete(id)
	b.settle(res)
	return res
}

func (b *Board) DeleteLabel(name string) tasks.Result {
	res := b.store.DeleteLabel(name)
	b.settle(res)
	return res
}

// PurgeDone deletes every done task, or only those carrying label when it
// is not empty. It returns the number of deleted tasks.
func (b *Board) PurgeDone(label string) int {
	n := 0
	for _, t := range b.store.Tasks() {
		if !t.IsDone() || (label != "" && !t.HasLabel(label)) {
			continue
		}
		b.settle(b.store.Delete(t.ID))
		n++
	}
	utils.WithFields(logrus.Fields{"label": label, "count": n}).Info("purged done tasks")
	return n
}

// Visible is the task list the board shows right now: the current view,
// filters, search and sort applied to every task.
func (b *Board) Visible() []tasks.Task {
	b.mu.Lock()
	q := filter.Query{Filters: b.filters.Clone(), Search: b.search, Sort: b.sort}
	view := b.view
	b.mu.Unlock()

	out := b.engine.Run(b.store.Tasks(), q, b.clock.Now())
	if view != views.ViewAll {
		out = slices.DeleteFunc(out, func(t tasks.Task) bool { return string(t.Status) != view })
	}
	return out
}

func (b *Board) Filters() filter.Config {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filters.Clone()
}

func (b *Board) SetFilters(cfg filter.Config) {
	b.mu.Lock()
	b.filters = cfg.Clone()
	b.mu.Unlock()
}

func (b *Board) Search() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.search
}

func (b *Board) SetSearch(term string) {
	b.mu.Lock()
	b.search = term
	b.mu.Unlock()
}

func (b *Board) Sort() filter.SortBy {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sort
}

func (b *Board) SetSort(by filter.SortBy) {
	b.mu.Lock()
	b.sort = by
	b.mu.Unlock()
}

func (b *Board) View() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.view
}

// SetView switches and persists the view.
func (b *Board) SetView(v string) {
	v = views.ParseView(v)
	b.mu.Lock()
	b.view = v
	b.mu.Unlock()
	b.setString(database.ViewKey, v)
}

func (b *Board) Theme() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.theme
}

// ToggleTheme flips between light and dark and persists the choice.
func (b *Board) ToggleTheme() string {
	b.mu.Lock()
	if b.theme == ThemeDark {
		b.theme = ThemeLight
	} else {
		b.theme = ThemeDark
	}
	th := b.theme
	b.mu.Unlock()
	b.setString(database.ThemeKey, th)
	return th
}

// SaveView stores the current view, filters and search under name.
func (b *Board) SaveView(name string) bool {
	b.mu.Lock()
	p := views.Preset{View: b.view, Filters: b.filters.Clone(), Search: b.search}
	b.mu.Unlock()
	return b.views.Save(name, p)
}

// ApplyView restores a saved view. A missing name changes nothing.
func (b *Board) ApplyView(name string) bool {
	p, ok := b.views.Apply(name)
	if !ok {
		return false
	}
	b.mu.Lock()
	b.filters = p.Filters
	b.search = p.Search
	b.mu.Unlock()
	b.SetView(p.View)
	return true
}

func (b *Board) DeleteView(name string) { b.views.Delete(name) }

func (b *Board) SavedViews() []string { return b.views.List() }

// Import replaces the board with a JSON export. A malformed document leaves
// the board untouched.
func (b *Board) Import(r io.Reader) (tasks.Result, error) {
	doc, err := transfer.Decode(r)
	if err != nil {
		return tasks.Result{}, err
	}
	res := b.store.Replace(doc.Tasks, doc.Labels)
	b.pruneFilterLabels()
	b.settle(res)
	utils.WithFields(logrus.Fields{"tasks": len(doc.Tasks)}).Info("imported board")
	return res, nil
}

// ImportText appends the tasks of a text checklist to the board.
func (b *Board) ImportText(content string) (int, tasks.Result) {
	parsed := transfer.DecodeText(content)
	if len(parsed) == 0 {
		return 0, tasks.Result{}
	}
	now := b.clock.Now()
	for i := range parsed {
		parsed[i].CreatedAt = now
		parsed[i].UpdatedAt = now
		if parsed[i].IsDone() {
			parsed[i].CompletedAt = &now
		}
	}
	res := b.store.Replace(append(b.store.Tasks(), parsed...), b.store.Labels())
	b.settle(res)
	return len(parsed), res
}

// pruneFilterLabels drops selected labels that no longer exist.
func (b *Board) pruneFilterLabels() {
	labels := b.store.Labels()
	b.mu.Lock()
	b.filters.Labels = slices.DeleteFunc(b.filters.Labels, func(l string) bool {
		_, ok := labels[l]
		return !ok
	})
	b.mu.Unlock()
}

// Export writes every task and label in the given format.
func (b *Board) Export(w io.Writer, f transfer.Format) error {
	doc := transfer.NewDocument(b.store.Tasks(), b.store.Labels())
	return transfer.Encode(w, f, doc, b.clock.Now())
}

// Stats summarizes the board, with the upcoming window for due-soon tasks.
func (b *Board) Stats() stats.Summary {
	return stats.Compute(b.store.Tasks(), b.clock.Now(), b.engine.UpcomingDays)
}
