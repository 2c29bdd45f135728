package reminder

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kanban/pkg/tasks"
	"kanban/pkg/utils"
)

// DefaultPollInterval is the cadence of the live reminder check. A reminder
// may fire up to one interval after its time.
const DefaultPollInterval = 60 * time.Second

// TaskSource is the part of the task store the scheduler reads and writes.
type TaskSource interface {
	Tasks() []tasks.Task
	ClaimReminder(id string, at, now time.Time) (tasks.Task, bool)
	MarkReminded(marks map[string]time.Time) []string
}

// Entry is one pending reminder.
type Entry struct {
	TaskID   string
	Title    string
	RemindAt time.Time
}

// ActiveSet lists tasks with a reminder still in the future, ordered by fire
// time.
func ActiveSet(ts []tasks.Task, now time.Time) []Entry {
	var out []Entry
	for _, t := range ts {
		if t.RemindAt == nil || t.IsDone() || !t.RemindAt.After(now) {
			continue
		}
		out = append(out, Entry{TaskID: t.ID, Title: t.Title, RemindAt: *t.RemindAt})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out
}

// MissedSet lists unacknowledged reminders whose time passed while nothing
// was polling.
func MissedSet(ts []tasks.Task, now time.Time) []Entry {
	var out []Entry
	for _, t := range ts {
		if t.RemindAt == nil || t.IsDone() || t.Reminded || !t.RemindAt.Before(now) {
			continue
		}
		out = append(out, Entry{TaskID: t.ID, Title: t.Title, RemindAt: *t.RemindAt})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out
}

// Message is the reminder text for t: overdue when the due date is already
// behind now, due soon otherwise.
func Message(t tasks.Task, now time.Time) string {
	if due, ok := t.Due(); ok && due.Before(now) {
		return fmt.Sprintf("%s is overdue", t.Title)
	}
	return fmt.Sprintf("%s is due soon", t.Title)
}

// MissedMessage formats the one-alert summary of a missed sweep.
func MissedMessage(missed []Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You missed %d reminder(s):", len(missed))
	for _, m := range missed {
		fmt.Fprintf(&sb, "\n%q was due for a reminder at %s", m.Title, m.RemindAt.Format("2006-01-02 15:04"))
	}
	return sb.String()
}

type Options struct {
	Interval time.Duration
	Sink     Sink
	Banner   *Banner
	Alerter  Alerter
	Clock    utils.Clock
	// OnFire runs after a reminder fired and was persisted.
	OnFire func(t tasks.Task)
}

// Scheduler drives the live poll and the startup missed sweep.
type Scheduler struct {
	src      TaskSource
	interval time.Duration
	sink     Sink
	banner   *Banner
	alerter  Alerter
	clock    utils.Clock
	onFire   func(t tasks.Task)

	// refreshMu keeps the task read and the store of the set together, so
	// an older snapshot never overwrites a newer one.
	refreshMu sync.Mutex

	mu        sync.Mutex
	active    []Entry
	permitted bool
	cancel    context.CancelFunc
	done      chan struct{}
}

func New(src TaskSource, opts Options) *Scheduler {
	if opts.Interval <= 0 {
		opts.Interval = DefaultPollInterval
	}
	if opts.Banner == nil {
		opts.Banner = NewBanner(DefaultBannerDuration)
	}
	if opts.Clock == nil {
		opts.Clock = utils.RealClock{}
	}
	return &Scheduler{
		src:      src,
		interval: opts.Interval,
		sink:     opts.Sink,
		banner:   opts.Banner,
		alerter:  opts.Alerter,
		clock:    opts.Clock,
		onFire:   opts.OnFire,
	}
}

func (s *Scheduler) Banner() *Banner { return s.banner }

// Refresh recomputes the active set from scratch.
func (s *Scheduler) Refresh(now time.Time) []Entry {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	active := ActiveSet(s.src.Tasks(), now)

	s.mu.Lock()
	s.active = active
	s.mu.Unlock()

	utils.Log("Active reminders: %d", len(active))
	return active
}

// Active returns the set computed by the last Refresh.
func (s *Scheduler) Active() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.active))
	copy(out, s.active)
	return out
}

// Poll fires every entry of the active set whose time has come, then
// refreshes the set. Entries are re-checked against the store first, so
// tasks deleted, completed, rescheduled or already fired since the last
// refresh stay silent.
func (s *Scheduler) Poll(now time.Time) []tasks.Task {
	var fired []tasks.Task
	for _, e := range s.Active() {
		if e.RemindAt.After(now) {
			continue
		}
		t, ok := s.src.ClaimReminder(e.TaskID, e.RemindAt, now)
		if !ok {
			utils.WithFields(logrus.Fields{"task": e.TaskID}).Debug("stale reminder skipped")
			continue
		}
		s.Fire(t, now)
		fired = append(fired, t)
	}
	s.Refresh(now)
	return fired
}

// SweepMissed marks every missed reminder reminded and reports the ones it
// marked in one alert. A task changed since the snapshot keeps its new
// reminder.
func (s *Scheduler) SweepMissed(now time.Time) []Entry {
	missed := MissedSet(s.src.Tasks(), now)
	if len(missed) == 0 {
		return nil
	}

	marks := make(map[string]time.Time, len(missed))
	for _, m := range missed {
		marks[m.TaskID] = m.RemindAt
	}
	marked := s.src.MarkReminded(marks)
	missed = slices.DeleteFunc(missed, func(m Entry) bool { return !slices.Contains(marked, m.TaskID) })
	if len(missed) == 0 {
		return nil
	}

	if s.alerter != nil {
		s.alerter.Alert(MissedMessage(missed))
	}
	utils.WithFields(logrus.Fields{"count": len(missed)}).Info("reported missed reminders")
	return missed
}

// Fire dispatches the reminder for t to the notification sink, when
// permitted, and to the banner unconditionally.
func (s *Scheduler) Fire(t tasks.Task, now time.Time) {
	msg := Message(t, now)

	s.mu.Lock()
	permitted := s.permitted
	s.mu.Unlock()

	if permitted && s.sink != nil {
		s.sink.Notify(NotificationTitle, msg)
	}
	s.banner.Show(msg)

	utils.WithFields(logrus.Fields{"task": t.ID, "remindAt": t.RemindAt, "notified": permitted}).Info(msg)
	if s.onFire != nil {
		s.onFire(t)
	}
}

// Permitted reports whether the notification sink may be used.
func (s *Scheduler) Permitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permitted
}

// RequestPermission asks the sink in the background; the answer only flips
// the notification gate.
func (s *Scheduler) RequestPermission(ctx context.Context) <-chan bool {
	result := make(chan bool, 1)
	if s.sink == nil {
		result <- false
		return result
	}
	go func() {
		granted := s.sink.RequestPermission(ctx)
		s.mu.Lock()
		s.permitted = granted
		s.mu.Unlock()
		utils.Log("Notification permission granted: %v", granted)
		result <- granted
	}()
	return result
}

// Start runs an immediate poll and then one every interval until ctx ends or
// Stop is called. A running loop is stopped first, so at most one loop is
// active.
func (s *Scheduler) Start(ctx context.Context) {
	s.Stop()

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	s.Poll(s.clock.Now())

	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				s.Poll(s.clock.Now())
			}
		}
	}()
}

// Stop cancels the poll loop and waits for it to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
