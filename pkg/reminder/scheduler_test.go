package reminder

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/pkg/database"
	"kanban/pkg/tasks"
	"kanban/pkg/utils"
)

type recordingSink struct {
	mu      sync.Mutex
	granted bool
	bodies  []string
}

func (s *recordingSink) RequestPermission(context.Context) bool { return s.granted }

func (s *recordingSink) Notify(title, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies = append(s.bodies, body)
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bodies)
}

type recordingAlerter struct {
	messages []string
}

func (a *recordingAlerter) Alert(message string) { a.messages = append(a.messages, message) }

type fixture struct {
	store   *tasks.Store
	clock   *utils.FakeClock
	sink    *recordingSink
	alerter *recordingAlerter
	sched   *Scheduler
}

func newFixture(t *testing.T, granted bool) *fixture {
	t.Helper()
	clock := utils.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local))
	store := tasks.NewStore(database.NewMemoryStore(), clock)
	f := &fixture{
		store:   store,
		clock:   clock,
		sink:    &recordingSink{granted: granted},
		alerter: &recordingAlerter{},
	}
	f.sched = New(store, Options{
		Interval: 10 * time.Millisecond,
		Sink:     f.sink,
		Banner:   NewBanner(time.Minute),
		Alerter:  f.alerter,
		Clock:    clock,
	})
	if granted {
		<-f.sched.RequestPermission(context.Background())
	}
	return f
}

func (f *fixture) create(t *testing.T, title, due string, rt tasks.ReminderType) tasks.Task {
	t.Helper()
	task, _, err := f.store.Create(tasks.Draft{Title: title, DueDate: due, ReminderType: rt})
	require.NoError(t, err)
	return task
}

func TestActiveSet_Filters(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	got := ActiveSet([]tasks.Task{
		{ID: "future", Status: tasks.StatusTodo, RemindAt: &future},
		{ID: "past", Status: tasks.StatusTodo, RemindAt: &past},
		{ID: "done", Status: tasks.StatusDone, RemindAt: &future},
		{ID: "none", Status: tasks.StatusTodo},
		{ID: "exactly-now", Status: tasks.StatusInProgress, RemindAt: &now},
	}, now)

	require.Len(t, got, 1)
	assert.Equal(t, "future", got[0].TaskID)
}

func TestPoll_FiresOnceWithinInterval(t *testing.T) {
	f := newFixture(t, true)
	task := f.create(t, "pay rent", "2024-06-10", tasks.ReminderOneDayBefore18)
	f.sched.Refresh(f.clock.Now())
	require.Len(t, f.sched.Active(), 1)

	fireTime := task.RemindAt.Add(DefaultPollInterval / 2)
	fired := f.sched.Poll(fireTime)
	require.Len(t, fired, 1)
	assert.Equal(t, task.ID, fired[0].ID)
	assert.Equal(t, []string{"pay rent is due soon"}, f.sink.bodies)

	got, _ := f.store.Get(task.ID)
	assert.True(t, got.Reminded)
	assert.Empty(t, f.sched.Active())

	// same state, next cycle: nothing new
	assert.Empty(t, f.sched.Poll(fireTime.Add(DefaultPollInterval)))
	assert.Equal(t, 1, f.sink.count())
}

func TestPoll_NotYetDue(t *testing.T) {
	f := newFixture(t, true)
	task := f.create(t, "a", "2024-06-10", tasks.ReminderSameDay09)
	f.sched.Refresh(f.clock.Now())

	assert.Empty(t, f.sched.Poll(task.RemindAt.Add(-time.Second)))
	assert.Len(t, f.sched.Active(), 1)
}

func TestPoll_StaleTimeNeverFires(t *testing.T) {
	f := newFixture(t, true)
	task := f.create(t, "a", "2024-06-03", tasks.ReminderSameDay09)
	t1 := *task.RemindAt
	f.sched.Refresh(f.clock.Now())

	// edited between ticks, before the scheduler refreshed
	updated, _, err := f.store.Update(task.ID, tasks.Draft{Title: "a", DueDate: "2024-06-05", ReminderType: tasks.ReminderSameDay09})
	require.NoError(t, err)
	t2 := *updated.RemindAt

	assert.Empty(t, f.sched.Poll(t1.Add(time.Second)))
	assert.Zero(t, f.sink.count())

	fired := f.sched.Poll(t2.Add(time.Second))
	require.Len(t, fired, 1)
	assert.True(t, fired[0].RemindAt.Equal(t2))
}

func TestPoll_DeletedTaskStaysSilent(t *testing.T) {
	f := newFixture(t, true)
	task := f.create(t, "a", "2024-06-03", tasks.ReminderSameDay09)
	f.sched.Refresh(f.clock.Now())

	f.store.Delete(task.ID)

	assert.Empty(t, f.sched.Poll(task.RemindAt.Add(time.Second)))
	assert.Zero(t, f.sink.count())
	_, visible := f.sched.Banner().Current()
	assert.False(t, visible)
}

func TestRefresh_DoneSuppresses(t *testing.T) {
	f := newFixture(t, true)
	task := f.create(t, "a", "2024-06-03", tasks.ReminderSameDay18)
	f.sched.Refresh(f.clock.Now())
	require.Len(t, f.sched.Active(), 1)

	_, _, err := f.store.Move(task.ID, tasks.StatusDone)
	require.NoError(t, err)

	assert.Empty(t, f.sched.Refresh(f.clock.Now()))
	assert.Empty(t, f.sched.Poll(task.RemindAt.Add(time.Second)))
}

func TestFire_WithoutPermissionUsesBannerOnly(t *testing.T) {
	f := newFixture(t, false)
	task := f.create(t, "a", "2024-06-03", tasks.ReminderSameDay09)
	f.sched.Refresh(f.clock.Now())

	fired := f.sched.Poll(task.RemindAt.Add(time.Second))
	require.Len(t, fired, 1)

	assert.Zero(t, f.sink.count())
	text, visible := f.sched.Banner().Current()
	assert.True(t, visible)
	assert.Equal(t, "a is overdue", text)
}

func TestFire_OnFireCallback(t *testing.T) {
	f := newFixture(t, false)
	var got []string
	f.sched.onFire = func(fired tasks.Task) { got = append(got, fired.ID) }

	task := f.create(t, "a", "2024-06-03", tasks.ReminderSameDay09)
	f.sched.Refresh(f.clock.Now())
	f.sched.Poll(task.RemindAt.Add(time.Second))

	assert.Equal(t, []string{task.ID}, got)
}

func TestMessage(t *testing.T) {
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local)
	assert.Equal(t, "x is overdue", Message(tasks.Task{Title: "x", DueDate: "2024-06-02"}, now))
	assert.Equal(t, "x is overdue", Message(tasks.Task{Title: "x", DueDate: "2024-06-03"}, now))
	assert.Equal(t, "x is due soon", Message(tasks.Task{Title: "x", DueDate: "2024-06-04"}, now))
	assert.Equal(t, "x is due soon", Message(tasks.Task{Title: "x"}, now))
}

func TestSweepMissed_BatchesOneAlert(t *testing.T) {
	f := newFixture(t, true)
	a := f.create(t, "alpha", "2024-06-03", tasks.ReminderSameDay09)
	b := f.create(t, "beta", "2024-06-04", tasks.ReminderSameDay18)
	acked := f.create(t, "gamma", "2024-06-04", tasks.ReminderSameDay09)
	done := f.create(t, "delta", "2024-06-04", tasks.ReminderSameDay09)
	f.create(t, "later", "2024-06-20", tasks.ReminderSameDay09)

	f.store.MarkReminded(map[string]time.Time{acked.ID: *acked.RemindAt})
	_, _, err := f.store.Move(done.ID, tasks.StatusDone)
	require.NoError(t, err)

	now := time.Date(2024, 6, 10, 8, 0, 0, 0, time.Local)
	missed := f.sched.SweepMissed(now)

	require.Len(t, missed, 2)
	assert.Equal(t, a.ID, missed[0].TaskID)
	assert.Equal(t, b.ID, missed[1].TaskID)
	require.Len(t, f.alerter.messages, 1)
	assert.Contains(t, f.alerter.messages[0], "You missed 2 reminder(s)")
	assert.Contains(t, f.alerter.messages[0], `"alpha"`)
	assert.Contains(t, f.alerter.messages[0], `"beta"`)
	assert.Zero(t, f.sink.count(), "missed reminders are not sent one by one")

	for _, id := range []string{a.ID, b.ID} {
		got, _ := f.store.Get(id)
		assert.True(t, got.Reminded)
	}

	assert.Empty(t, f.sched.SweepMissed(now))
	assert.Len(t, f.alerter.messages, 1)
}

func TestStart_PollsOnTicker(t *testing.T) {
	f := newFixture(t, true)
	task := f.create(t, "a", "2024-06-03", tasks.ReminderSameDay09)
	f.sched.Refresh(f.clock.Now())

	f.sched.Start(context.Background())
	defer f.sched.Stop()
	assert.Zero(t, f.sink.count())

	f.clock.Set(task.RemindAt.Add(time.Second))
	assert.Eventually(t, func() bool { return f.sink.count() == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, f.sink.count())
}

func TestStart_ReplacesRunningLoop(t *testing.T) {
	f := newFixture(t, false)

	f.sched.Start(context.Background())
	f.sched.mu.Lock()
	firstDone := f.sched.done
	f.sched.mu.Unlock()

	f.sched.Start(context.Background())
	select {
	case <-firstDone:
	default:
		t.Fatal("first poll loop still running after restart")
	}

	f.sched.Stop()
	f.sched.mu.Lock()
	assert.Nil(t, f.sched.cancel)
	f.sched.mu.Unlock()
	f.sched.Stop()
}

func TestRequestPermission_NilSink(t *testing.T) {
	s := New(tasks.NewStore(database.NewMemoryStore(), nil), Options{})
	assert.False(t, <-s.RequestPermission(context.Background()))
	assert.False(t, s.Permitted())
}

func TestBellSink(t *testing.T) {
	var buf bytes.Buffer
	s := &BellSink{W: &buf}
	assert.True(t, s.RequestPermission(context.Background()))
	s.Notify(NotificationTitle, "a is due soon")
	assert.Equal(t, "\aTask reminder: a is due soon\n", buf.String())
}

// editingSource reschedules a task between the sweep's read and its write.
type editingSource struct {
	*tasks.Store
	edit func()
}

func (s *editingSource) MarkReminded(marks map[string]time.Time) []string {
	s.edit()
	return s.Store.MarkReminded(marks)
}

func TestSweepMissed_KeepsReminderRescheduledMeanwhile(t *testing.T) {
	f := newFixture(t, true)
	task := f.create(t, "rent", "2024-06-03", tasks.ReminderSameDay09)

	src := &editingSource{Store: f.store, edit: func() {
		_, _, err := f.store.Update(task.ID, tasks.Draft{Title: "rent", DueDate: "2024-06-10", ReminderType: tasks.ReminderSameDay09})
		require.NoError(t, err)
	}}
	sched := New(src, Options{Sink: f.sink, Banner: NewBanner(time.Minute), Alerter: f.alerter, Clock: f.clock})
	<-sched.RequestPermission(context.Background())

	now := time.Date(2024, 6, 5, 8, 0, 0, 0, time.Local)
	assert.Empty(t, sched.SweepMissed(now))
	assert.Empty(t, f.alerter.messages)

	got, _ := f.store.Get(task.ID)
	assert.False(t, got.Reminded)
	require.NotNil(t, got.RemindAt)

	sched.Refresh(now)
	fired := sched.Poll(got.RemindAt.Add(time.Second))
	require.Len(t, fired, 1)
	assert.Equal(t, task.ID, fired[0].ID)
}

func TestRefresh_ConcurrentRefreshesKeepNewestSet(t *testing.T) {
	f := newFixture(t, false)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := f.store.Create(tasks.Draft{Title: "task", DueDate: "2024-06-20", ReminderType: tasks.ReminderSameDay09})
			assert.NoError(t, err)
			f.sched.Refresh(f.clock.Now())
		}()
	}
	wg.Wait()

	assert.Len(t, f.sched.Active(), n)
}
