package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/killallgit/audionote/internal/database"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/jobs"
	"github.com/killallgit/audionote/internal/services/notes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeNotes records SetStarted calls
type fakeNotes struct {
	mu      sync.Mutex
	started map[uint]bool
	missing map[uint]bool
	err     error
}

func (f *fakeNotes) SetStarted(ctx context.Context, id uint, started bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.missing[id] {
		return fmt.Errorf("note %d: %w", id, notes.ErrNoteNotFound)
	}
	if f.started == nil {
		f.started = make(map[uint]bool)
	}
	f.started[id] = started
	return nil
}

// fakePresenter records presented notes
type fakePresenter struct {
	mu     sync.Mutex
	posted []models.Note
	err    error
}

func (f *fakePresenter) Present(ctx context.Context, note models.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.posted = append(f.posted, note)
	return nil
}

func (f *fakePresenter) ids() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint, len(f.posted))
	for i, n := range f.posted {
		out[i] = n.ID
	}
	return out
}

type harness struct {
	jobs      jobs.Service
	clock     *testClock
	notes     *fakeNotes
	presenter *fakePresenter
	worker    *Worker
}

func newHarness(t *testing.T, policy jobs.UniquePolicy) *harness {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	h := &harness{
		clock:     &testClock{now: time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)},
		notes:     &fakeNotes{},
		presenter: &fakePresenter{},
	}
	h.jobs = jobs.NewService(jobs.NewRepository(db.DB), jobs.WithClock(h.clock.Now))
	h.worker = NewWorker("test-worker", h.jobs, time.Millisecond)
	h.worker.RegisterProcessor(NewAlarmProcessor(h.notes, h.jobs, AlarmConfig{
		Delay:    10 * time.Second,
		WorkName: DefaultNotificationWorkName,
		Policy:   policy,
	}))
	h.worker.RegisterProcessor(NewNotificationProcessor(h.presenter))
	return h
}

func (h *harness) scheduleAlarm(t *testing.T, id uint, at time.Time) {
	t.Helper()
	reminder := at.UnixMilli()
	note := models.Note{ID: id, Title: fmt.Sprintf("note %d", id), AudioLength: 5, Started: true, Reminder: &reminder}
	payload, err := note.ToPayload()
	require.NoError(t, err)
	_, err = h.jobs.EnqueueUniqueJob(context.Background(), models.JobTypeReminderAlarm, payload,
		fmt.Sprintf("reminder-alarm-%d", id), jobs.PolicyReplace, jobs.WithRunAt(at))
	require.NoError(t, err)
}

func TestProcessorsCanProcess(t *testing.T) {
	alarm := &AlarmProcessor{}
	assert.True(t, alarm.CanProcess(models.JobTypeReminderAlarm))
	assert.False(t, alarm.CanProcess(models.JobTypeNoteNotification))

	notification := &NotificationProcessor{}
	assert.True(t, notification.CanProcess(models.JobTypeNoteNotification))
	assert.False(t, notification.CanProcess(models.JobTypeReminderAlarm))
	assert.False(t, notification.CanProcess("unknown_type"))
}

func TestAlarmPostsNotificationAfterDelay(t *testing.T) {
	h := newHarness(t, jobs.PolicyReplace)
	ctx := context.Background()

	h.scheduleAlarm(t, 1, h.clock.Now().Add(time.Minute))

	n, err := h.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "alarm is not due yet")

	h.clock.Advance(time.Minute)
	n, err = h.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, h.notes.started[1], "alarm clears the armed flag")
	assert.Empty(t, h.presenter.ids(), "notification waits for the delay")

	h.clock.Advance(10 * time.Second)
	n, err = h.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Equal(t, []uint{1}, h.presenter.ids())
	assert.False(t, h.presenter.posted[0].Started)
	assert.Equal(t, "note 1", h.presenter.posted[0].Title)
}

func TestAlarmsWithinDelayWindow(t *testing.T) {
	tests := []struct {
		name   string
		policy jobs.UniquePolicy
		want   []uint
	}{
		{name: "replace posts only the later note", policy: jobs.PolicyReplace, want: []uint{2}},
		{name: "append posts both notes", policy: jobs.PolicyAppend, want: []uint{1, 2}},
		{name: "keep posts only the earlier note", policy: jobs.PolicyKeep, want: []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.policy)
			ctx := context.Background()
			start := h.clock.Now()

			h.scheduleAlarm(t, 1, start.Add(time.Minute))
			h.scheduleAlarm(t, 2, start.Add(time.Minute+2*time.Second))

			h.clock.Advance(time.Minute)
			_, err := h.worker.Drain(ctx)
			require.NoError(t, err)

			h.clock.Advance(2 * time.Second)
			_, err = h.worker.Drain(ctx)
			require.NoError(t, err)

			h.clock.Advance(time.Minute)
			_, err = h.worker.Drain(ctx)
			require.NoError(t, err)

			assert.Equal(t, tt.want, h.presenter.ids())
		})
	}
}

func TestAlarmForDeletedNoteFailsPermanently(t *testing.T) {
	h := newHarness(t, jobs.PolicyReplace)
	h.notes.missing = map[uint]bool{5: true}
	ctx := context.Background()

	h.scheduleAlarm(t, 5, h.clock.Now())
	_, err := h.worker.Drain(ctx)
	assert.Error(t, err)

	failed, err := h.jobs.ListJobs(ctx, jobs.ListFilter{Status: models.JobStatusPermanentlyFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, string(models.ErrorTypeNotFound), failed[0].ErrorType)

	h.clock.Advance(time.Minute)
	_, err = h.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Empty(t, h.presenter.ids())
}

func TestNotificationFailureIsNotRetried(t *testing.T) {
	h := newHarness(t, jobs.PolicyReplace)
	h.presenter.err = errors.New("notification service unavailable")
	ctx := context.Background()

	h.scheduleAlarm(t, 3, h.clock.Now())
	_, err := h.worker.Drain(ctx)
	require.NoError(t, err)

	h.clock.Advance(10 * time.Second)
	_, err = h.worker.Drain(ctx)
	assert.Error(t, err)

	h.presenter.err = nil
	h.clock.Advance(time.Hour)
	n, err := h.worker.Drain(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, h.presenter.ids())
}

func TestInvalidAlarmPayload(t *testing.T) {
	h := newHarness(t, jobs.PolicyReplace)
	ctx := context.Background()

	_, err := h.jobs.EnqueueJob(ctx, models.JobTypeReminderAlarm, models.JobPayload{"title": "no id"})
	require.NoError(t, err)

	processed, err := h.worker.ProcessNext(ctx)
	assert.True(t, processed)
	assert.Error(t, err)

	failed, err := h.jobs.ListJobs(ctx, jobs.ListFilter{Status: models.JobStatusPermanentlyFailed})
	require.NoError(t, err)
	assert.Len(t, failed, 1)
}

func TestWorkerWithoutProcessors(t *testing.T) {
	w := NewWorker("empty", nil, time.Second)
	_, err := w.ProcessNext(context.Background())
	assert.Error(t, err)
}

func TestWorkerPoolRunsJobs(t *testing.T) {
	h := newHarness(t, jobs.PolicyReplace)

	pool := NewWorkerPool(h.jobs, 2, 5*time.Millisecond)
	pool.RegisterProcessor(NewAlarmProcessor(h.notes, h.jobs, AlarmConfig{Delay: 0, Policy: jobs.PolicyReplace}))
	pool.RegisterProcessor(NewNotificationProcessor(h.presenter))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, pool.Start(ctx))
	assert.Error(t, pool.Start(ctx))
	defer pool.Stop()

	h.scheduleAlarm(t, 8, h.clock.Now())

	require.Eventually(t, func() bool {
		return len(h.presenter.ids()) == 1
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []uint{8}, h.presenter.ids())
}
