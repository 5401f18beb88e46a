package editor

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/killallgit/audionote/internal/database"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/jobs"
	"github.com/killallgit/audionote/internal/services/notes"
	"github.com/killallgit/audionote/internal/services/notifications"
	"github.com/killallgit/audionote/internal/services/playback"
	"github.com/killallgit/audionote/internal/services/recording"
	"github.com/killallgit/audionote/internal/services/reminders"
	"github.com/killallgit/audionote/internal/services/viewstate"
	"github.com/killallgit/audionote/internal/services/workers"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/killallgit/audionote/pkg/ffmpeg"
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

type fakeCapturer struct {
	path string
}

func (f *fakeCapturer) Prepare(ctx context.Context, path string, format ffmpeg.CaptureFormat) error {
	f.path = path
	return nil
}
func (f *fakeCapturer) Start() error { return nil }
func (f *fakeCapturer) Stop() error {
	return os.WriteFile(f.path, make([]byte, 8192), 0o644)
}
func (f *fakeCapturer) Release() error { return nil }

// silentCapturer never produces an output file
type silentCapturer struct{}

func (silentCapturer) Prepare(ctx context.Context, path string, format ffmpeg.CaptureFormat) error {
	return nil
}
func (silentCapturer) Start() error   { return nil }
func (silentCapturer) Stop() error    { return nil }
func (silentCapturer) Release() error { return nil }

type fakePlayer struct{}

func (fakePlayer) Prepare(ctx context.Context, path string) error { return nil }
func (fakePlayer) Start() error                                  { return nil }
func (fakePlayer) Pause() error                                  { return nil }
func (fakePlayer) Resume() error                                 { return nil }
func (fakePlayer) Stop() error                                   { return nil }
func (fakePlayer) Release() error                                { return nil }

type fakePermissions struct {
	granted bool
}

func (p *fakePermissions) Check(ctx context.Context) (bool, error) { return p.granted, nil }
func (p *fakePermissions) Request(ctx context.Context) (bool, error) {
	p.granted = true
	return true, nil
}

// failingInserts rejects every insert
type failingInserts struct {
	notes.Repository
}

func (failingInserts) Insert(ctx context.Context, note *models.Note) (uint, error) {
	return 0, apperrors.Storage("insert note", os.ErrPermission)
}

// failingScheduler refuses to arm alarms and records cancellations
type failingScheduler struct {
	mu        sync.Mutex
	cancelled []uint
}

func (s *failingScheduler) Schedule(ctx context.Context, note models.Note, fireAt time.Time) error {
	return apperrors.Storage("enqueue reminder alarm", os.ErrPermission)
}

func (s *failingScheduler) Cancel(ctx context.Context, noteID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelled = append(s.cancelled, noteID)
	return nil
}

type fixture struct {
	clock   *testClock
	repo    notes.Repository
	manager *viewstate.Manager
	jobs    jobs.Service
	worker  *workers.Worker
	tray    *notifications.Tray
	perms   *fakePermissions
	editor  *Editor
}

func newFixture(t *testing.T, wrap func(notes.Repository) notes.Repository) *fixture {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	f := &fixture{
		clock: &testClock{now: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)},
		perms: &fakePermissions{granted: true},
		tray:  notifications.NewTray(db.DB),
	}
	f.repo = notes.NewRepository(db.DB)
	managed := f.repo
	if wrap != nil {
		managed = wrap(f.repo)
	}
	f.manager = viewstate.NewManager(managed, viewstate.WithClock(f.clock.Now))
	t.Cleanup(f.manager.Close)

	f.jobs = jobs.NewService(jobs.NewRepository(db.DB), jobs.WithClock(f.clock.Now))
	f.worker = workers.NewWorker("editor-test", f.jobs, time.Millisecond)
	f.worker.RegisterProcessor(workers.NewAlarmProcessor(f.repo, f.jobs, workers.AlarmConfig{Delay: workers.DefaultNotificationDelay}))
	f.worker.RegisterProcessor(workers.NewNotificationProcessor(
		notifications.NewPresenter(notifications.NewStorePoster(db.DB), notifications.WithClock(f.clock.Now))))

	f.editor = f.newEditor(t, reminders.NewScheduler(f.jobs), &fakeCapturer{})
	return f
}

func (f *fixture) newEditor(t *testing.T, scheduler ReminderScheduler, capturer recording.Capturer) *Editor {
	t.Helper()
	ed := New(Deps{
		Manager:       f.manager,
		Reminders:     scheduler,
		Permissions:   f.perms,
		Capturer:      capturer,
		Player:        fakePlayer{},
		RecordingsDir: t.TempDir(),
	}, WithClock(f.clock.Now), WithSeed(func() int64 { return 7 }), WithTickInterval(time.Hour))
	t.Cleanup(func() { _ = ed.Close() })
	return ed
}

func (f *fixture) record(t *testing.T, d time.Duration) {
	t.Helper()
	require.NoError(t, f.editor.ToggleRecording(context.Background()))
	assert.True(t, f.editor.IsRecording())
	f.clock.Advance(d)
	require.NoError(t, f.editor.ToggleRecording(context.Background()))
	assert.False(t, f.editor.IsRecording())
}

func TestLectureScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	draft := f.editor.NewNote()
	assert.Equal(t, models.PickColor(7), draft.Color)
	assert.Equal(t, models.NoRecording, draft.AudioLength)

	f.editor.SetTitle("  Lecture 1 ")
	f.record(t, 5*time.Second)
	require.NoError(t, f.editor.Save(ctx))

	saved := f.editor.Note()
	assert.NotZero(t, saved.ID)
	assert.False(t, f.editor.IsNew())
	assert.Equal(t, "Lecture 1", saved.Title)
	assert.Equal(t, int64(5), saved.AudioLength)
	assert.NotEmpty(t, saved.FilePath)
	assert.Equal(t, "0.01", saved.Size)

	fireAt := f.editor.PickReminder(f.clock.Now().Add(60 * time.Second))
	assert.Equal(t, viewstate.HasReminder, f.manager.ReminderAvailability())
	assert.Equal(t, viewstate.Ongoing, f.manager.ReminderCompletion())
	require.NoError(t, f.editor.Save(ctx))

	stored, err := f.repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, stored.Started)
	require.NotNil(t, stored.Reminder)
	assert.Equal(t, fireAt.UnixMilli(), *stored.Reminder)

	f.clock.Advance(61 * time.Second)
	_, err = f.worker.Drain(ctx)
	require.NoError(t, err)
	f.clock.Advance(workers.DefaultNotificationDelay)
	_, err = f.worker.Drain(ctx)
	require.NoError(t, err)

	stored, err = f.repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	f.editor.Open(*stored)
	assert.Equal(t, viewstate.HasReminder, f.manager.ReminderAvailability())
	assert.Equal(t, viewstate.Completed, f.manager.ReminderCompletion())

	posted, err := f.tray.List(ctx)
	require.NoError(t, err)
	require.Len(t, posted, 1)
	assert.Equal(t, saved.ID, posted[0].NoteID)
}

func TestSaveValidation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.editor.NewNote()
	assert.True(t, apperrors.Is(f.editor.Save(ctx), apperrors.ErrCodeTitleRequired))

	f.editor.SetTitle("no audio")
	assert.True(t, apperrors.Is(f.editor.Save(ctx), apperrors.ErrCodeRecordingRequired))

	f.record(t, 500*time.Millisecond)
	assert.Equal(t, int64(0), f.editor.Note().AudioLength)
	assert.True(t, apperrors.Is(f.editor.Save(ctx), apperrors.ErrCodeRecordingRequired))

	all, err := f.repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "rejected saves persist nothing")
}

func TestSaveStopsRunningRecording(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewNote()
	f.editor.SetTitle("still recording")

	require.NoError(t, f.editor.StartRecording(context.Background()))
	f.clock.Advance(3 * time.Second)
	require.NoError(t, f.editor.Save(context.Background()))

	assert.False(t, f.editor.IsRecording())
	assert.Equal(t, int64(3), f.editor.Note().AudioLength)
}

func TestRecordingNeedsPermission(t *testing.T) {
	f := newFixture(t, nil)
	f.perms.granted = false
	f.editor.NewNote()

	err := f.editor.ToggleRecording(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodePermissionDenied))
	assert.False(t, f.editor.IsRecording())

	granted, err := f.editor.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
	require.NoError(t, f.editor.ToggleRecording(context.Background()))
	assert.True(t, f.editor.IsRecording())
}

func TestStorageFailureKeepsDraft(t *testing.T) {
	f := newFixture(t, func(r notes.Repository) notes.Repository { return failingInserts{r} })
	f.editor.NewNote()
	f.editor.SetTitle("doomed")
	f.record(t, 2*time.Second)

	err := f.editor.Save(context.Background())
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorage))
	assert.True(t, f.editor.IsNew())
	assert.Zero(t, f.editor.Note().ID)
	assert.Equal(t, int64(2), f.editor.Note().AudioLength)
}

func TestEditExistingNote(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.editor.NewNote()
	f.editor.SetTitle("draft")
	f.record(t, 4*time.Second)
	require.NoError(t, f.editor.Save(ctx))
	id := f.editor.Note().ID

	assert.True(t, apperrors.Is(f.editor.StartRecording(ctx), apperrors.ErrCodeInvalidState),
		"stored notes are played, not re-recorded")

	f.clock.Advance(time.Minute)
	f.editor.SetTitle("final")
	f.editor.SetDescription("  with notes  ")
	require.NoError(t, f.editor.Save(ctx))

	stored, err := f.repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "final", stored.Title)
	assert.Equal(t, "with notes", stored.Description)
	assert.Equal(t, f.clock.Now().UnixMilli(), stored.LastModificationDate)

	f.editor.SetTitle("   ")
	assert.True(t, apperrors.Is(f.editor.Save(ctx), apperrors.ErrCodeTitleRequired))
}

func TestPlaybackToggle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.editor.NewNote()
	_, err := f.editor.TogglePlayback(ctx)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidState))

	f.editor.SetTitle("song")
	f.record(t, 90*time.Second)
	require.NoError(t, f.editor.Save(ctx))

	state, err := f.editor.TogglePlayback(ctx)
	require.NoError(t, err)
	assert.Equal(t, playback.StatePlaying, state)
	assert.Equal(t, "00:01:30", f.editor.TimerText())

	state, err = f.editor.TogglePlayback(ctx)
	require.NoError(t, err)
	assert.Equal(t, playback.StatePaused, state)
}

func TestClearReminderCancelsAlarm(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.editor.NewNote()
	f.editor.SetTitle("call")
	f.record(t, 2*time.Second)
	f.editor.PickReminder(f.clock.Now().Add(time.Hour))
	require.NoError(t, f.editor.Save(ctx))
	id := f.editor.Note().ID

	require.NoError(t, f.editor.ClearReminder(ctx))
	assert.Nil(t, f.editor.Note().Reminder)
	assert.Equal(t, viewstate.NoReminder, f.manager.ReminderAvailability())
	require.NoError(t, f.editor.Save(ctx))

	pending, err := f.jobs.ListJobs(ctx, jobs.ListFilter{UniqueKey: reminders.AlarmKey(id), Status: models.JobStatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	stored, err := f.repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stored.Reminder)
	assert.False(t, stored.Started)
}

func TestPickReminderRollsPastTimes(t *testing.T) {
	f := newFixture(t, nil)
	f.editor.NewNote()
	got := f.editor.PickReminder(f.clock.Now().Add(-time.Hour))
	assert.Equal(t, f.clock.Now().Add(23*time.Hour), got)
}

func TestDeleteAndShare(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.editor.NewNote()
	_, err := f.editor.SharePath()
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))
	assert.True(t, apperrors.Is(f.editor.Delete(ctx), apperrors.ErrCodeInvalidState))

	f.editor.SetTitle("temporary")
	f.record(t, 3*time.Second)
	f.editor.PickReminder(f.clock.Now().Add(time.Hour))
	require.NoError(t, f.editor.Save(ctx))
	note := f.editor.Note()

	path, err := f.editor.SharePath()
	require.NoError(t, err)
	assert.Equal(t, note.FilePath, path)

	require.NoError(t, f.editor.Delete(ctx))

	_, err = f.repo.GetByID(ctx, note.ID)
	assert.True(t, notes.IsNotFound(err))
	_, err = os.Stat(note.FilePath)
	assert.True(t, os.IsNotExist(err))

	pending, err := f.jobs.ListJobs(ctx, jobs.ListFilter{UniqueKey: reminders.AlarmKey(note.ID), Status: models.JobStatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestFailedStopLeavesNoteWithoutRecording(t *testing.T) {
	f := newFixture(t, nil)
	f.editor = f.newEditor(t, reminders.NewScheduler(f.jobs), silentCapturer{})
	ctx := context.Background()

	f.editor.NewNote()
	f.editor.SetTitle("lost audio")
	require.NoError(t, f.editor.StartRecording(ctx))
	f.clock.Advance(5 * time.Second)

	err := f.editor.StopRecording()
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorage))
	draft := f.editor.Note()
	assert.Equal(t, int64(0), draft.AudioLength)
	assert.Empty(t, draft.FilePath)
	assert.Empty(t, draft.Size)

	assert.True(t, apperrors.Is(f.editor.Save(ctx), apperrors.ErrCodeRecordingRequired))
	all, err := f.repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReminderFailureStoresNoteWithoutReminder(t *testing.T) {
	f := newFixture(t, nil)
	scheduler := &failingScheduler{}
	f.editor = f.newEditor(t, scheduler, &fakeCapturer{})
	ctx := context.Background()

	f.editor.NewNote()
	f.editor.SetTitle("dentist")
	f.record(t, 2*time.Second)
	fireAt := f.editor.PickReminder(f.clock.Now().Add(time.Hour))

	err := f.editor.Save(ctx)
	require.Error(t, err)
	assert.Equal(t, "Note saved, but the reminder could not be set", apperrors.UserMessage(err))

	draft := f.editor.Note()
	require.NotZero(t, draft.ID)
	assert.False(t, f.editor.IsNew())
	require.NotNil(t, draft.Reminder, "the picked reminder stays in the editor for another try")
	assert.Equal(t, fireAt.UnixMilli(), *draft.Reminder)

	stored, err := f.repo.GetByID(ctx, draft.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Reminder)
	assert.False(t, stored.Started)
	assert.Equal(t, []uint{draft.ID}, scheduler.cancelled)
}
