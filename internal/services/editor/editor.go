package editor

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/notes"
	"github.com/killallgit/audionote/internal/services/playback"
	"github.com/killallgit/audionote/internal/services/recording"
	"github.com/killallgit/audionote/internal/services/reminders"
	"github.com/killallgit/audionote/internal/services/viewstate"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/killallgit/audionote/pkg/ffmpeg"
	"github.com/sirupsen/logrus"
)

// ReminderScheduler arms and disarms reminder alarms
type ReminderScheduler interface {
	Schedule(ctx context.Context, note models.Note, fireAt time.Time) error
	Cancel(ctx context.Context, noteID uint) error
}

// Permissions answers whether the microphone may be used
type Permissions interface {
	Check(ctx context.Context) (bool, error)
	Request(ctx context.Context) (bool, error)
}

// Deps are the collaborators of an Editor
type Deps struct {
	Manager       *viewstate.Manager
	Reminders     ReminderScheduler
	Permissions   Permissions
	Capturer      recording.Capturer
	Player        playback.Player
	RecordingsDir string
	Format        ffmpeg.CaptureFormat
}

// Editor is the note edit screen without a user interface: it owns the
// transient copy of one note and merges it back on save
type Editor struct {
	deps         Deps
	now          func() time.Time
	seed         func() int64
	tickInterval time.Duration
	onTimer      func(string)
	onFinished   func()

	mu       sync.Mutex
	note     models.Note
	isNew    bool
	picked   *time.Time
	recorder *recording.Session
	player   *playback.Session

	timerMu   sync.Mutex
	timerText string
}

// Option configures an Editor
type Option func(*Editor)

func WithClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

// WithSeed sets the source of color seeds for new notes
func WithSeed(seed func() int64) Option {
	return func(e *Editor) { e.seed = seed }
}

func WithTickInterval(d time.Duration) Option {
	return func(e *Editor) { e.tickInterval = d }
}

// WithTimerHandler receives every recording and playback tick
func WithTimerHandler(fn func(string)) Option {
	return func(e *Editor) { e.onTimer = fn }
}

// WithPlaybackFinished is called when playback runs to the end
func WithPlaybackFinished(fn func()) Option {
	return func(e *Editor) { e.onFinished = fn }
}

// New creates an editor. Call NewNote or Open before using it.
func New(deps Deps, opts ...Option) *Editor {
	e := &Editor{
		deps:         deps,
		now:          time.Now,
		tickInterval: time.Second,
		onTimer:      func(string) {},
		onFinished:   func() {},
	}
	e.seed = func() int64 { return e.now().UnixNano() }
	for _, opt := range opts {
		opt(e)
	}

	format := deps.Format
	if format == (ffmpeg.CaptureFormat{}) {
		format = ffmpeg.DefaultCaptureFormat()
	}
	e.recorder = recording.NewSession(deps.Capturer,
		recording.WithDirectory(deps.RecordingsDir),
		recording.WithFormat(format),
		recording.WithClock(e.now),
		recording.WithTickInterval(e.tickInterval),
		recording.WithTickHandler(e.setTimer),
	)
	e.player = playback.NewSession(deps.Player,
		playback.WithClock(e.now),
		playback.WithTickInterval(e.tickInterval),
		playback.WithTickHandler(e.setTimer),
		playback.WithFinishHandler(func() { e.onFinished() }),
	)
	return e
}

func (e *Editor) setTimer(text string) {
	e.timerMu.Lock()
	e.timerText = text
	e.timerMu.Unlock()
	e.onTimer(text)
}

// TimerText returns the last recording or playback tick
func (e *Editor) TimerText() string {
	e.timerMu.Lock()
	defer e.timerMu.Unlock()
	return e.timerText
}

// NewNote starts editing a fresh unsaved note
func (e *Editor) NewNote() models.Note {
	e.mu.Lock()
	e.note = models.NewNote(e.now(), e.seed())
	e.isNew = true
	e.picked = nil
	note := e.note
	e.mu.Unlock()

	e.deps.Manager.OpenNote(note)
	e.setTimer(recording.FormatElapsed(0))
	return note
}

// Open starts editing a stored note
func (e *Editor) Open(note models.Note) {
	e.mu.Lock()
	e.note = note
	e.isNew = note.ID == 0
	e.picked = nil
	e.mu.Unlock()

	e.deps.Manager.OpenNote(note)
	e.setTimer(recording.FormatClock(note.Duration()))
}

// Note returns a copy of the note being edited
func (e *Editor) Note() models.Note {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.note
}

func (e *Editor) IsNew() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isNew
}

func (e *Editor) SetTitle(title string) {
	e.mu.Lock()
	e.note.Title = title
	e.mu.Unlock()
}

func (e *Editor) SetDescription(description string) {
	e.mu.Lock()
	e.note.Description = description
	e.mu.Unlock()
}

func (e *Editor) IsRecording() bool {
	return e.recorder.State() == recording.StateRecording
}

func (e *Editor) PlaybackState() playback.State {
	return e.player.State()
}

// RequestPermission asks for microphone access
func (e *Editor) RequestPermission(ctx context.Context) (bool, error) {
	return e.deps.Permissions.Request(ctx)
}

// ToggleRecording starts or stops recording
func (e *Editor) ToggleRecording(ctx context.Context) error {
	if e.IsRecording() {
		return e.StopRecording()
	}
	return e.StartRecording(ctx)
}

// StartRecording records audio for a new note
func (e *Editor) StartRecording(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isNew {
		return apperrors.InvalidState("editor", "recording is only available for new notes")
	}

	granted, err := e.deps.Permissions.Check(ctx)
	if err != nil {
		return apperrors.Storage("read permission", err)
	}
	if !granted {
		return apperrors.PermissionDenied()
	}

	path, err := e.recorder.Start(ctx)
	if err != nil {
		return err
	}
	e.note.FilePath = path
	return nil
}

// StopRecording ends recording and writes the result into the note
func (e *Editor) StopRecording() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stopRecordingLocked()
}

// stopRecordingLocked applies the result only when the recording is usable.
// A failed stop leaves the note without audio so it cannot be saved.
func (e *Editor) stopRecordingLocked() error {
	result, err := e.recorder.Stop()
	if err != nil {
		e.note.AudioLength = 0
		e.note.FilePath = ""
		e.note.Size = ""
		return err
	}
	result.Apply(&e.note)
	return nil
}

// TogglePlayback plays, pauses or resumes the recording of a stored note
func (e *Editor) TogglePlayback(ctx context.Context) (playback.State, error) {
	e.mu.Lock()
	note := e.note
	isNew := e.isNew
	e.mu.Unlock()

	if isNew {
		return playback.StateStopped, apperrors.InvalidState("editor", "save the note before playing it")
	}
	return e.player.Toggle(ctx, note.FilePath, note.Duration())
}

// StopPlayback ends playback if it is running
func (e *Editor) StopPlayback() error {
	return e.player.Stop()
}

// PickReminder sets the reminder time, moving times that already passed
// to the next day, and returns the time that will be used
func (e *Editor) PickReminder(t time.Time) time.Time {
	fireAt := reminders.NextFireTime(t, e.now())

	e.mu.Lock()
	e.picked = &fireAt
	e.note.SetReminder(fireAt)
	e.mu.Unlock()

	e.deps.Manager.SetReminder(fireAt)
	return fireAt
}

// ClearReminder cancels the alarm and removes the reminder from the note
func (e *Editor) ClearReminder(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.note.ID != 0 {
		if err := e.deps.Reminders.Cancel(ctx, e.note.ID); err != nil {
			return err
		}
	}
	e.note.ClearReminder()
	e.picked = nil
	e.deps.Manager.ClearReminder()
	return nil
}

// Save validates and stores the note, then arms a picked reminder
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	title := strings.TrimSpace(e.note.Title)
	if title == "" {
		return apperrors.TitleRequired()
	}

	if e.isNew && e.recorder.State() == recording.StateRecording {
		if err := e.stopRecordingLocked(); err != nil {
			return err
		}
	}

	note := e.note
	note.Title = title
	note.Description = strings.TrimSpace(note.Description)
	if err := notes.Validate(&note, e.isNew); err != nil {
		return err
	}
	note.LastModificationDate = e.now().UnixMilli()

	// A picked reminder is only written once its alarm is armed
	stored := note
	if e.picked != nil {
		stored.ClearReminder()
	}
	if e.isNew {
		if err := <-e.deps.Manager.InsertNote(&stored); err != nil {
			return err
		}
	} else {
		if err := <-e.deps.Manager.UpdateNote(stored); err != nil {
			return err
		}
	}
	note.ID = stored.ID
	e.isNew = false

	if e.picked == nil {
		e.note = note
		return nil
	}
	// the draft keeps the picked reminder so saving again retries it
	e.note = note
	if err := e.deps.Reminders.Schedule(ctx, note, *e.picked); err != nil {
		e.disarm(ctx, note.ID)
		return reminderNotSet(err)
	}
	note.Started = true
	if err := <-e.deps.Manager.UpdateNote(note); err != nil {
		e.disarm(ctx, note.ID)
		return reminderNotSet(err)
	}
	e.note = note
	e.picked = nil
	return nil
}

func reminderNotSet(cause error) error {
	return apperrors.Wrap(cause, apperrors.ErrCodeInternal, "Note saved, but the reminder could not be set")
}

// disarm drops any alarm left for a note whose stored copy has no reminder
func (e *Editor) disarm(ctx context.Context, noteID uint) {
	if err := e.deps.Reminders.Cancel(ctx, noteID); err != nil {
		logrus.WithError(err).WithField("note_id", noteID).Warn("Failed to cancel reminder alarm")
	}
}

// Delete cancels the reminder and removes the note with its recording
func (e *Editor) Delete(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.isNew || e.note.ID == 0 {
		return apperrors.InvalidState("editor", "note has not been saved")
	}
	if err := e.player.Stop(); err != nil {
		return err
	}
	if err := e.deps.Reminders.Cancel(ctx, e.note.ID); err != nil {
		return err
	}
	return <-e.deps.Manager.DeleteNote(e.note)
}

// SharePath returns the recording file to hand to another application
func (e *Editor) SharePath() (string, error) {
	e.mu.Lock()
	path := e.note.FilePath
	e.mu.Unlock()

	if path == "" {
		return "", apperrors.NotFound("audio file", "")
	}
	if _, err := os.Stat(path); err != nil {
		return "", apperrors.NotFound("audio file", path)
	}
	return path, nil
}

// Close releases recording and playback resources
func (e *Editor) Close() error {
	recErr := e.recorder.Close()
	playErr := e.player.Close()
	if recErr != nil {
		return recErr
	}
	return playErr
}
