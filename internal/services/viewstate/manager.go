package viewstate

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/notes"
	"github.com/killallgit/audionote/internal/services/recording"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// FileRemover deletes a recording from disk
type FileRemover func(path string) error

// ErrorHandler receives a short message suitable for a transient notice
type ErrorHandler func(message string)

// Manager holds the screen state derived from the notes repository and
// runs note mutations off the caller's goroutine
type Manager struct {
	repo       notes.Repository
	removeFile FileRemover
	onError    ErrorHandler
	now        func() time.Time
	dir        string

	mu          sync.Mutex
	ui          UIState
	notes       []models.Note
	reminder    ReminderAvailability
	completion  ReminderCompletion
	listeners   map[int]func(Snapshot)
	nextID      int
	unsubscribe notes.Unsubscribe
	closed      bool

	ops conc.WaitGroup
}

// Option configures a Manager
type Option func(*Manager)

func WithFileRemover(fn FileRemover) Option {
	return func(m *Manager) { m.removeFile = fn }
}

// WithRecordingsDir limits file removal to recordings inside dir
func WithRecordingsDir(dir string) Option {
	return func(m *Manager) { m.dir = dir }
}

func WithErrorHandler(fn ErrorHandler) Option {
	return func(m *Manager) { m.onError = fn }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager in the loading state
func NewManager(repo notes.Repository, opts ...Option) *Manager {
	m := &Manager{
		repo:       repo,
		removeFile: removeIfExists,
		onError:    func(string) {},
		now:        time.Now,
		listeners:  make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Start subscribes to the live note collection
func (m *Manager) Start() {
	m.mu.Lock()
	if m.unsubscribe != nil || m.closed {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	unsubscribe := m.repo.Subscribe(m.receive)

	m.mu.Lock()
	m.unsubscribe = unsubscribe
	m.mu.Unlock()
}

// Close unsubscribes and waits for running operations
func (m *Manager) Close() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.closed = true
	m.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	m.ops.Wait()
}

func (m *Manager) receive(all []models.Note) {
	m.mu.Lock()
	m.notes = all
	if len(all) == 0 {
		m.ui = Empty
	} else {
		m.ui = HasData
	}
	m.mu.Unlock()
	m.notify()
}

// Snapshot returns a copy of the current state
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		UI:         m.ui,
		Notes:      append([]models.Note(nil), m.notes...),
		Reminder:   m.reminder,
		Completion: m.completion,
	}
}

func (m *Manager) UIState() UIState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ui
}

func (m *Manager) Notes() []models.Note {
	return m.Snapshot().Notes
}

func (m *Manager) ReminderAvailability() ReminderAvailability {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reminder
}

func (m *Manager) ReminderCompletion() ReminderCompletion {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completion
}

// OpenNote evaluates the reminder states of note once
func (m *Manager) OpenNote(note models.Note) {
	m.mu.Lock()
	if note.HasReminder() {
		m.setReminderLocked(note.ReminderTime())
	} else {
		m.reminder = NoReminder
		m.completion = Ongoing
	}
	m.mu.Unlock()
	m.notify()
}

// SetReminder marks the open note as having a reminder at ts
func (m *Manager) SetReminder(ts time.Time) {
	m.mu.Lock()
	m.setReminderLocked(ts)
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) setReminderLocked(ts time.Time) {
	m.reminder = HasReminder
	if !m.now().Before(ts) {
		m.completion = Completed
	} else {
		m.completion = Ongoing
	}
}

// ClearReminder marks the open note as having no reminder
func (m *Manager) ClearReminder() {
	m.mu.Lock()
	m.reminder = NoReminder
	m.completion = Ongoing
	m.mu.Unlock()
	m.notify()
}

// InsertNote stores note in the background. The id is written to note
// before the returned channel delivers.
func (m *Manager) InsertNote(note *models.Note) <-chan error {
	return m.run("insert", func(ctx context.Context) error {
		_, err := m.repo.Insert(ctx, note)
		return err
	})
}

// UpdateNote writes note in the background
func (m *Manager) UpdateNote(note models.Note) <-chan error {
	return m.run("update", func(ctx context.Context) error {
		return m.repo.Update(ctx, &note)
	})
}

// DeleteNote removes the note and then its recording in the background
func (m *Manager) DeleteNote(note models.Note) <-chan error {
	return m.run("delete", func(ctx context.Context) error {
		if err := m.repo.Delete(ctx, &note); err != nil {
			return err
		}
		if note.FilePath == "" {
			return nil
		}
		path := note.FilePath
		if m.dir != "" {
			resolved, err := recording.ResolvePath(m.dir, path)
			if err != nil {
				logrus.WithError(err).WithField("note_id", note.ID).Warn("Recording outside the recordings directory left in place")
				return nil
			}
			path = resolved
		}
		if err := m.removeFile(path); err != nil {
			return apperrors.Storage("delete recording", err)
		}
		return nil
	})
}

// ObserveNote delivers note id now and after every change
func (m *Manager) ObserveNote(id uint, fn func(*models.Note)) notes.Unsubscribe {
	return m.repo.ObserveNote(id, fn)
}

// OnChange registers fn to run after every state change
func (m *Manager) OnChange(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.Lock()
	snap := m.snapshotLocked()
	listeners := make([]func(Snapshot), 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (m *Manager) run(op string, fn func(ctx context.Context) error) <-chan error {
	result := make(chan error, 1)

	// Go runs under the lock so Close cannot start waiting in between
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		result <- apperrors.InvalidState("notes manager", "closed")
		close(result)
		return result
	}

	m.ops.Go(func() {
		err := fn(context.Background())
		if err != nil {
			logrus.WithError(err).WithField("op", op).Warn("Note operation failed")
			m.onError(apperrors.UserMessage(err))
		}
		result <- err
		close(result)
	})
	return result
}
