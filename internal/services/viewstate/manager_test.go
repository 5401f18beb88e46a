package viewstate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/killallgit/audionote/internal/database"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/notes"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func setupManager(t *testing.T, opts ...Option) (*Manager, notes.Repository) {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	repo := notes.NewRepository(db.DB)
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	m := NewManager(repo, opts...)
	t.Cleanup(m.Close)
	return m, repo
}

func recordedNote(title string) *models.Note {
	n := models.NewNote(now, 3)
	n.Title = title
	n.AudioLength = 5
	return &n
}

func TestUIStateFollowsCollection(t *testing.T) {
	m, _ := setupManager(t)
	assert.Equal(t, Loading, m.UIState())

	m.Start()
	require.Eventually(t, func() bool { return m.UIState() == Empty }, time.Second, time.Millisecond)

	note := recordedNote("first")
	require.NoError(t, <-m.InsertNote(note))
	assert.NotZero(t, note.ID)
	require.Eventually(t, func() bool { return m.UIState() == HasData }, time.Second, time.Millisecond)
	assert.Len(t, m.Notes(), 1)

	require.NoError(t, <-m.DeleteNote(*note))
	require.Eventually(t, func() bool { return m.UIState() == Empty }, time.Second, time.Millisecond)
}

func TestOpenNoteReminderStates(t *testing.T) {
	tests := []struct {
		name       string
		reminder   *time.Time
		wantAvail  ReminderAvailability
		wantStatus ReminderCompletion
	}{
		{name: "no reminder", wantAvail: NoReminder, wantStatus: Ongoing},
		{name: "future reminder", reminder: ptr(now.Add(time.Minute)), wantAvail: HasReminder, wantStatus: Ongoing},
		{name: "past reminder", reminder: ptr(now.Add(-time.Minute)), wantAvail: HasReminder, wantStatus: Completed},
		{name: "reminder exactly now", reminder: ptr(now), wantAvail: HasReminder, wantStatus: Completed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := setupManager(t)
			note := *recordedNote("n")
			if tt.reminder != nil {
				note.SetReminder(*tt.reminder)
			}
			m.OpenNote(note)
			assert.Equal(t, tt.wantAvail, m.ReminderAvailability())
			assert.Equal(t, tt.wantStatus, m.ReminderCompletion())
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }

func TestSetAndClearReminder(t *testing.T) {
	m, _ := setupManager(t)

	var mu sync.Mutex
	var seen []Snapshot
	stop := m.OnChange(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s)
	})

	m.SetReminder(now.Add(time.Hour))
	assert.Equal(t, HasReminder, m.ReminderAvailability())
	assert.Equal(t, Ongoing, m.ReminderCompletion())

	m.SetReminder(now.Add(-time.Hour))
	assert.Equal(t, Completed, m.ReminderCompletion())

	m.ClearReminder()
	assert.Equal(t, NoReminder, m.ReminderAvailability())
	assert.Equal(t, Ongoing, m.ReminderCompletion())

	stop()
	m.SetReminder(now.Add(time.Hour))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	assert.Equal(t, NoReminder, seen[2].Reminder)
}

func TestDeleteRemovesRecording(t *testing.T) {
	m, repo := setupManager(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "1700000000000.3gp")
	require.NoError(t, os.WriteFile(path, []byte("audio"), 0o644))

	note := recordedNote("with audio")
	note.FilePath = path
	require.NoError(t, <-m.InsertNote(note))

	require.NoError(t, <-m.DeleteNote(*note))
	_, err := repo.GetByID(ctx, note.ID)
	assert.True(t, notes.IsNotFound(err))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteToleratesMissingFile(t *testing.T) {
	m, _ := setupManager(t)
	note := recordedNote("gone")
	note.FilePath = filepath.Join(t.TempDir(), "never-written.3gp")
	require.NoError(t, <-m.InsertNote(note))
	assert.NoError(t, <-m.DeleteNote(*note))
}

func TestDeleteLeavesFilesOutsideRecordingsDir(t *testing.T) {
	dir := t.TempDir()
	m, repo := setupManager(t, WithRecordingsDir(dir))
	ctx := context.Background()

	secret := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(secret, []byte("keep"), 0o600))
	inside := filepath.Join(dir, "1700000000000.3gp")
	require.NoError(t, os.WriteFile(inside, []byte("audio"), 0o644))

	tests := []struct {
		name    string
		path    string
		removed bool
	}{
		{name: "outside", path: secret},
		{name: "dot dot", path: filepath.Join(dir, "..", filepath.Base(filepath.Dir(secret)), "keep.txt")},
		{name: "inside", path: inside, removed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			note := recordedNote(tt.name)
			note.FilePath = tt.path
			require.NoError(t, <-m.InsertNote(note))

			require.NoError(t, <-m.DeleteNote(*note))
			_, err := repo.GetByID(ctx, note.ID)
			assert.True(t, notes.IsNotFound(err))

			_, err = os.Stat(tt.path)
			if tt.removed {
				assert.True(t, os.IsNotExist(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFailuresReachErrorHandler(t *testing.T) {
	var mu sync.Mutex
	var messages []string
	m, _ := setupManager(t,
		WithErrorHandler(func(msg string) {
			mu.Lock()
			defer mu.Unlock()
			messages = append(messages, msg)
		}),
		WithFileRemover(func(string) error { return errors.New("read-only file system") }),
	)

	err := <-m.UpdateNote(models.Note{ID: 404, Title: "missing"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotFound))

	note := recordedNote("locked file")
	note.FilePath = "/recordings/locked.3gp"
	require.NoError(t, <-m.InsertNote(note))
	err = <-m.DeleteNote(*note)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeStorage))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"File not found", "Could not save changes"}, messages)
}

func TestResultChannelMayBeIgnored(t *testing.T) {
	m, repo := setupManager(t)
	m.UpdateNote(models.Note{ID: 1})
	note := recordedNote("fire and forget")
	m.InsertNote(note)
	m.Close()

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1, "close waits for background operations")

	err = <-m.InsertNote(recordedNote("late"))
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidState))
}

func TestObserveNoteDelegates(t *testing.T) {
	m, _ := setupManager(t)
	note := recordedNote("watched")
	require.NoError(t, <-m.InsertNote(note))

	got := make(chan *models.Note, 4)
	stop := m.ObserveNote(note.ID, func(n *models.Note) { got <- n })
	defer stop()

	select {
	case n := <-got:
		require.NotNil(t, n)
		assert.Equal(t, "watched", n.Title)
	case <-time.After(time.Second):
		t.Fatal("no initial delivery")
	}
}

func TestOperationsRacingClose(t *testing.T) {
	m, _ := setupManager(t)

	var wg sync.WaitGroup
	results := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- <-m.InsertNote(recordedNote("racing"))
		}()
	}
	m.Close()
	wg.Wait()
	close(results)

	for err := range results {
		if err != nil {
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidState))
		}
	}
}
