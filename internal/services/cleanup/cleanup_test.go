package cleanup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotes struct {
	notes []models.Note
	err   error
}

func (f *fakeNotes) GetAll(ctx context.Context) ([]models.Note, error) {
	return f.notes, f.err
}

type fakeJobs struct {
	calls []int
}

func (f *fakeJobs) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	f.calls = append(f.calls, retentionDays)
	return 3, nil
}

func writeFile(t *testing.T, path string, age time.Duration) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("amr"), 0o644))
	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestRunOnceRemovesOnlyOldOrphans(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "1000.3gp")
	orphan := filepath.Join(dir, "2000.3gp")
	fresh := filepath.Join(dir, "3000.3gp")
	other := filepath.Join(dir, "notes.txt")

	writeFile(t, kept, 48*time.Hour)
	writeFile(t, orphan, 48*time.Hour)
	writeFile(t, fresh, time.Minute)
	writeFile(t, other, 48*time.Hour)

	jobs := &fakeJobs{}
	svc := NewService(Config{
		RecordingsDir:    dir,
		MaxOrphanAge:     24 * time.Hour,
		JobRetentionDays: 7,
	}, &fakeNotes{notes: []models.Note{{ID: 1, FilePath: kept}}}, jobs)

	result, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{orphan}, result.RemovedFiles)
	assert.Equal(t, int64(3), result.PurgedJobs)
	assert.Equal(t, []int{7}, jobs.calls)

	for _, p := range []string{kept, fresh, other} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	_, err = os.Stat(orphan)
	assert.True(t, os.IsNotExist(err))
}

func TestRunOnceMissingDirectory(t *testing.T) {
	svc := NewService(Config{RecordingsDir: filepath.Join(t.TempDir(), "missing")}, &fakeNotes{}, nil)
	result, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.RemovedFiles)
}

func TestRunOnceKeepsFilesWhenNotesFail(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.3gp")
	writeFile(t, path, 72*time.Hour)

	svc := NewService(Config{RecordingsDir: dir, MaxOrphanAge: time.Hour}, &fakeNotes{err: errors.New("database is locked")}, nil)
	_, err := svc.RunOnce(context.Background())
	assert.Error(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestStartStop(t *testing.T) {
	dir := t.TempDir()
	orphan := filepath.Join(dir, "1.3gp")
	writeFile(t, orphan, 72*time.Hour)

	svc := NewService(Config{RecordingsDir: dir, MaxOrphanAge: time.Hour, Interval: time.Hour}, &fakeNotes{}, nil)
	svc.Start(context.Background())
	svc.Start(context.Background())

	require.Eventually(t, func() bool {
		_, err := os.Stat(orphan)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	svc.Stop()
	svc.Stop()
}
