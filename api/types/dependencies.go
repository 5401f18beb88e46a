package types

import (
	"context"
	"time"

	"github.com/killallgit/audionote/internal/database"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/auth"
	"github.com/killallgit/audionote/internal/services/jobs"
	"github.com/killallgit/audionote/internal/services/notes"
	"github.com/killallgit/audionote/internal/services/notifications"
	"github.com/killallgit/audionote/internal/services/recording"
	"github.com/killallgit/audionote/internal/services/workers"
	"github.com/killallgit/audionote/pkg/ffmpeg"
)

// ReminderScheduler arms and disarms note alarms
type ReminderScheduler interface {
	Schedule(ctx context.Context, note models.Note, fireAt time.Time) error
	Cancel(ctx context.Context, noteID uint) error
}

// MetadataProber reads container metadata from a recording
type MetadataProber interface {
	Probe(ctx context.Context, path string) (*ffmpeg.AudioMetadata, error)
}

// TokenValidator checks API bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB            *database.DB
	NoteService   notes.Service
	Reminders     ReminderScheduler
	Tray          *notifications.Tray
	JobService    jobs.Service
	WorkerPool    *workers.WorkerPool
	Metadata      MetadataProber
	RecordingsDir string         // the only directory whose files the API reads or deletes
	Auth          TokenValidator // nil leaves the API open
	Build         BuildInfo
	Now           func() time.Time
}

// Clock returns the configured time source
func (d *Dependencies) Clock() time.Time {
	if d == nil || d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// RecordingPath resolves a note's file path, rejecting anything outside
// RecordingsDir
func (d *Dependencies) RecordingPath(path string) (string, error) {
	return recording.ResolvePath(d.RecordingsDir, path)
}

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"commit" yaml:"commit"`
	BuildTime string `json:"build_time" yaml:"build_time"`
}
