package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/jobs"
	"github.com/killallgit/audionote/internal/services/notes"
	"github.com/sirupsen/logrus"
)

const (
	DefaultNotificationDelay    = 10 * time.Second
	DefaultNotificationWorkName = "audio-notes-notification"
)

// NoteStateUpdater clears the armed flag when an alarm fires
type NoteStateUpdater interface {
	SetStarted(ctx context.Context, id uint, started bool) error
}

// AlarmConfig controls how fired alarms are turned into notification jobs
type AlarmConfig struct {
	// Delay between the alarm firing and the notification being posted
	Delay time.Duration
	// WorkName is the unique key shared by every notification job
	WorkName string
	// Policy decides what happens to an earlier unposted notification
	Policy jobs.UniquePolicy
}

// AlarmProcessor handles reminder_alarm jobs
type AlarmProcessor struct {
	notes      NoteStateUpdater
	jobService jobs.Service
	cfg        AlarmConfig
}

// NewAlarmProcessor creates an alarm processor
func NewAlarmProcessor(noteState NoteStateUpdater, jobService jobs.Service, cfg AlarmConfig) *AlarmProcessor {
	if cfg.Delay < 0 {
		cfg.Delay = DefaultNotificationDelay
	}
	if cfg.WorkName == "" {
		cfg.WorkName = DefaultNotificationWorkName
	}
	if cfg.Policy == "" {
		cfg.Policy = jobs.PolicyReplace
	}
	return &AlarmProcessor{notes: noteState, jobService: jobService, cfg: cfg}
}

func (p *AlarmProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeReminderAlarm
}

// ProcessJob disarms the note and schedules its notification. Under the
// replace policy every notification shares one work name, so an alarm that
// fires inside the delay window drops the previous note's notification.
func (p *AlarmProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	note, err := models.NoteFromPayload(job.Payload)
	if err != nil {
		return models.NewPayloadError("invalid_payload", "Invalid alarm payload", err.Error(), err)
	}

	log := logrus.WithFields(logrus.Fields{"job_id": job.ID, "note_id": note.ID})
	log.Debug("Reminder alarm fired")

	if err := p.notes.SetStarted(ctx, note.ID, false); err != nil {
		if errors.Is(err, notes.ErrNoteNotFound) {
			return models.NewNotFoundError("note_not_found",
				fmt.Sprintf("Note %d no longer exists", note.ID),
				"The note was deleted after its reminder was scheduled", err)
		}
		return models.NewSystemError("note_update_failed", "Failed to disarm note", err.Error(), err)
	}
	note.Started = false

	payload, err := note.ToPayload()
	if err != nil {
		return models.NewPayloadError("invalid_payload", "Failed to encode notification payload", err.Error(), err)
	}

	notification, err := p.jobService.EnqueueUniqueJob(ctx, models.JobTypeNoteNotification, payload,
		p.cfg.WorkName, p.cfg.Policy,
		jobs.WithDelay(p.cfg.Delay),
		jobs.WithMaxRetries(1),
		jobs.WithCreatedBy("alarm"),
	)
	if err != nil {
		return models.NewSystemError("enqueue_failed", "Failed to schedule notification", err.Error(), err)
	}

	log.WithFields(logrus.Fields{
		"notification_job": notification.ID,
		"run_at":           notification.RunAt,
	}).Info("Notification scheduled")
	return nil
}
