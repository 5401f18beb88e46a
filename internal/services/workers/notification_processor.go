package workers

import (
	"context"
	"fmt"

	"github.com/killallgit/audionote/internal/models"
	"github.com/sirupsen/logrus"
)

// NotePresenter posts the user-visible notification for a note
type NotePresenter interface {
	Present(ctx context.Context, note models.Note) error
}

// NotificationProcessor handles note_notification jobs
type NotificationProcessor struct {
	presenter NotePresenter
}

// NewNotificationProcessor creates a notification processor
func NewNotificationProcessor(presenter NotePresenter) *NotificationProcessor {
	return &NotificationProcessor{presenter: presenter}
}

func (p *NotificationProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypeNoteNotification
}

func (p *NotificationProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	note, err := models.NoteFromPayload(job.Payload)
	if err != nil {
		return models.NewPayloadError("invalid_payload", "Invalid notification payload", err.Error(), err)
	}

	if err := p.presenter.Present(ctx, note); err != nil {
		return models.NewDeliveryError("post_failed", "Failed to post notification", err.Error(), err)
	}

	logrus.WithFields(logrus.Fields{"job_id": job.ID, "note_id": note.ID}).Info("Notification posted")
	return nil
}
