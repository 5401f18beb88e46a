package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/jobs"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/sirupsen/logrus"
)

// AlarmKey is the unique job key of a note's reminder alarm
func AlarmKey(noteID uint) string {
	return fmt.Sprintf("reminder-alarm-%d", noteID)
}

// Scheduler arms and disarms one-shot reminder alarms in the job queue
type Scheduler struct {
	jobService jobs.Service
}

// NewScheduler creates a reminder scheduler
func NewScheduler(jobService jobs.Service) *Scheduler {
	return &Scheduler{jobService: jobService}
}

// Schedule arms an alarm for note at fireAt, replacing any pending alarm for
// the same note. The alarm carries the whole note.
func (s *Scheduler) Schedule(ctx context.Context, note models.Note, fireAt time.Time) error {
	if note.ID == 0 {
		return apperrors.InvalidInput("id", "note must be saved before a reminder can be set")
	}

	note.SetReminder(fireAt)
	note.Started = true
	payload, err := note.ToPayload()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "Failed to encode reminder")
	}

	job, err := s.jobService.EnqueueUniqueJob(ctx, models.JobTypeReminderAlarm, payload,
		AlarmKey(note.ID), jobs.PolicyReplace,
		jobs.WithRunAt(fireAt),
		jobs.WithCreatedBy("reminder"),
	)
	if err != nil {
		return apperrors.Storage("schedule reminder", err)
	}

	logrus.WithFields(logrus.Fields{
		"note_id": note.ID,
		"job_id":  job.ID,
		"fire_at": fireAt.UTC(),
	}).Info("Reminder scheduled")
	return nil
}

// Cancel disarms any pending alarm for the note. Cancelling a note without
// an alarm is not an error.
func (s *Scheduler) Cancel(ctx context.Context, noteID uint) error {
	n, err := s.jobService.CancelUniqueJobs(ctx, AlarmKey(noteID))
	if err != nil {
		return apperrors.Storage("cancel reminder", err)
	}
	if n > 0 {
		logrus.WithField("note_id", noteID).Info("Reminder cancelled")
	}
	return nil
}

// NextFireTime returns picked when it lies in the future, otherwise the same
// wall clock time on the following day.
func NextFireTime(picked, now time.Time) time.Time {
	if picked.After(now) {
		return picked
	}
	next := picked
	for !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
