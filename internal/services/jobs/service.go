package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	DefaultMaxRetries = 3
	DefaultPriority   = 0
	DefaultRetryDelay = 5 * time.Second
)

type service struct {
	repo       Repository
	now        func() time.Time
	retryDelay time.Duration
}

func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:       repo,
		now:        time.Now,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clock returns the current time in UTC so stored timestamps compare as text in SQLite
func (s *service) clock() time.Time {
	return s.now().UTC()
}

func (s *service) buildJob(jobType models.JobType, payload models.JobPayload, opts []JobOption) *models.Job {
	cfg := &jobConfig{
		Priority:   DefaultPriority,
		MaxRetries: DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	now := s.clock()
	runAt := now
	if !cfg.RunAt.IsZero() {
		runAt = cfg.RunAt.UTC()
	}
	if cfg.Delay > 0 {
		runAt = runAt.Add(cfg.Delay)
	}

	return &models.Job{
		Type:       jobType,
		Status:     models.JobStatusPending,
		Payload:    payload,
		Priority:   cfg.Priority,
		MaxRetries: cfg.MaxRetries,
		CreatedBy:  cfg.CreatedBy,
		RunAt:      runAt,
	}
}

func (s *service) EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...JobOption) (*models.Job, error) {
	job := s.buildJob(jobType, payload, opts)

	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"job_id": job.ID,
		"type":   jobType,
		"run_at": job.RunAt,
	}).Debug("Enqueued job")

	return job, nil
}

func (s *service) EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string, policy UniquePolicy, opts ...JobOption) (*models.Job, error) {
	if uniqueKey == "" {
		return nil, ErrUniqueKeyEmpty
	}

	job := s.buildJob(jobType, payload, opts)
	job.UniqueKey = uniqueKey

	result, created, err := s.repo.CreateUniqueJob(ctx, job, policy, s.clock())
	if err != nil {
		if errors.Is(err, ErrUnknownPolicy) {
			return nil, err
		}
		return nil, fmt.Errorf("creating unique job: %w", err)
	}

	entry := logrus.WithFields(logrus.Fields{
		"job_id":     result.ID,
		"type":       jobType,
		"unique_key": uniqueKey,
		"policy":     policy,
		"run_at":     result.RunAt,
	})
	if created {
		entry.Debug("Enqueued unique job")
	} else {
		entry.WithField("status", result.Status).Debug("Kept existing unique job")
	}

	return result, nil
}

func (s *service) CancelUniqueJobs(ctx context.Context, uniqueKey string) (int64, error) {
	if uniqueKey == "" {
		return 0, ErrUniqueKeyEmpty
	}

	n, err := s.repo.CancelByUniqueKey(ctx, uniqueKey, s.clock())
	if err != nil {
		return 0, fmt.Errorf("cancelling unique jobs: %w", err)
	}

	if n > 0 {
		logrus.WithFields(logrus.Fields{"unique_key": uniqueKey, "cancelled": n}).Debug("Cancelled jobs")
	}
	return n, nil
}

func (s *service) GetJob(ctx context.Context, jobID uint) (*models.Job, error) {
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	return job, nil
}

func (s *service) GetJobStatus(ctx context.Context, jobID uint) (models.JobStatus, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

func (s *service) ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, error) {
	return s.repo.ListJobs(ctx, filter)
}

func (s *service) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error) {
	job, err := s.repo.ClaimNextJob(ctx, workerID, jobTypes, s.clock())
	if err != nil {
		if errors.Is(err, ErrNoJobsAvailable) {
			return nil, err
		}
		return nil, fmt.Errorf("claiming job: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"worker": workerID,
		"job_id": job.ID,
		"type":   job.Type,
	}).Debug("Claimed job")

	return job, nil
}

func (s *service) CompleteJob(ctx context.Context, jobID uint) error {
	if err := s.repo.CompleteJob(ctx, jobID, s.clock()); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("completing job: %w", err)
	}

	logrus.WithField("job_id", jobID).Debug("Job completed")

	return nil
}

// FailJob records a failed attempt. Structured errors keep their
// classification and permanent ones are never retried.
func (s *service) FailJob(ctx context.Context, jobID uint, err error) error {
	now := s.clock()
	failure := Failure{
		Type:    models.ErrorTypeSystem,
		Message: err.Error(),
		At:      now,
	}

	var structured *models.StructuredJobError
	if errors.As(err, &structured) {
		failure.Type = structured.Type
		failure.Code = structured.Code
		failure.Message = structured.Message
		failure.Details = structured.Details
		failure.Permanent = structured.Permanent()
	}

	current, getErr := s.repo.GetJob(ctx, jobID)
	if getErr == nil {
		// exponential backoff: retryDelay * 2^retryCount
		failure.RetryAt = now.Add(s.retryDelay * time.Duration(1<<uint(current.RetryCount)))
	}

	job, failErr := s.repo.FailJobWithDetails(ctx, jobID, failure)
	if failErr != nil {
		if errors.Is(failErr, ErrJobNotFound) {
			return failErr
		}
		return fmt.Errorf("failing job: %w", failErr)
	}

	entry := logrus.WithFields(logrus.Fields{
		"job_id":     jobID,
		"type":       job.Type,
		"error_type": failure.Type,
		"error_code": failure.Code,
	})
	if job.IsRetryable() {
		entry.WithField("retry", fmt.Sprintf("%d/%d", job.RetryCount, job.MaxRetries)).
			Warnf("Job failed, will retry: %s", failure.Message)
	} else {
		entry.Errorf("Job failed permanently: %s", failure.Message)
	}

	return nil
}

func (s *service) ReleaseJob(ctx context.Context, jobID uint) error {
	if err := s.repo.ReleaseJob(ctx, jobID); err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return err
		}
		return fmt.Errorf("releasing job: %w", err)
	}

	logrus.WithField("job_id", jobID).Debug("Job released back to pending")

	return nil
}

func (s *service) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive")
	}

	cutoffTime := s.clock().AddDate(0, 0, -retentionDays)

	deleted, err := s.repo.DeleteOldJobs(ctx, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("cleaning up old jobs: %w", err)
	}

	if deleted > 0 {
		logrus.WithFields(logrus.Fields{"deleted": deleted, "retention_days": retentionDays}).Info("Deleted old jobs")
	}

	return deleted, nil
}
