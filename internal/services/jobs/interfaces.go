package jobs

import (
	"context"
	"time"

	"github.com/killallgit/audionote/internal/models"
)

// Service defines the business logic interface for job operations
type Service interface {
	// Enqueue operations
	EnqueueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, opts ...JobOption) (*models.Job, error)
	EnqueueUniqueJob(ctx context.Context, jobType models.JobType, payload models.JobPayload, uniqueKey string, policy UniquePolicy, opts ...JobOption) (*models.Job, error)

	// CancelUniqueJobs cancels every job under uniqueKey that has not started.
	// Cancelling a key with nothing pending is not an error.
	CancelUniqueJobs(ctx context.Context, uniqueKey string) (int64, error)

	// Status and retrieval
	GetJob(ctx context.Context, jobID uint) (*models.Job, error)
	GetJobStatus(ctx context.Context, jobID uint) (models.JobStatus, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, error)

	// Worker operations (used by worker pool)
	ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType) (*models.Job, error)
	CompleteJob(ctx context.Context, jobID uint) error
	FailJob(ctx context.Context, jobID uint, err error) error
	ReleaseJob(ctx context.Context, jobID uint) error

	// Maintenance
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// UniquePolicy decides what happens when a job is enqueued under a key
// that already has unfinished work
type UniquePolicy string

const (
	// PolicyReplace cancels the pending job and enqueues the new one
	PolicyReplace UniquePolicy = "replace"
	// PolicyKeep leaves the existing job and drops the new one
	PolicyKeep UniquePolicy = "keep"
	// PolicyAppend enqueues the new job next to the existing ones
	PolicyAppend UniquePolicy = "append"
)

// ParsePolicy converts a configuration value to a UniquePolicy
func ParsePolicy(s string) (UniquePolicy, error) {
	switch p := UniquePolicy(s); p {
	case PolicyReplace, PolicyKeep, PolicyAppend:
		return p, nil
	default:
		return "", ErrUnknownPolicy
	}
}

// ListFilter narrows ListJobs results
type ListFilter struct {
	Type      models.JobType
	Status    models.JobStatus
	UniqueKey string
	Limit     int
}

// JobOption is a functional option for configuring jobs
type JobOption func(*jobConfig)

// jobConfig holds configuration for a job
type jobConfig struct {
	Priority   int
	MaxRetries int
	CreatedBy  string
	RunAt      time.Time
	Delay      time.Duration
}

// WithPriority sets the priority of a job (higher = more priority)
func WithPriority(priority int) JobOption {
	return func(cfg *jobConfig) {
		cfg.Priority = priority
	}
}

// WithMaxRetries sets the maximum number of attempts for a job
func WithMaxRetries(retries int) JobOption {
	return func(cfg *jobConfig) {
		cfg.MaxRetries = retries
	}
}

// WithCreatedBy sets who created the job
func WithCreatedBy(createdBy string) JobOption {
	return func(cfg *jobConfig) {
		cfg.CreatedBy = createdBy
	}
}

// WithRunAt sets the earliest time the job may run
func WithRunAt(t time.Time) JobOption {
	return func(cfg *jobConfig) {
		cfg.RunAt = t
	}
}

// WithDelay makes the job runnable after d has elapsed from enqueue time
func WithDelay(d time.Duration) JobOption {
	return func(cfg *jobConfig) {
		cfg.Delay = d
	}
}

// ServiceOption configures the job service
type ServiceOption func(*service)

// WithClock replaces the time source used for scheduling and claiming
func WithClock(now func() time.Time) ServiceOption {
	return func(s *service) {
		s.now = now
	}
}

// WithRetryDelay sets the base delay before a failed job is retried
func WithRetryDelay(d time.Duration) ServiceOption {
	return func(s *service) {
		s.retryDelay = d
	}
}
