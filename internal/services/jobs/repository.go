package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/killallgit/audionote/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for job persistence
type Repository interface {
	// Create operations
	CreateJob(ctx context.Context, job *models.Job) error
	CreateUniqueJob(ctx context.Context, job *models.Job, policy UniquePolicy, now time.Time) (*models.Job, bool, error)

	// Read operations
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, error)

	// Update operations
	ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType, now time.Time) (*models.Job, error)
	CompleteJob(ctx context.Context, jobID uint, now time.Time) error
	FailJobWithDetails(ctx context.Context, jobID uint, failure Failure) (*models.Job, error)
	ReleaseJob(ctx context.Context, jobID uint) error
	CancelByUniqueKey(ctx context.Context, uniqueKey string, now time.Time) (int64, error)

	// Delete operations
	DeleteOldJobs(ctx context.Context, olderThan time.Time) (int64, error)
}

// Failure describes a failed job attempt
type Failure struct {
	Type      models.JobErrorType
	Code      string
	Message   string
	Details   string
	Permanent bool
	At        time.Time
	RetryAt   time.Time
}

// cancellable are the statuses a job can be cancelled or replaced from
var cancellable = []models.JobStatus{models.JobStatusPending, models.JobStatusFailed}

// repository implements Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new job repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

// CreateJob creates a new job
func (r *repository) CreateJob(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// CreateUniqueJob applies policy against unfinished jobs sharing job.UniqueKey.
// The returned bool is false when an existing job was kept instead.
func (r *repository) CreateUniqueJob(ctx context.Context, job *models.Job, policy UniquePolicy, now time.Time) (*models.Job, bool, error) {
	result := job
	created := true

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch policy {
		case PolicyReplace:
			if _, err := cancelWhere(tx, job.UniqueKey, now); err != nil {
				return fmt.Errorf("replacing unique job: %w", err)
			}
		case PolicyKeep:
			var existing models.Job
			err := tx.Where("unique_key = ?", job.UniqueKey).
				Where("(status IN ? OR (status = ? AND retry_count < max_retries))",
					[]models.JobStatus{models.JobStatusPending, models.JobStatusProcessing},
					models.JobStatusFailed).
				Order("id ASC").
				First(&existing).Error
			if err == nil {
				result = &existing
				created = false
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("finding unique job: %w", err)
			}
		case PolicyAppend:
		default:
			return ErrUnknownPolicy
		}

		if err := tx.Create(job).Error; err != nil {
			return fmt.Errorf("creating unique job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// GetJob retrieves a job by ID
func (r *repository) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	err := r.db.WithContext(ctx).First(&job, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("getting job: %w", err)
	}
	return &job, nil
}

// ListJobs retrieves jobs matching filter, newest first
func (r *repository) ListJobs(ctx context.Context, filter ListFilter) ([]*models.Job, error) {
	var jobs []*models.Job
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")

	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.UniqueKey != "" {
		query = query.Where("unique_key = ?", filter.UniqueKey)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return jobs, nil
}

// ClaimNextJob atomically claims the next due job for a worker
func (r *repository) ClaimNextJob(ctx context.Context, workerID string, jobTypes []models.JobType, now time.Time) (*models.Job, error) {
	var job models.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("run_at <= ?", now).
			Where("(status = ? OR (status = ? AND retry_count < max_retries))",
				models.JobStatusPending, models.JobStatusFailed)

		if len(jobTypes) > 0 {
			query = query.Where("type IN ?", jobTypes)
		}

		err := query.Order("run_at ASC").Order("priority DESC").Order("id ASC").
			First(&job).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoJobsAvailable
			}
			return fmt.Errorf("finding job to claim: %w", err)
		}

		updates := map[string]interface{}{
			"status":     models.JobStatusProcessing,
			"worker_id":  workerID,
			"started_at": &now,
		}
		if err := tx.Model(&job).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating claimed job: %w", err)
		}

		job.Status = models.JobStatusProcessing
		job.WorkerID = workerID
		job.StartedAt = &now
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &job, nil
}

// CompleteJob marks a job as completed
func (r *repository) CompleteJob(ctx context.Context, jobID uint, now time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ?", jobID).
		Updates(map[string]interface{}{
			"status":       models.JobStatusCompleted,
			"completed_at": &now,
		})

	if res.Error != nil {
		return fmt.Errorf("completing job: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// FailJobWithDetails records a failed attempt and returns the updated job
func (r *repository) FailJobWithDetails(ctx context.Context, jobID uint, failure Failure) (*models.Job, error) {
	var job models.Job

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return fmt.Errorf("finding job to fail: %w", err)
		}

		newRetryCount := job.RetryCount + 1
		status := models.JobStatusFailed
		if failure.Permanent || newRetryCount >= job.MaxRetries {
			status = models.JobStatusPermanentlyFailed
		}

		updates := map[string]interface{}{
			"status":         status,
			"error":          failure.Message,
			"error_type":     string(failure.Type),
			"error_code":     failure.Code,
			"error_details":  failure.Details,
			"last_failed_at": &failure.At,
			"retry_count":    newRetryCount,
			"worker_id":      "",
		}
		if status == models.JobStatusPermanentlyFailed {
			updates["completed_at"] = &failure.At
		} else if !failure.RetryAt.IsZero() {
			updates["run_at"] = failure.RetryAt
		}

		if err := tx.Model(&job).Updates(updates).Error; err != nil {
			return fmt.Errorf("failing job: %w", err)
		}
		return tx.First(&job, jobID).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// ReleaseJob releases a job back to pending status (e.g., if worker crashes)
func (r *repository) ReleaseJob(ctx context.Context, jobID uint) error {
	updates := map[string]interface{}{
		"status":     models.JobStatusPending,
		"worker_id":  "",
		"started_at": nil,
	}

	result := r.db.WithContext(ctx).
		Model(&models.Job{}).
		Where("id = ? AND status = ?", jobID, models.JobStatusProcessing).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("releasing job: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrJobNotFound
	}

	return nil
}

// CancelByUniqueKey cancels jobs under uniqueKey that have not started
func (r *repository) CancelByUniqueKey(ctx context.Context, uniqueKey string, now time.Time) (int64, error) {
	n, err := cancelWhere(r.db.WithContext(ctx), uniqueKey, now)
	if err != nil {
		return 0, fmt.Errorf("cancelling jobs: %w", err)
	}
	return n, nil
}

func cancelWhere(tx *gorm.DB, uniqueKey string, now time.Time) (int64, error) {
	result := tx.Model(&models.Job{}).
		Where("unique_key = ?", uniqueKey).
		Where("status IN ?", cancellable).
		Updates(map[string]interface{}{
			"status":       models.JobStatusCancelled,
			"completed_at": &now,
		})
	return result.RowsAffected, result.Error
}

// DeleteOldJobs deletes finished jobs older than the specified time
func (r *repository) DeleteOldJobs(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("created_at < ?", olderThan).
		Where("status IN ?", []models.JobStatus{
			models.JobStatusCompleted,
			models.JobStatusPermanentlyFailed,
			models.JobStatusCancelled,
		}).
		Delete(&models.Job{})

	if result.Error != nil {
		return 0, fmt.Errorf("deleting old jobs: %w", result.Error)
	}

	return result.RowsAffected, nil
}
