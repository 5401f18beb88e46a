package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// JobStatus represents the status of a job in the queue
type JobStatus string

const (
	JobStatusPending           JobStatus = "pending"
	JobStatusProcessing        JobStatus = "processing"
	JobStatusCompleted         JobStatus = "completed"
	JobStatusFailed            JobStatus = "failed"
	JobStatusPermanentlyFailed JobStatus = "permanently_failed"
	JobStatusCancelled         JobStatus = "cancelled"
)

// JobType represents the type of job to be processed
type JobType string

const (
	// JobTypeReminderAlarm fires at the reminder time of a note
	JobTypeReminderAlarm JobType = "reminder_alarm"
	// JobTypeNoteNotification posts the notification for a note
	JobTypeNoteNotification JobType = "note_notification"
)

// JobErrorType represents the category of error that occurred
type JobErrorType string

const (
	ErrorTypePayload  JobErrorType = "payload"  // Payload could not be decoded
	ErrorTypeDelivery JobErrorType = "delivery" // Notification poster failed
	ErrorTypeSystem   JobErrorType = "system"   // Database, worker, or other system error
	ErrorTypeNotFound JobErrorType = "not_found"
)

// StructuredJobError represents a structured error with classification information
type StructuredJobError struct {
	Type     JobErrorType
	Code     string
	Message  string
	Details  string
	Original error
}

func (e *StructuredJobError) Error() string {
	return e.Message
}

func (e *StructuredJobError) Unwrap() error {
	return e.Original
}

// Permanent reports whether retrying cannot succeed
func (e *StructuredJobError) Permanent() bool {
	return e.Type == ErrorTypePayload || e.Type == ErrorTypeNotFound
}

// NewPayloadError creates an error for a job whose payload cannot be used
func NewPayloadError(code, message, details string, originalErr error) *StructuredJobError {
	return &StructuredJobError{Type: ErrorTypePayload, Code: code, Message: message, Details: details, Original: originalErr}
}

// NewDeliveryError creates an error for a failed notification post
func NewDeliveryError(code, message, details string, originalErr error) *StructuredJobError {
	return &StructuredJobError{Type: ErrorTypeDelivery, Code: code, Message: message, Details: details, Original: originalErr}
}

// NewSystemError creates a system-related structured error
func NewSystemError(code, message, details string, originalErr error) *StructuredJobError {
	return &StructuredJobError{Type: ErrorTypeSystem, Code: code, Message: message, Details: details, Original: originalErr}
}

// NewNotFoundError creates a not-found error that should result in permanent failure
func NewNotFoundError(code, message, details string, originalErr error) *StructuredJobError {
	return &StructuredJobError{Type: ErrorTypeNotFound, Code: code, Message: message, Details: details, Original: originalErr}
}

// Job represents a deferred job in the queue
type Job struct {
	gorm.Model
	Type         JobType    `json:"type" gorm:"not null;index:idx_jobs_type_status"`
	Status       JobStatus  `json:"status" gorm:"default:'pending';index:idx_jobs_type_status;index:idx_jobs_status_run_at"`
	Payload      JobPayload `json:"payload" gorm:"type:json"`
	Priority     int        `json:"priority" gorm:"default:0"`
	MaxRetries   int        `json:"max_retries" gorm:"default:3"`
	RetryCount   int        `json:"retry_count" gorm:"default:0"`
	RunAt        time.Time  `json:"run_at" gorm:"not null;index:idx_jobs_status_run_at"`
	UniqueKey    string     `json:"unique_key,omitempty" gorm:"index"`
	StartedAt    *time.Time `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	LastFailedAt *time.Time `json:"last_failed_at"`
	Error        string     `json:"error,omitempty"`
	WorkerID     string     `json:"worker_id,omitempty"`

	ErrorType    string `json:"error_type,omitempty"`
	ErrorCode    string `json:"error_code,omitempty"`
	ErrorDetails string `json:"error_details,omitempty"`

	CreatedBy string `json:"created_by,omitempty"`
}

// JobPayload represents the input data for a job
type JobPayload map[string]interface{}

// Value implements driver.Valuer interface for JobPayload
func (p JobPayload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for JobPayload
func (p *JobPayload) Scan(value interface{}) error {
	if value == nil {
		*p = make(JobPayload)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, p)
}

// IsRetryable returns true if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// IsDue reports whether the job may run at now
func (j *Job) IsDue(now time.Time) bool {
	return j.Status == JobStatusPending && !j.RunAt.After(now)
}

// IsTerminal returns true if the job is in a terminal state
func (j *Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted ||
		j.Status == JobStatusCancelled ||
		j.Status == JobStatusPermanentlyFailed ||
		(j.Status == JobStatusFailed && !j.IsRetryable())
}

// GetPayloadValue safely retrieves a value from the payload
func (j *Job) GetPayloadValue(key string) (interface{}, bool) {
	if j.Payload == nil {
		return nil, false
	}
	val, ok := j.Payload[key]
	return val, ok
}

// GetPayloadInt safely retrieves an int value from the payload
func (j *Job) GetPayloadInt(key string) (int, bool) {
	val, ok := j.GetPayloadValue(key)
	if !ok {
		return 0, false
	}

	// JSON numbers are decoded as float64
	switch v := val.(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// SetErrorDetails sets error classification information
func (j *Job) SetErrorDetails(errorType JobErrorType, errorCode, errorMsg, errorDetails string) {
	j.ErrorType = string(errorType)
	j.ErrorCode = errorCode
	j.Error = errorMsg
	j.ErrorDetails = errorDetails
}

// TableName specifies the table name for GORM
func (Job) TableName() string {
	return "jobs"
}
