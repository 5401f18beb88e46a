package types

import "github.com/killallgit/audionote/internal/models"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`  // One of the Status constants above
	Message string `json:"message"` // Human-readable message
}

// Note is the API view of a note
type Note struct {
	ID                   uint   `json:"id"`
	Title                string `json:"title"`
	Description          string `json:"description"`
	Color                int    `json:"color"`
	LastModificationDate int64  `json:"last_modification_date"`
	Size                 string `json:"size"`
	AudioLength          int64  `json:"audio_length"`
	Duration             string `json:"duration"`
	FilePath             string `json:"file_path"`
	Started              bool   `json:"started"`
	Reminder             *int64 `json:"reminder,omitempty"`
	ReminderState        string `json:"reminder_state"`
}

// NotesResponse for note lists
type NotesResponse struct {
	BaseResponse
	Notes []Note `json:"notes"`
	Count int    `json:"count"`
}

// SingleNoteResponse for a single note
type SingleNoteResponse struct {
	BaseResponse
	Note *Note `json:"note"`
}

// MetadataResponse for recording metadata
type MetadataResponse struct {
	BaseResponse
	Format   string  `json:"format"`
	Duration float64 `json:"duration"` // Seconds
	Bitrate  int     `json:"bitrate"`
	Size     int64   `json:"size"`
	Codec    string  `json:"codec"`
}

// NotificationsResponse for posted notifications
type NotificationsResponse struct {
	BaseResponse
	Notifications []models.Notification `json:"notifications"`
	Count         int                   `json:"count"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}
