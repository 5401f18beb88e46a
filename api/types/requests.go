package types

// CreateNoteRequest stores a note for a recording that already exists on disk
type CreateNoteRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	FilePath    string `json:"file_path" binding:"required"`
	AudioLength int64  `json:"audio_length"` // Seconds
}

// UpdateNoteRequest changes the text of a stored note
type UpdateNoteRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// ReminderRequest schedules a reminder
type ReminderRequest struct {
	FireAt int64 `json:"fire_at" binding:"required"` // Unix milliseconds
}
