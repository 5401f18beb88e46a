package models

import "time"

// Notification is the last notification posted for a note.
// There is at most one row per note; reposting replaces it.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	NoteID    uint      `json:"note_id" gorm:"uniqueIndex;not null"`
	Title     string    `json:"title"`
	DeepLink  string    `json:"deep_link"`
	Sound     bool      `json:"sound"`
	Vibrate   bool      `json:"vibrate"`
	PostedAt  time.Time `json:"posted_at"`
	PostCount int       `json:"post_count" gorm:"default:1"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}
