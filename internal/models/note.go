package models

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// NoRecording marks a note whose audio has never been recorded
const NoRecording int64 = -1

// palette holds the note background colors as signed ARGB integers
var palette = [...]int{
	-504764, -740056, -1544140, -2277816, -3246217,
	-4024195, -4224594, -7305542, -7551917, -7583749,
	-10712898, -10896368, -10965321, -11419154, -14654801,
}

// Palette returns a copy of the note color palette
func Palette() []int {
	out := make([]int, len(palette))
	copy(out, palette[:])
	return out
}

// PickColor chooses a palette color for seed. The same seed always yields the same color.
func PickColor(seed int64) int {
	r := rand.New(rand.NewSource(seed))
	return palette[r.Intn(len(palette))]
}

// Note is a single audio note
type Note struct {
	ID                   uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Title                string `json:"title" gorm:"not null;default:''"`
	Description          string `json:"description" gorm:"type:text"`
	Color                int    `json:"color"`
	LastModificationDate int64  `json:"last_modification_date" gorm:"index:idx_notes_modified"`
	Size                 string `json:"size"`
	AudioLength          int64  `json:"audio_length"`
	FilePath             string `json:"file_path"`
	Started              bool   `json:"started"`
	Reminder             *int64 `json:"reminder"`
}

// NewNote returns an unsaved note with default values
func NewNote(now time.Time, seed int64) Note {
	return Note{
		Color:                PickColor(seed),
		LastModificationDate: now.UnixMilli(),
		AudioLength:          NoRecording,
	}
}

// TableName specifies the table name for GORM
func (Note) TableName() string {
	return "notes"
}

// HasRecording reports whether audio with a positive duration is attached
func (n *Note) HasRecording() bool {
	return n.AudioLength > 0
}

// HasReminder reports whether a reminder time is set
func (n *Note) HasReminder() bool {
	return n.Reminder != nil
}

// ReminderTime returns the reminder as a time, or the zero time when unset
func (n *Note) ReminderTime() time.Time {
	if n.Reminder == nil {
		return time.Time{}
	}
	return time.UnixMilli(*n.Reminder)
}

// SetReminder stores t as the reminder time
func (n *Note) SetReminder(t time.Time) {
	ms := t.UnixMilli()
	n.Reminder = &ms
}

// ClearReminder removes the reminder
func (n *Note) ClearReminder() {
	n.Reminder = nil
	n.Started = false
}

// ReminderCompleted reports whether the reminder time has been reached at now
func (n *Note) ReminderCompleted(now time.Time) bool {
	return n.Reminder != nil && now.UnixMilli() >= *n.Reminder
}

// Duration returns the recorded audio length
func (n *Note) Duration() time.Duration {
	if n.AudioLength <= 0 {
		return 0
	}
	return time.Duration(n.AudioLength) * time.Second
}

// ToPayload encodes the full note field set for a deferred job
func (n *Note) ToPayload() (JobPayload, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("failed to encode note %d: %w", n.ID, err)
	}
	var payload JobPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to encode note %d: %w", n.ID, err)
	}
	return payload, nil
}

// NoteFromPayload decodes a note written by ToPayload
func NoteFromPayload(payload JobPayload) (Note, error) {
	var note Note
	if payload == nil {
		return note, fmt.Errorf("empty note payload")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return note, fmt.Errorf("failed to decode note payload: %w", err)
	}
	if err := json.Unmarshal(data, &note); err != nil {
		return note, fmt.Errorf("failed to decode note payload: %w", err)
	}
	if note.ID == 0 {
		return note, fmt.Errorf("note payload has no id")
	}
	return note, nil
}
