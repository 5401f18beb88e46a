package viewstate

import "github.com/killallgit/audionote/internal/models"

// UIState is the state of the note list screen
type UIState int

const (
	Loading UIState = iota
	Empty
	HasData
)

func (s UIState) String() string {
	switch s {
	case Empty:
		return "empty"
	case HasData:
		return "has_data"
	default:
		return "loading"
	}
}

// ReminderAvailability tells whether the open note has a reminder
type ReminderAvailability int

const (
	NoReminder ReminderAvailability = iota
	HasReminder
)

func (r ReminderAvailability) String() string {
	if r == HasReminder {
		return "has_reminder"
	}
	return "no_reminder"
}

// ReminderCompletion tells whether the open note's reminder time has passed
type ReminderCompletion int

const (
	Ongoing ReminderCompletion = iota
	Completed
)

func (c ReminderCompletion) String() string {
	if c == Completed {
		return "completed"
	}
	return "ongoing"
}

// Snapshot is a consistent copy of the manager state
type Snapshot struct {
	UI         UIState
	Notes      []models.Note
	Reminder   ReminderAvailability
	Completion ReminderCompletion
}
