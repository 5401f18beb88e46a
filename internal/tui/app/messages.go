package app

import (
	"time"

	"github.com/killallgit/audionote/internal/services/playback"
	"github.com/killallgit/audionote/internal/services/settings"
	"github.com/killallgit/audionote/internal/services/viewstate"
)

// PreferencesLoadedMsg carries the stored settings read at startup.
type PreferencesLoadedMsg struct {
	FirstLaunch bool
	Theme       settings.Theme
	Microphone  bool
	Err         error
}

// SnapshotMsg carries a new notes view state.
type SnapshotMsg viewstate.Snapshot

// ErrorMsg is a user-facing message reported by a background operation.
type ErrorMsg string

// TickMsg refreshes the timer text and the note list.
type TickMsg time.Time

// OnboardedMsg is sent once the first launch flag is cleared.
type OnboardedMsg struct {
	Err error
}

// SavedMsg carries the result of saving the open note.
type SavedMsg struct {
	Err error
}

// DeletedMsg carries the result of deleting the open note.
type DeletedMsg struct {
	Err error
}

// RecordToggledMsg carries the result of starting or stopping a recording.
type RecordToggledMsg struct {
	Err error
}

// PlaybackToggledMsg carries the playback state after play, pause or resume.
type PlaybackToggledMsg struct {
	State playback.State
	Err   error
}

// ReminderClearedMsg carries the result of cancelling a reminder.
type ReminderClearedMsg struct {
	Err error
}

// ThemeChangedMsg carries the newly stored theme.
type ThemeChangedMsg struct {
	Theme settings.Theme
	Err   error
}

// MicrophoneChangedMsg carries the microphone permission after a change.
type MicrophoneChangedMsg struct {
	Granted bool
	Err     error
}

// ClearTransientErrorMsg clears the error line after a timeout.
type ClearTransientErrorMsg struct {
	Seq int
}
