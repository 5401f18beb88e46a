package notes

import "errors"

var (
	// ErrNoteNotFound is returned when no note has the requested id
	ErrNoteNotFound = errors.New("note not found")

	// ErrNoteHasID is returned when inserting a note that was already stored
	ErrNoteHasID = errors.New("note already has an id")

	// ErrNoteIDRequired is returned when a stored note is expected
	ErrNoteIDRequired = errors.New("note id is required")
)
