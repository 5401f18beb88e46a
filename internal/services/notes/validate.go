package notes

import (
	"strings"

	"github.com/killallgit/audionote/internal/models"
	apperrors "github.com/killallgit/audionote/pkg/errors"
)

// Validate checks a note before it is saved. New notes must carry a recording.
func Validate(note *models.Note, isNew bool) error {
	if strings.TrimSpace(note.Title) == "" {
		return apperrors.TitleRequired()
	}
	if isNew && note.AudioLength <= 0 {
		return apperrors.RecordingRequired()
	}
	return nil
}
