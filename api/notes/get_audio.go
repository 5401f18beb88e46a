package notes

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	apperrors "github.com/killallgit/audionote/pkg/errors"
)

// GetAudio streams the recording of a note
// @Summary      Download recording
// @Description  Stream the note's audio file as an attachment for sharing
// @Tags         notes
// @Produce      octet-stream
// @Param        id path int true "Note ID"
// @Success      200 {file} file "Recording"
// @Failure      400 {object} types.ErrorResponse "File outside the recordings directory"
// @Failure      404 {object} types.ErrorResponse "Note or file not found"
// @Router       /api/v1/notes/{id}/audio [get]
func GetAudio(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return // Error response already sent by utility
		}

		note, err := deps.NoteService.GetByID(c.Request.Context(), id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		if note.FilePath == "" {
			types.SendError(c, apperrors.NotFound("audio file", id))
			return
		}
		path, err := deps.RecordingPath(note.FilePath)
		if err != nil {
			types.SendError(c, err)
			return
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			types.SendError(c, apperrors.NotFound("audio file", id))
			return
		}

		c.Header("Content-Type", "audio/3gpp")
		c.FileAttachment(path, filepath.Base(path))
	}
}
