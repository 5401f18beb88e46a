package notes

import (
	"errors"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	apperrors "github.com/killallgit/audionote/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Delete removes a note, its reminder and its recording
// @Summary      Delete note
// @Description  Cancel the note's reminder, then delete the note and its audio file
// @Tags         notes
// @Produce      json
// @Param        id path int true "Note ID"
// @Success      200 {object} types.BaseResponse "Note deleted"
// @Failure      404 {object} types.ErrorResponse "Note not found"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Router       /api/v1/notes/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return // Error response already sent by utility
		}

		ctx := c.Request.Context()
		note, err := deps.NoteService.GetByID(ctx, id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		if deps.Reminders != nil {
			if err := deps.Reminders.Cancel(ctx, id); err != nil {
				types.SendError(c, err)
				return
			}
		}
		if err := deps.NoteService.Delete(ctx, note); err != nil {
			types.SendError(c, err)
			return
		}

		if note.FilePath != "" {
			path, err := deps.RecordingPath(note.FilePath)
			if err != nil {
				logrus.WithError(err).WithField("note_id", id).Warn("Recording outside the recordings directory left in place")
				types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Note deleted"})
				return
			}
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				logrus.WithError(err).WithField("note_id", id).Warn("Failed to remove recording")
				types.SendError(c, apperrors.Storage("delete recording", err))
				return
			}
		}

		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Note deleted"})
	}
}
