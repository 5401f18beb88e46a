package reminders

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// Clear cancels the reminder of a note
// @Summary      Clear reminder
// @Description  Cancel the pending alarm and remove the reminder from the note. Clearing a note without a reminder succeeds.
// @Tags         reminders
// @Produce      json
// @Param        id path int true "Note ID"
// @Success      200 {object} types.SingleNoteResponse "Note without reminder"
// @Failure      404 {object} types.ErrorResponse "Note not found"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Router       /api/v1/notes/{id}/reminder [delete]
func Clear(deps *types.Dependencies) gin.HandlerFunc {
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

		if err := deps.Reminders.Cancel(ctx, id); err != nil {
			types.SendError(c, err)
			return
		}

		note.ClearReminder()
		note.Started = false
		if err := deps.NoteService.Update(ctx, note); err != nil {
			types.SendError(c, err)
			return
		}

		view := types.NewNote(*note, deps.Clock())
		types.SendSuccess(c, types.SingleNoteResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Reminder cleared"},
			Note:         &view,
		})
	}
}
