package reminders

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	reminderService "github.com/killallgit/audionote/internal/services/reminders"
)

// Set schedules a reminder for a note
// @Summary      Set reminder
// @Description  Schedule a one-shot reminder. A time that already passed moves to the same time on the next day. Replaces any pending reminder of the note.
// @Tags         reminders
// @Accept       json
// @Produce      json
// @Param        id path int true "Note ID"
// @Param        reminder body types.ReminderRequest true "Reminder time in Unix milliseconds"
// @Success      200 {object} types.SingleNoteResponse "Note with reminder"
// @Failure      400 {object} types.ErrorResponse "Invalid request"
// @Failure      404 {object} types.ErrorResponse "Note not found"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Router       /api/v1/notes/{id}/reminder [put]
func Set(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return // Error response already sent by utility
		}

		var req types.ReminderRequest
		if !types.BindJSONOrError(c, &req) {
			return // Error response already sent by utility
		}

		ctx := c.Request.Context()
		note, err := deps.NoteService.GetByID(ctx, id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		now := deps.Clock()
		fireAt := reminderService.NextFireTime(time.UnixMilli(req.FireAt), now)
		note.SetReminder(fireAt)
		if err := deps.NoteService.Update(ctx, note); err != nil {
			types.SendError(c, err)
			return
		}
		if err := deps.Reminders.Schedule(ctx, *note, fireAt); err != nil {
			types.SendError(c, err)
			return
		}
		if err := deps.NoteService.SetStarted(ctx, id, true); err != nil {
			types.SendError(c, err)
			return
		}
		note.Started = true

		view := types.NewNote(*note, now)
		types.SendSuccess(c, types.SingleNoteResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Reminder scheduled"},
			Note:         &view,
		})
	}
}
