package notes

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// Update changes the title or description of a note
// @Summary      Update note
// @Description  Change the title and/or description of a stored note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        id path int true "Note ID"
// @Param        note body types.UpdateNoteRequest true "Fields to change"
// @Success      200 {object} types.SingleNoteResponse "Updated note"
// @Failure      400 {object} types.ErrorResponse "Title is required"
// @Failure      404 {object} types.ErrorResponse "Note not found"
// @Router       /api/v1/notes/{id} [put]
func Update(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return // Error response already sent by utility
		}

		var req types.UpdateNoteRequest
		if !types.BindJSONOrError(c, &req) {
			return // Error response already sent by utility
		}

		ctx := c.Request.Context()
		note, err := deps.NoteService.GetByID(ctx, id)
		if err != nil {
			types.SendError(c, err)
			return
		}

		if req.Title != nil {
			note.Title = *req.Title
		}
		if req.Description != nil {
			note.Description = *req.Description
		}
		if err := applyText(note, false); err != nil {
			types.SendError(c, err)
			return
		}

		now := deps.Clock()
		note.LastModificationDate = now.UnixMilli()
		if err := deps.NoteService.Update(ctx, note); err != nil {
			types.SendError(c, err)
			return
		}

		view := types.NewNote(*note, now)
		types.SendSuccess(c, types.SingleNoteResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Note updated"},
			Note:         &view,
		})
	}
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
