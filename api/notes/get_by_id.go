package notes

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// GetByID returns a single note
// @Summary      Get note
// @Description  Get a note by its ID
// @Tags         notes
// @Produce      json
// @Param        id path int true "Note ID"
// @Success      200 {object} types.SingleNoteResponse "Note"
// @Failure      400 {object} types.ErrorResponse "Invalid note ID"
// @Failure      404 {object} types.ErrorResponse "Note not found"
// @Router       /api/v1/notes/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
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

		view := types.NewNote(*note, deps.Clock())
		types.SendSuccess(c, types.SingleNoteResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Note retrieved"},
			Note:         &view,
		})
	}
}
