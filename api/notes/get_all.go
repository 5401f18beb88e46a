package notes

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// GetAll lists every note
// @Summary      List notes
// @Description  List every note, most recently modified first
// @Tags         notes
// @Produce      json
// @Success      200 {object} types.NotesResponse "Notes"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/notes [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		all, err := deps.NoteService.GetAll(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}

		list := types.NewNotes(all, deps.Clock())
		types.SendSuccess(c, types.NotesResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Notes retrieved"},
			Notes:        list,
			Count:        len(list),
		})
	}
}
