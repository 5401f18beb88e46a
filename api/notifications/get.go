package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// GetAll lists posted notifications
// @Summary      List notifications
// @Description  Notifications currently in the tray, newest first. There is at most one per note.
// @Tags         notifications
// @Produce      json
// @Success      200 {object} types.NotificationsResponse "Notifications"
// @Failure      500 {object} types.ErrorResponse "Internal server error"
// @Router       /api/v1/notifications [get]
func GetAll(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		posted, err := deps.Tray.List(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.NotificationsResponse{
			BaseResponse:  types.BaseResponse{Status: types.StatusOK, Message: "Notifications retrieved"},
			Notifications: posted,
			Count:         len(posted),
		})
	}
}
