package notifications

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	notificationService "github.com/killallgit/audionote/internal/services/notifications"
	apperrors "github.com/killallgit/audionote/pkg/errors"
)

// Dismiss removes the notification of a note from the tray
// @Summary      Dismiss notification
// @Description  Remove the posted notification for a note
// @Tags         notifications
// @Produce      json
// @Param        id path int true "Note ID"
// @Success      200 {object} types.BaseResponse "Notification dismissed"
// @Failure      404 {object} types.ErrorResponse "No notification for this note"
// @Router       /api/v1/notifications/{id} [delete]
func Dismiss(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		noteID, ok := types.ParseUintParam(c, "id")
		if !ok {
			return // Error response already sent by utility
		}

		if err := deps.Tray.Dismiss(c.Request.Context(), noteID); err != nil {
			if errors.Is(err, notificationService.ErrNotificationNotFound) {
				types.SendError(c, apperrors.NotFound("notification", noteID))
				return
			}
			types.SendError(c, apperrors.Storage("dismiss notification", err))
			return
		}

		types.SendSuccess(c, types.BaseResponse{Status: types.StatusOK, Message: "Notification dismissed"})
	}
}
