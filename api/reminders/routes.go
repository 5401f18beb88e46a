package reminders

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// RegisterRoutes registers reminder routes under the notes group
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.PUT("/:id/reminder", Set(deps))
	router.DELETE("/:id/reminder", Clear(deps))
}
