package notifications

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// RegisterRoutes registers notification tray routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", GetAll(deps))
	router.DELETE("/:id", Dismiss(deps))
}
