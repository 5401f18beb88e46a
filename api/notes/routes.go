package notes

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// RegisterRoutes registers note routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", GetAll(deps))
	router.POST("", Create(deps))
	router.GET("/:id", GetByID(deps))
	router.PUT("/:id", Update(deps))
	router.DELETE("/:id", Delete(deps))
	router.GET("/:id/audio", GetAudio(deps))
	router.GET("/:id/metadata", GetMetadata(deps))
}
