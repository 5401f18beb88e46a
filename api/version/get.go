package version

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
)

// Get handles version requests
// @Summary      Version
// @Description  Name and build of the running server
// @Tags         system
// @Produce      json
// @Success      200 {object} object "Build information"
// @Router       /version [get]
func Get(info types.BuildInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Audio Notes API",
			"version":     info.Version,
			"commit":      info.GitCommit,
			"build_time":  info.BuildTime,
			"description": "API for recording-backed notes and reminders",
			"status":      "running",
		})
	}
}
