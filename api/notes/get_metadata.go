package notes

import (
	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	apperrors "github.com/killallgit/audionote/pkg/errors"
)

// GetMetadata reports what ffprobe knows about a note's recording
// @Summary      Recording metadata
// @Description  Container format, duration, bitrate and codec of the note's audio file
// @Tags         notes
// @Produce      json
// @Param        id path int true "Note ID"
// @Success      200 {object} types.MetadataResponse "Metadata"
// @Failure      404 {object} types.ErrorResponse "Note or file not found"
// @Failure      503 {object} types.ErrorResponse "ffprobe unavailable"
// @Router       /api/v1/notes/{id}/metadata [get]
func GetMetadata(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := types.ParseUintParam(c, "id")
		if !ok {
			return // Error response already sent by utility
		}

		ctx := c.Request.Context()
		note, err := deps.NoteService.GetByID(ctx, id)
		if err != nil {
			types.SendError(c, err)
			return
		}
		if deps.Metadata == nil {
			types.SendError(c, apperrors.New(apperrors.ErrCodeDeviceUnavailable, "metadata reader unavailable"))
			return
		}

		path, err := deps.RecordingPath(note.FilePath)
		if err != nil {
			types.SendError(c, err)
			return
		}
		meta, err := deps.Metadata.Probe(ctx, path)
		if err != nil {
			types.SendError(c, err)
			return
		}

		types.SendSuccess(c, types.MetadataResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Metadata retrieved"},
			Format:       meta.Format,
			Duration:     meta.Duration,
			Bitrate:      meta.Bitrate,
			Size:         meta.Size,
			Codec:        meta.Codec,
		})
	}
}
