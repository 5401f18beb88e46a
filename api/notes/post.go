package notes

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	"github.com/killallgit/audionote/internal/models"
	notesService "github.com/killallgit/audionote/internal/services/notes"
	"github.com/killallgit/audionote/internal/services/recording"
	apperrors "github.com/killallgit/audionote/pkg/errors"
)

// Create stores a note for an existing recording
// @Summary      Create note
// @Description  Store a note for a recording that already exists on disk. The color is assigned by the server.
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        note body types.CreateNoteRequest true "Note data"
// @Success      201 {object} types.SingleNoteResponse "Created note"
// @Failure      400 {object} types.ErrorResponse "Title or recording missing, or file outside the recordings directory"
// @Failure      404 {object} types.ErrorResponse "Recording file not found"
// @Failure      500 {object} types.ErrorResponse "Storage failure"
// @Router       /api/v1/notes [post]
func Create(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req types.CreateNoteRequest
		if !types.BindJSONOrError(c, &req) {
			return // Error response already sent by utility
		}

		path, err := deps.RecordingPath(req.FilePath)
		if err != nil {
			types.SendError(c, err)
			return
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			types.SendError(c, apperrors.NotFound("audio file", req.FilePath))
			return
		}

		now := deps.Clock()
		note := models.NewNote(now, now.UnixNano())
		note.Title = req.Title
		note.Description = req.Description
		note.FilePath = path
		note.AudioLength = req.AudioLength
		note.Size = recording.FormatSize(info.Size())
		if err := applyText(&note, true); err != nil {
			types.SendError(c, err)
			return
		}

		if _, err := deps.NoteService.Insert(c.Request.Context(), &note); err != nil {
			types.SendError(c, err)
			return
		}

		view := types.NewNote(note, now)
		types.SendCreated(c, types.SingleNoteResponse{
			BaseResponse: types.BaseResponse{Status: types.StatusOK, Message: "Note created"},
			Note:         &view,
		})
	}
}

func applyText(note *models.Note, isNew bool) error {
	note.Title = trim(note.Title)
	note.Description = trim(note.Description)
	return notesService.Validate(note, isNew)
}
