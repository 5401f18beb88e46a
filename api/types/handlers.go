package types

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/internal/models"
	"github.com/killallgit/audionote/internal/services/recording"
	apperrors "github.com/killallgit/audionote/pkg/errors"
)

// Handler utility functions to reduce duplication across handlers

// ParseUintParam extracts and parses a URL parameter as uint
// Returns the parsed value and sends error response if parsing fails
func ParseUintParam(c *gin.Context, paramName string) (uint, bool) {
	paramStr := c.Param(paramName)
	value, err := strconv.ParseUint(paramStr, 10, 32)
	if err != nil || value == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid " + paramName,
			Error:   string(apperrors.ErrCodeInvalidInput),
		})
		return 0, false
	}
	return uint(value), true
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Status:  StatusError,
			Message: "Invalid request body",
			Error:   string(apperrors.ErrCodeInvalidInput),
			Details: err.Error(),
		})
		return false
	}
	return true
}

// SendError maps err to a status code and an ErrorResponse
func SendError(c *gin.Context, err error) {
	response := ErrorResponse{
		Status:  StatusError,
		Message: apperrors.UserMessage(err),
		Error:   string(apperrors.GetCode(err)),
	}
	if appErr, ok := apperrors.As(err); ok {
		// storage causes stay in the server log
		if appErr.Code == apperrors.ErrCodeNotFound || appErr.Code == apperrors.ErrCodeInvalidInput ||
			appErr.Code == apperrors.ErrCodeInvalidState {
			response.Message = appErr.Message
		}
		if len(appErr.Details) > 0 {
			response.Details = appErr.Details
		}
	}
	c.JSON(apperrors.GetHTTPCode(err), response)
}

// SendSuccess sends a standardized success response with data
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendCreated sends a standardized created response with data
func SendCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NewNote converts a stored note for the API, judging the reminder against now
func NewNote(n models.Note, now time.Time) Note {
	out := Note{
		ID:                   n.ID,
		Title:                n.Title,
		Description:          n.Description,
		Color:                n.Color,
		LastModificationDate: n.LastModificationDate,
		Size:                 n.Size,
		AudioLength:          n.AudioLength,
		Duration:             recording.FormatElapsed(n.Duration()),
		FilePath:             n.FilePath,
		Started:              n.Started,
		Reminder:             n.Reminder,
		ReminderState:        "none",
	}
	if n.HasReminder() {
		out.ReminderState = "pending"
		if n.ReminderCompleted(now) {
			out.ReminderState = "completed"
		}
	}
	return out
}

// NewNotes converts a note list
func NewNotes(all []models.Note, now time.Time) []Note {
	out := make([]Note, 0, len(all))
	for _, n := range all {
		out = append(out, NewNote(n, now))
	}
	return out
}
