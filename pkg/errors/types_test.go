package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodesMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"permission", PermissionDenied(), http.StatusForbidden},
		{"device", DeviceUnavailable("microphone", stderrors.New("busy")), http.StatusServiceUnavailable},
		{"recording", RecordingRequired(), http.StatusBadRequest},
		{"title", TitleRequired(), http.StatusBadRequest},
		{"storage", Storage("insert note", stderrors.New("disk full")), http.StatusInternalServerError},
		{"not found", NotFound("note", 7), http.StatusNotFound},
		{"state", InvalidState("recorder", "recording"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.GetHTTPCode())
			assert.Equal(t, tt.want, GetHTTPCode(tt.err))
		})
	}
}

func TestIsFollowsWrappedChain(t *testing.T) {
	cause := stderrors.New("database is locked")
	wrapped := fmt.Errorf("save note: %w", Storage("update note", cause))

	assert.True(t, Is(wrapped, ErrCodeStorage))
	assert.False(t, Is(wrapped, ErrCodeNotFound))
	assert.Equal(t, ErrCodeStorage, GetCode(wrapped))
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, ErrCodeInternal, GetCode(stderrors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Record before saving", UserMessage(RecordingRequired()))
	assert.Equal(t, "File not found", UserMessage(NotFound("audio file", "/tmp/x.3gp")))
	assert.Equal(t, "Something went wrong", UserMessage(stderrors.New("boom")))
}
