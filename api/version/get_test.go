package version

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Get(types.BuildInfo{Version: "1.2.0", GitCommit: "abc123"})(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	expected := map[string]interface{}{
		"name":    "Audio Notes API",
		"version": "1.2.0",
		"commit":  "abc123",
		"status":  "running",
	}
	for key, value := range expected {
		assert.Equal(t, value, response[key], "Key: %s", key)
	}
}
