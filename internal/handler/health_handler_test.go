package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhai/internal/handler"
)

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Status, "en ligne")
	assert.NotEmpty(t, resp.Message)
	assert.WithinDuration(t, time.Now(), resp.Timestamp, time.Minute)
}

func TestNotFoundHandler_ListsRoutes(t *testing.T) {
	h := handler.NewNotFoundHandler([]string{"GET /", "POST /generate-document"})

	r := gin.New()
	r.NoRoute(h.NotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/nope", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.ErrorResponseBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Route non trouvée", resp.Error)
	assert.Equal(t, []string{"GET /", "POST /generate-document"}, resp.AvailableRoutes)
}
