package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rhai/internal/domain"
)

// ErrorResponseBody is the envelope for requests rejected before reaching
// the relay (unknown routes, rate limiting, authentication).
type ErrorResponseBody struct {
	Success         bool     `json:"success"`
	Error           string   `json:"error"`
	Code            string   `json:"code,omitempty"`
	AvailableRoutes []string `json:"availableRoutes,omitempty"`
}

// RespondResult sends a relay outcome. Handled outcomes, failures included,
// are always HTTP 200 with the success flag carrying the result.
func RespondResult(c *gin.Context, result domain.DocumentResult) {
	c.JSON(http.StatusOK, result)
}
