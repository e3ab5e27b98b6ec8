package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rhai/internal/domain"
)

const msgRouteNotFound = "Route non trouvée"

// NotFoundHandler answers unknown routes with the list of served ones.
type NotFoundHandler struct {
	routes []string
}

// NewNotFoundHandler creates a NotFoundHandler listing routes as "METHOD /path".
func NewNotFoundHandler(routes []string) *NotFoundHandler {
	return &NotFoundHandler{routes: append([]string(nil), routes...)}
}

// NotFound handles any unmatched route or method.
func (h *NotFoundHandler) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponseBody{
		Success:         false,
		Error:           msgRouteNotFound,
		Code:            domain.CodeNotFound,
		AvailableRoutes: h.routes,
	})
}
