package handler

import (
	"github.com/gin-gonic/gin"

	"rhai/internal/domain"
	"rhai/internal/logger"
	"rhai/internal/service"
)

const (
	msgInvalidBody        = "Le corps de la requête doit être un objet JSON valide."
	suggestionInvalidBody = "Vérifiez le format des données envoyées et réessayez."
)

// DocumentHandler handles document generation requests.
type DocumentHandler struct {
	relayService service.RelayService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(relayService service.RelayService) *DocumentHandler {
	return &DocumentHandler{relayService: relayService}
}

// Generate handles POST /generate-document. Handled failures are still 200 with success=false.
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req domain.DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID, _ := c.Get("request_id")
		logger.Warnf("[%s] invalid generation body: %v", requestID, err)
		RespondResult(c, domain.NewFailure(domain.CodeInvalidRequest, msgInvalidBody, suggestionInvalidBody))
		return
	}

	RespondResult(c, h.relayService.Generate(c.Request.Context(), req))
}
