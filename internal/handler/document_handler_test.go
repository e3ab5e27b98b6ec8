package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rhai/internal/domain"
	"rhai/internal/handler"
	"rhai/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postGenerate(h *handler.DocumentHandler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/generate-document", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Generate(c)
	return w
}

func TestDocumentHandler_Generate_Success(t *testing.T) {
	mockRelay := new(mocks.MockRelayService)
	h := handler.NewDocumentHandler(mockRelay)

	expected := domain.DocumentRequest{
		DocumentType: domain.DocumentTypeCDI,
		CompanyName:  "Acme",
		EmployeeName: "Jean Dupont",
		Position:     "Développeur",
		Salary:       "3500",
		StartDate:    "2024-02-01",
	}
	generatedAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	mockRelay.On("Generate", mock.Anything, expected).Return(domain.NewSuccess("HELLO", domain.DocumentMetadata{
		Type:        domain.DocumentTypeCDI,
		TokenCount:  12,
		GeneratedAt: generatedAt,
	}))

	body, _ := json.Marshal(map[string]string{
		"documentType": "cdi",
		"companyName":  "Acme",
		"employeeName": "Jean Dupont",
		"position":     "Développeur",
		"salary":       "3500",
		"startDate":    "2024-02-01",
	})
	w := postGenerate(h, string(body))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "HELLO", resp["document"])
	meta := resp["metadata"].(map[string]interface{})
	assert.Equal(t, "cdi", meta["type"])
	assert.Equal(t, float64(12), meta["tokenCount"])
	assert.Equal(t, "2024-01-15T10:00:00Z", meta["generatedAt"])
	assert.NotContains(t, resp, "error")
	mockRelay.AssertExpectations(t)
}

func TestDocumentHandler_Generate_FailureIsStillOK(t *testing.T) {
	mockRelay := new(mocks.MockRelayService)
	h := handler.NewDocumentHandler(mockRelay)

	mockRelay.On("Generate", mock.Anything, mock.AnythingOfType("domain.DocumentRequest")).
		Return(domain.NewFailure(domain.CodeValidation, "Champ manquant ou invalide : salary", ""))

	w := postGenerate(h, `{"documentType":"cdi"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.DocumentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, domain.CodeValidation, resp.Code)
	assert.Contains(t, resp.Error, "salary")
	assert.Empty(t, resp.Document)
	assert.Nil(t, resp.Metadata)
}

func TestDocumentHandler_Generate_MalformedJSON(t *testing.T) {
	mockRelay := new(mocks.MockRelayService)
	h := handler.NewDocumentHandler(mockRelay)

	w := postGenerate(h, `{"documentType":`)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp domain.DocumentResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, domain.CodeInvalidRequest, resp.Code)
	assert.NotEmpty(t, resp.Error)
	mockRelay.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Generate_EmptyBody(t *testing.T) {
	mockRelay := new(mocks.MockRelayService)
	h := handler.NewDocumentHandler(mockRelay)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/generate-document", bytes.NewReader(nil))

	h.Generate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), domain.CodeInvalidRequest)
	mockRelay.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
