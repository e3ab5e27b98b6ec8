package domain

import (
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar date format used for startDate.
const DateLayout = "2006-01-02"

// DocumentRequest is the form payload submitted for generation.
type DocumentRequest struct {
	DocumentType   DocumentType `json:"documentType" validate:"required,doctype"`
	CompanyName    string       `json:"companyName" validate:"notblank"`
	CompanyAddress string       `json:"companyAddress,omitempty"`
	EmployeeName   string       `json:"employeeName" validate:"notblank"`
	Position       string       `json:"position" validate:"notblank"`
	Salary         string       `json:"salary" validate:"notblank"`
	StartDate      string       `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Normalized returns a copy with surrounding whitespace trimmed and an empty
// start date replaced by the calendar date of now.
func (r DocumentRequest) Normalized(now time.Time) DocumentRequest {
	out := DocumentRequest{
		DocumentType:   DocumentType(strings.TrimSpace(string(r.DocumentType))),
		CompanyName:    strings.TrimSpace(r.CompanyName),
		CompanyAddress: strings.TrimSpace(r.CompanyAddress),
		EmployeeName:   strings.TrimSpace(r.EmployeeName),
		Position:       strings.TrimSpace(r.Position),
		Salary:         strings.TrimSpace(r.Salary),
		StartDate:      strings.TrimSpace(r.StartDate),
	}
	if out.StartDate == "" {
		out.StartDate = now.Format(DateLayout)
	}
	return out
}

// DocumentMetadata describes a generated document.
type DocumentMetadata struct {
	Type        DocumentType `json:"type"`
	TokenCount  int          `json:"tokenCount,omitempty"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Model       string       `json:"model,omitempty"`
	Fallback    bool         `json:"fallback"`
}

// DocumentResult is the uniform envelope returned by the relay.
// Exactly one of the success or failure field groups is populated.
type DocumentResult struct {
	Success    bool              `json:"success"`
	Document   string            `json:"document,omitempty"`
	Metadata   *DocumentMetadata `json:"metadata,omitempty"`
	Error      string            `json:"error,omitempty"`
	Code       string            `json:"code,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
}

// NewSuccess builds a success envelope.
func NewSuccess(document string, meta DocumentMetadata) DocumentResult {
	return DocumentResult{Success: true, Document: document, Metadata: &meta}
}

// NewFailure builds a failure envelope.
func NewFailure(code, msg, suggestion string) DocumentResult {
	return DocumentResult{Success: false, Code: code, Error: msg, Suggestion: suggestion}
}
