package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhai/internal/domain"
	"rhai/internal/validation"
)

func validRequest() domain.DocumentRequest {
	return domain.DocumentRequest{
		DocumentType:   domain.DocumentTypeCDI,
		CompanyName:    "Acme",
		CompanyAddress: "1 Rue X",
		EmployeeName:   "Jean Dupont",
		Position:       "Développeur",
		Salary:         "3000",
		StartDate:      "2024-01-15",
	}
}

func TestRequestValidator_Valid(t *testing.T) {
	v := validation.NewRequestValidator()
	req := validRequest()

	assert.NoError(t, v.Validate(&req))
}

func TestRequestValidator_OptionalFieldsMayBeEmpty(t *testing.T) {
	v := validation.NewRequestValidator()
	req := validRequest()
	req.CompanyAddress = ""
	req.StartDate = ""

	assert.NoError(t, v.Validate(&req))
}

func TestRequestValidator_AllDocumentTypesAccepted(t *testing.T) {
	v := validation.NewRequestValidator()
	for _, dt := range domain.DocumentTypes {
		req := validRequest()
		req.DocumentType = dt
		assert.NoError(t, v.Validate(&req), "type %s", dt)
	}
}

func TestRequestValidator_MissingRequiredField(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *domain.DocumentRequest)
		field  string
	}{
		{"documentType", func(r *domain.DocumentRequest) { r.DocumentType = "" }, "documentType"},
		{"companyName", func(r *domain.DocumentRequest) { r.CompanyName = "" }, "companyName"},
		{"employeeName", func(r *domain.DocumentRequest) { r.EmployeeName = "" }, "employeeName"},
		{"position", func(r *domain.DocumentRequest) { r.Position = "" }, "position"},
		{"salary", func(r *domain.DocumentRequest) { r.Salary = "" }, "salary"},
		{"blank companyName", func(r *domain.DocumentRequest) { r.CompanyName = "   " }, "companyName"},
	}

	v := validation.NewRequestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			err := v.Validate(&req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))

			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, []string{tt.field}, ve.Fields)
		})
	}
}

func TestRequestValidator_UnknownDocumentType(t *testing.T) {
	v := validation.NewRequestValidator()
	req := validRequest()
	req.DocumentType = "xyz"

	err := v.Validate(&req)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"documentType"}, ve.Fields)
}

func TestRequestValidator_InvalidStartDate(t *testing.T) {
	v := validation.NewRequestValidator()
	req := validRequest()
	req.StartDate = "15/01/2024"

	err := v.Validate(&req)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"startDate"}, ve.Fields)
}

func TestRequestValidator_ReportsEveryFieldInOrder(t *testing.T) {
	v := validation.NewRequestValidator()
	req := domain.DocumentRequest{DocumentType: "xyz", Position: "Dev"}

	err := v.Validate(&req)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, []string{"documentType", "companyName", "employeeName", "salary"}, ve.Fields)
	assert.Equal(t, "Champs manquants ou invalides : documentType, companyName, employeeName, salary", ve.Message())
}
