package fallback_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rhai/internal/domain"
	"rhai/internal/fallback"
)

func TestLoad_CoversEveryDocumentType(t *testing.T) {
	tpl, err := fallback.Load()
	require.NoError(t, err)

	for _, dt := range domain.DocumentTypes {
		doc := tpl.Render(dt, "Acme", "Jean Dupont")
		assert.NotEmpty(t, doc)
		assert.Contains(t, doc, dt.Label())
	}
}

func TestRender_InterpolatesOnlyIdentityFields(t *testing.T) {
	tpl := fallback.MustLoad()

	doc := tpl.Render(domain.DocumentTypeCDI, "Acme", "Jean Dupont")

	assert.Contains(t, doc, "CONTRAT DE TRAVAIL À DURÉE INDÉTERMINÉE")
	assert.Contains(t, doc, "Employeur : Acme")
	assert.Contains(t, doc, "Salarié(e) : Jean Dupont")
	assert.Contains(t, doc, "DOCUMENT PROVISOIRE")
	assert.NotContains(t, doc, "{{.")
}

func TestRender_ValuesAreNotReexpanded(t *testing.T) {
	tpl := fallback.MustLoad()

	doc := tpl.Render(domain.DocumentTypeCDD, "{{.EmployeeName}}", "Jean")

	assert.Contains(t, doc, "Employeur : {{.EmployeeName}}")
}

func TestRender_Deterministic(t *testing.T) {
	tpl := fallback.MustLoad()

	a := tpl.Render(domain.DocumentTypeRupture, "Acme", "Jean")
	b := tpl.Render(domain.DocumentTypeRupture, "Acme", "Jean")

	assert.Equal(t, a, b)
}
