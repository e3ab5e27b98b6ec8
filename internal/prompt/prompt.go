// Package prompt renders the generation instructions sent to the provider.
// Rendering is pure: the same request always yields the same text.
package prompt

import (
	"fmt"
	"strings"
	"time"

	"rhai/internal/domain"
	"rhai/internal/port"
)

// SystemPrompt fixes the provider's role and output constraints.
const SystemPrompt = `Tu es un expert en ressources humaines et en droit du travail français.

RÔLE :
- Générer des documents RH professionnels, structurés et conformes au Code du travail
- Utiliser un langage juridique approprié mais accessible
- Adapter le contenu aux informations fournies, sans en inventer d'autres

FORMAT DE SORTIE :
- Texte brut uniquement, sans balises HTML ni Markdown
- Sections et articles clairement numérotés
- Document complet, prêt à être signé après relecture`

const addressPlaceholder = "Non spécifiée"

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatFrenchDate renders an ISO date as "15 janvier 2024". Values that do
// not parse are returned unchanged.
func FormatFrenchDate(iso string) string {
	t, err := time.Parse(domain.DateLayout, iso)
	if err != nil {
		return iso
	}
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}

// BuildUserPrompt embeds every request field verbatim into the generation
// instruction. The request is expected to be normalized.
func BuildUserPrompt(req *domain.DocumentRequest) string {
	address := req.CompanyAddress
	if address == "" {
		address = addressPlaceholder
	}

	var b strings.Builder
	b.WriteString("GÉNÈRE UN DOCUMENT RH PROFESSIONNEL ET COMPLET EN FRANÇAIS\n\n")
	fmt.Fprintf(&b, "TYPE DE DOCUMENT : %s (%s)\n\n", req.DocumentType.Label(), req.DocumentType)
	b.WriteString("INFORMATIONS À INTÉGRER :\n")
	fmt.Fprintf(&b, "- ENTREPRISE : %s\n", req.CompanyName)
	fmt.Fprintf(&b, "- ADRESSE : %s\n", address)
	fmt.Fprintf(&b, "- SALARIÉ : %s\n", req.EmployeeName)
	fmt.Fprintf(&b, "- POSTE : %s\n", req.Position)
	fmt.Fprintf(&b, "- SALAIRE : %s € brut mensuel\n", req.Salary)
	fmt.Fprintf(&b, "- DATE DE DÉBUT : %s\n\n", FormatFrenchDate(req.StartDate))
	b.WriteString("CONSIGNES DE GÉNÉRATION :\n")
	b.WriteString("1. Crée un document professionnel et structuré\n")
	b.WriteString("2. Inclus toutes les sections essentielles pour ce type de document\n")
	b.WriteString("3. Respecte le format standard des documents RH français\n")
	b.WriteString("4. Sois précis et complet dans les clauses\n\n")
	b.WriteString("Le document doit être prêt à être signé après relecture.")
	return b.String()
}

// Build returns the provider input for a normalized request.
func Build(req *domain.DocumentRequest) port.CompletionInput {
	return port.CompletionInput{
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildUserPrompt(req),
	}
}
