package domain

// DocumentType identifies the kind of HR document to generate.
type DocumentType string

const (
	DocumentTypeCDI         DocumentType = "cdi"
	DocumentTypeCDD         DocumentType = "cdd"
	DocumentTypeRupture     DocumentType = "rupture"
	DocumentTypeAvenant     DocumentType = "avenant"
	DocumentTypeAttestation DocumentType = "attestation"
)

// defaultDocumentLabel is shown for keys outside the known table.
const defaultDocumentLabel = "Document RH"

// DocumentTypes lists the accepted document types in display order.
var DocumentTypes = []DocumentType{
	DocumentTypeCDI,
	DocumentTypeCDD,
	DocumentTypeRupture,
	DocumentTypeAvenant,
	DocumentTypeAttestation,
}

// DocumentLabels maps each document type to its French display label.
var DocumentLabels = map[DocumentType]string{
	DocumentTypeCDI:         "Contrat de Travail CDI",
	DocumentTypeCDD:         "Contrat de Travail CDD",
	DocumentTypeRupture:     "Rupture Conventionnelle",
	DocumentTypeAvenant:     "Avenant au Contrat",
	DocumentTypeAttestation: "Attestation d'Emploi",
}

// Valid reports whether t is one of the known document types.
func (t DocumentType) Valid() bool {
	_, ok := DocumentLabels[t]
	return ok
}

// Label returns the French display label, or a generic label for unknown keys.
func (t DocumentType) Label() string {
	if label, ok := DocumentLabels[t]; ok {
		return label
	}
	return defaultDocumentLabel
}

// FallbackPolicy decides what the relay returns when the provider fails.
type FallbackPolicy string

const (
	// FallbackPolicyFail surfaces the provider failure as a Failure envelope.
	FallbackPolicyFail FallbackPolicy = "fail"
	// FallbackPolicyTemplate substitutes the static placeholder document.
	FallbackPolicyTemplate FallbackPolicy = "template"
)

// ValidFallbackPolicies is the set of accepted fallback policies.
var ValidFallbackPolicies = map[FallbackPolicy]bool{
	FallbackPolicyFail:     true,
	FallbackPolicyTemplate: true,
}

// Error codes carried by Failure envelopes.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeProvider       = "PROVIDER_ERROR"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeRateLimited    = "RATE_LIMITED"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)
