// Package fallback provides the static placeholder documents returned when
// the generation provider is unavailable. Templates are embedded at compile
// time and read-only after load.
package fallback

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"rhai/internal/domain"
)

//go:embed templates.json
var templateFiles embed.FS

const bodyKey = "_body"

// Templates renders placeholder documents per document type.
type Templates struct {
	body   string
	titles map[domain.DocumentType]string
}

// Load parses the embedded template table and checks every document type has a title.
func Load() (*Templates, error) {
	data, err := templateFiles.ReadFile("templates.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read fallback templates: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fallback templates: %w", err)
	}

	body, ok := raw[bodyKey]
	if !ok || body == "" {
		return nil, fmt.Errorf("fallback templates: %q is missing", bodyKey)
	}

	titles := make(map[domain.DocumentType]string, len(domain.DocumentTypes))
	for _, dt := range domain.DocumentTypes {
		title, ok := raw[string(dt)]
		if !ok {
			return nil, fmt.Errorf("fallback templates: no title for %q", dt)
		}
		titles[dt] = title
	}

	return &Templates{body: body, titles: titles}, nil
}

// MustLoad is Load that panics on error. Use it at process start.
func MustLoad() *Templates {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Render interpolates only the document type, company name and employee name.
func (t *Templates) Render(docType domain.DocumentType, companyName, employeeName string) string {
	title, ok := t.titles[docType]
	if !ok {
		title = strings.ToUpper(docType.Label())
	}
	return format(t.body, map[string]string{
		"Title":        title,
		"Label":        docType.Label(),
		"CompanyName":  companyName,
		"EmployeeName": employeeName,
	})
}

// format replaces {{.Key}} placeholders in a single pass, so substituted
// values are never re-expanded.
func format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
