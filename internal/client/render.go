package client

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

var (
	headingPattern  = regexp.MustCompile(`(?i)(ARTICLE|CHAPITRE|SECTION|TITRE)\s+([IVXLCDM]+|\d+)`)
	keywordPattern  = regexp.MustCompile(`(?i)(ENTRE LES SOUSSIGNÉS|CONTRAT DE TRAVAIL|PROCÈS-VERBAL|ATTESTATION)`)
	emphasisPattern = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// FormatDocument turns plain generated text into display HTML. The text is
// escaped first; line breaks, headings and **bold** markers are then the
// only markup added.
func FormatDocument(text string) template.HTML {
	out := template.HTMLEscapeString(text)
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\n", "<br>")
	out = headingPattern.ReplaceAllString(out, "<br><strong>$1 $2</strong><br>")
	out = keywordPattern.ReplaceAllString(out, "<strong>$1</strong>")
	out = emphasisPattern.ReplaceAllString(out, "<strong>$1</strong>")
	return template.HTML(out) //nolint:gosec // input escaped above
}

var panels = template.Must(template.New("panels").Parse(`
{{- define "document" -}}
<div class="contract-result">
<h3>📄 {{.Title}}</h3>
<div class="contract-content">{{.Body}}</div>
<a class="download-btn" download="{{.FileName}}">💾 Télécharger le Document</a>
</div>
{{- end -}}
{{- define "error" -}}
<div class="error-panel" role="alert">
<h3>❌ Erreur de génération</h3>
<p>{{.Error}}</p>
{{- if .Suggestion}}
<p>{{.Suggestion}}</p>
{{- end}}
<p class="hint">{{.Hint}}</p>
<button class="dismiss-btn">Fermer</button>
</div>
{{- end -}}`))

// RenderHTML renders the panel for v: the document panel when a document is
// displayed, the error panel otherwise. Idle views render nothing.
func RenderHTML(v *View) (string, error) {
	if v == nil {
		return "", nil
	}

	var buf bytes.Buffer
	var err error
	switch v.State {
	case StateDisplaying:
		err = panels.ExecuteTemplate(&buf, "document", struct {
			Title    string
			Body     template.HTML
			FileName string
		}{
			Title:    v.Title,
			Body:     FormatDocument(v.Document),
			FileName: v.FileName(nowFunc()),
		})
	case StateErrorDisplayed:
		err = panels.ExecuteTemplate(&buf, "error", v)
	default:
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("rendering %s panel: %w", v.State, err)
	}
	return buf.String(), nil
}
