package client

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"rhai/internal/domain"
)

// ErrNothingToDownload is returned when no document is displayed.
var ErrNothingToDownload = errors.New("aucun contenu à télécharger")

var nowFunc = time.Now

// DownloadFileName returns "<type>_<employee>_<dd-mm-yyyy>.txt". Whitespace
// runs in the employee name become "_" and characters unsafe in file names
// are dropped.
func DownloadFileName(docType domain.DocumentType, employeeName string, at time.Time) string {
	name := sanitizeFileComponent(employeeName)
	if name == "" {
		name = "document"
	}
	kind := sanitizeFileComponent(string(docType))
	if kind == "" {
		kind = "document"
	}
	return kind + "_" + name + "_" + at.Format("02-01-2006") + ".txt"
}

func sanitizeFileComponent(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case unicode.IsSpace(r):
			pendingSep = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}

// FileName is the download name for the displayed document.
func (v *View) FileName(at time.Time) string {
	return DownloadFileName(v.DocumentType, v.EmployeeName, at)
}

// Download returns the file name and plain-text content of the displayed document.
func (v *View) Download(at time.Time) (string, []byte, error) {
	if v == nil || v.State != StateDisplaying || v.Document == "" {
		return "", nil, ErrNothingToDownload
	}
	return v.FileName(at), []byte(v.Document), nil
}
