package typocheck

import (
	"bytes"
	"mime"
	"path"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ContentTypePDF is the only media type the service accepts.
const ContentTypePDF = "application/pdf"

// Document is a file selected for analysis.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewDocument creates a Document, keeping only the base name of filename.
func NewDocument(filename, contentType string, data []byte) Document {
	return Document{
		Filename:    path.Base(strings.ReplaceAll(filename, `\`, "/")),
		ContentType: strings.TrimSpace(contentType),
		Data:        data,
	}
}

// IsPDF reports whether a file looks like a PDF: its declared media type is
// application/pdf or its name ends in .pdf.
func IsPDF(filename, contentType string) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && mt == ContentTypePDF {
		return true
	}
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}

// Validate rejects documents that do not look like a PDF.
func (d Document) Validate() error {
	if !IsPDF(d.Filename, d.ContentType) {
		return &ValidationError{
			Filename:    d.Filename,
			ContentType: d.ContentType,
			Err:         ErrNotPDF,
		}
	}
	return nil
}

// Size returns the document size in bytes.
func (d Document) Size() int64 {
	return int64(len(d.Data))
}

// PageCount reads the number of pages in the document.
// It is informational only; the remote service performs the real parsing.
func (d Document) PageCount() (int, error) {
	return api.PageCount(bytes.NewReader(d.Data), nil)
}

// CorrectedName returns the file name used when saving the corrected result.
func CorrectedName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if base == "." || base == "/" || base == "" {
		base = "document.pdf"
	}
	return "corrected_" + base
}
