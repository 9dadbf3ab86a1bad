package typocheck_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrycodes/typotrace/pkg/typocheck"
)

func TestIsPDF(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		want        bool
	}{
		{"report.pdf", "", true},
		{"REPORT.PDF", "", true},
		{"report", "application/pdf", true},
		{"report.bin", "application/pdf; charset=binary", true},
		{"report.txt", "text/plain", false},
		{"report.pdf.txt", "", false},
		{"report", "application/octet-stream", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, typocheck.IsPDF(tt.filename, tt.contentType))
		})
	}
}

func TestValidateRejectsNonPDF(t *testing.T) {
	doc := typocheck.NewDocument("report.txt", "text/plain", []byte("hello"))

	err := doc.Validate()

	var verr *typocheck.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, typocheck.ErrNotPDF)
	assert.Equal(t, "report.txt", verr.Filename)
	assert.Equal(t, "please upload a PDF", typocheck.Message(err))
}

func TestNewDocumentKeepsBaseName(t *testing.T) {
	assert.Equal(t, "report.pdf", typocheck.NewDocument("/tmp/in/report.pdf", "", nil).Filename)
	assert.Equal(t, "report.pdf", typocheck.NewDocument(`C:\docs\report.pdf`, "", nil).Filename)
}

func TestPageCountInvalidPDF(t *testing.T) {
	doc := typocheck.NewDocument("broken.pdf", typocheck.ContentTypePDF, []byte("not a pdf"))

	_, err := doc.PageCount()
	assert.Error(t, err)
}

func TestCorrectedName(t *testing.T) {
	assert.Equal(t, "corrected_report.pdf", typocheck.CorrectedName("report.pdf"))
	assert.Equal(t, "corrected_report.pdf", typocheck.CorrectedName("dir/report.pdf"))
	assert.Equal(t, "corrected_document.pdf", typocheck.CorrectedName(""))
}

func TestAccuracy(t *testing.T) {
	r := typocheck.AnalysisResult{TotalWords: 200, TotalTypos: 5}
	assert.InDelta(t, 97.5, r.Accuracy(), 0.001)
	assert.Equal(t, 100.0, typocheck.AnalysisResult{}.Accuracy())
}
