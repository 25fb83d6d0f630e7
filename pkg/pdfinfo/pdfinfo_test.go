package pdfinfo

import (
	"bytes"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderPages(t *testing.T, pages int) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Arial", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Cell(40, 10, "Section A")
	}
	buf := &bytes.Buffer{}
	require.NoError(t, doc.Output(buf))
	return buf.Bytes()
}

func TestPageCount(t *testing.T) {
	n, err := PageCount(renderPages(t, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPageCountRejectsNonPDF(t *testing.T) {
	_, err := PageCount([]byte("\x89PNG\r\n"))
	assert.ErrorIs(t, err, ErrNotPDF)
}

func TestPageCountTruncated(t *testing.T) {
	_, err := PageCount([]byte("%PDF-1.4\n1 0 obj\n"))
	assert.Error(t, err)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7")))
	assert.False(t, IsPDF([]byte("PK\x03\x04")))
}
