package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Sheet is a printable question paper.
type Sheet struct {
	Title    string
	Subtitle string
	Intro    string
	Items    []SheetItem
}

// SheetItem is one numbered question on a sheet.
type SheetItem struct {
	Number  string
	Content string
	Figures []string
}

// SheetExporter renders question sheets as A4 PDFs.
type SheetExporter struct{}

// NewSheetExporter constructs a sheet exporter.
func NewSheetExporter() *SheetExporter {
	return &SheetExporter{}
}

// Render lays out the sheet title, optional intro and each question with its figure links.
func (e *SheetExporter) Render(sheet Sheet) ([]byte, error) {
	if strings.TrimSpace(sheet.Title) == "" {
		return nil, fmt.Errorf("sheet requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 15)
	pdf.MultiCell(0, 8, tr(sheet.Title), "", "C", false)
	if sheet.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 6, tr(sheet.Subtitle), "", "C", false)
	}
	pdf.Ln(4)

	if sheet.Intro != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 5, tr(sheet.Intro), "", "L", false)
		pdf.Ln(3)
	}

	for _, item := range sheet.Items {
		if item.Number != "" {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(12, 6, tr(item.Number+"."), "", 0, "L", false, 0, "")
		}
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 6, tr(item.Content), "", "L", false)
		for i, figure := range item.Figures {
			pdf.SetX(27)
			pdf.SetFont("Arial", "U", 9)
			pdf.SetTextColor(30, 60, 160)
			pdf.CellFormat(0, 5, fmt.Sprintf("Figure %d", i+1), "", 1, "L", false, 0, figure)
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Ln(3)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
