package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const unicodeFamily = "unicode"

// PDFExporter renders datasets into a landscape table. Core PDF fonts cannot
// draw Hangul, so a UTF-8 TrueType font should be configured for Korean data;
// without one, unsupported characters are replaced.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath may be empty.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates a PDF with an optional title above the table.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)

	family := "Arial"
	text := pdf.UnicodeTranslatorFromDescriptor("")
	if e.fontPath != "" {
		pdf.AddUTF8Font(unicodeFamily, "", e.fontPath)
		pdf.AddUTF8Font(unicodeFamily, "B", e.fontPath)
		family = unicodeFamily
		text = func(s string) string { return s }
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, text(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(data.Headers))

	pdf.SetFont(family, "B", 9)
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, text(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(family, "", 8)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, text(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
