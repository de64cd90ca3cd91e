package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Field is one labelled value inside a Section.
type Field struct {
	Label string
	Value string
}

// Section groups related fields under a heading.
type Section struct {
	Heading string
	Fields  []Field
	// Table renders below the fields when it carries headers.
	Table Dataset
}

// PDFExporter renders datasets and record summaries into PDF documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := newDocument(title, "")
	writeTable(pdf, data)
	return output(pdf)
}

// RenderSummary lays out a single record as labelled sections.
func (e *PDFExporter) RenderSummary(title, subtitle string, sections []Section) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("pdf summary requires at least one section")
	}
	pdf := newDocument(title, subtitle)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, section := range sections {
		pdf.SetFont("Arial", "B", 11)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(0, 8, tr(section.Heading), "", 1, "L", true, 0, "")
		pdf.Ln(1)

		for _, field := range section.Fields {
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(55, 6, tr(field.Label), "", 0, "L", false, 0, "")
			pdf.SetFont("Arial", "", 9)
			value := field.Value
			if value == "" {
				value = "-"
			}
			pdf.MultiCell(0, 6, tr(value), "", "L", false)
		}
		if len(section.Table.Headers) > 0 {
			pdf.Ln(1)
			writeTable(pdf, section.Table)
		}
		pdf.Ln(4)
	}
	return output(pdf)
}

func newDocument(title, subtitle string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	}
	if subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, subtitle, "", 1, "C", false, 0, "")
	}
	if title != "" || subtitle != "" {
		pdf.Ln(5)
	}
	return pdf
}

func writeTable(pdf *gofpdf.Fpdf, data Dataset) {
	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
