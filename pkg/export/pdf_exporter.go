package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const landscapeColumns = 6

// PDFExporter renders datasets into a paginated table.
type PDFExporter struct {
	now func() time.Time
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{now: time.Now}
}

// Render creates a PDF with a title, generation date and the table body. Wide
// datasets switch to landscape and the header row repeats on every page.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	orientation := "P"
	if len(data.Headers) >= landscapeColumns {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(data.Headers))

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range data.Headers {
			pdf.CellFormat(colWidth, 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 5, "Generated "+e.now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}
	header()
	for i := range data.Rows {
		for _, value := range data.Record(i) {
			pdf.CellFormat(colWidth, 7, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
