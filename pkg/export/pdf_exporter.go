package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	rowHeight    = 7.0
	titleSpace   = 15.0
	bottomMargin = 10.0
)

// PDFExporter renders a workbook into a tabular PDF, one section per sheet. Merged cells are drawn as a single
// spanning cell
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) Render(workbook Workbook) ([]byte, error) {
	pdf := newDocument()
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for _, sheet := range workbook.Sheets {
		if len(sheet.Headers) == 0 {
			return nil, fmt.Errorf("pdf requires at least one header: sheet %v", sheet.Name)
		}
		renderSheet(pdf, sheet, translate)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// newDocument lays out pages manually, so the automatic break is off and only records the bottom margin
func newDocument() *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, bottomMargin)
	return pdf
}

// rowsPerPage counts the rows that fit under the title and header row of a page
func rowsPerPage(pdf *gofpdf.Fpdf) int {
	_, top, _, bottom := pdf.GetMargins()
	_, height := pdf.GetPageSize()
	return int((height - top - bottom - titleSpace - rowHeight) / rowHeight)
}

func renderSheet(pdf *gofpdf.Fpdf, sheet *Sheet, translate func(string) string) {
	left, top, right, _ := pdf.GetMargins()
	width, _ := pdf.GetPageSize()
	colWidth := (width - left - right) / float64(len(sheet.Headers))
	fontSize := 9.0
	if len(sheet.Headers) > 8 {
		fontSize = 7
	}

	perPage := rowsPerPage(pdf)
	spans := sheet.spans()

	for first := 0; first == 0 || first < len(sheet.Rows); first += perPage {
		pdf.AddPage()

		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, translate(strings.ToUpper(sheet.Title)), "", 1, "C", false, 0, "")
		pdf.SetY(top + titleSpace)

		pdf.SetFont("Arial", "B", fontSize)
		for _, header := range sheet.Headers {
			pdf.CellFormat(colWidth, rowHeight, translate(header), "1", 0, "C", false, 0, "")
		}

		pdf.SetFont("Arial", "", fontSize)
		last := min(first+perPage, len(sheet.Rows))
		for r := first; r < last; r++ {
			y := top + titleSpace + rowHeight*float64(r-first+1)
			for c, value := range sheet.Rows[r] {
				rows, columns := 1, 1
				if merge, ok := spans[[2]int{r, c}]; ok {
					// Covered cells are drawn by the block's first visible row
					if c != merge.Column || (r != merge.Row && r != first) {
						continue
					}
					rows = min(merge.Row+merge.Rows, last) - r
					columns = merge.Columns
					if r != merge.Row {
						value = sheet.Rows[merge.Row][merge.Column]
					}
				}
				pdf.SetXY(left+colWidth*float64(c), y)
				pdf.CellFormat(colWidth*float64(columns), rowHeight*float64(rows), translate(value), "1", 0, "C", false, 0, "")
			}
		}
	}
}
