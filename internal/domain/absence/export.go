package absence

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderPDF writes a one-table report of requests to w.
func RenderPDF(w io.Writer, title string, generatedAt time.Time, requests []Request) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s, %d request(s)", generatedAt.UTC().Format("2006-01-02 15:04 MST"), len(requests)))
	pdf.Ln(10)

	headers := []string{"Employee", "Start", "End", "Days", "Status", "Decided by", "Reason"}
	widths := []float64{50, 25, 25, 15, 25, 45, 92}
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, req := range requests {
		name := req.EmployeeName
		if name == "" {
			name = req.EmployeeID
		}
		cells := []string{
			name,
			req.StartDate,
			req.EndDate,
			fmt.Sprintf("%d", req.Days),
			string(req.Status),
			req.ApprovedByName,
			truncate(req.Reason, 60),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render absence pdf: %w", err)
	}
	return nil
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-1]) + "…"
}
