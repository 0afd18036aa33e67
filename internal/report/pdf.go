package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 14.0
	lineHeight = 6.0
	footerText = "DP-600 Exam Preparation App | Microsoft Fabric Analytics Engineer Associate"
)

// Header fill is the Microsoft blue used throughout the report.
var brand = [3]int{0, 120, 212}

type pdfWriter struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// renderPDF lays out the report on A4 pages. Compression is switchable so
// tests can search the content stream for text.
func renderPDF(w io.Writer, in Input, compress bool) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetTitle(in.Title, true)
	pdf.SetSubject(in.Subtitle, true)
	pdf.SetCreator("examiz", false)
	pdf.SetCreationDate(in.GeneratedAt)
	pdf.AliasNbPages("{nb}")

	pw := &pdfWriter{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(pw.footer)
	pdf.AddPage()

	pw.heading(in)
	pw.overall(in)
	pw.categories(in)
	pw.questions(in)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("layout pdf: %w", err)
	}
	return pdf.Output(w)
}

func (p *pdfWriter) contentWidth() float64 {
	width, _ := p.pdf.GetPageSize()
	left, _, right, _ := p.pdf.GetMargins()
	return width - left - right
}

func (p *pdfWriter) footer() {
	p.pdf.SetY(-12)
	p.pdf.SetFont("Helvetica", "", 8)
	p.pdf.SetTextColor(150, 150, 150)
	p.pdf.CellFormat(0, 5, footerText, "", 0, "C", false, 0, "")
	p.pdf.SetX(-40)
	p.pdf.CellFormat(26, 5, fmt.Sprintf("Page %d of {nb}", p.pdf.PageNo()), "", 0, "R", false, 0, "")
}

func (p *pdfWriter) heading(in Input) {
	pdf := p.pdf
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(brand[0], brand[1], brand[2])
	pdf.CellFormat(0, 10, p.tr(in.Title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 7, p.tr(in.Subtitle), "", 1, "C", false, 0, "")

	pdf.SetFontSize(10)
	pdf.CellFormat(0, 6, "Generated on: "+in.GeneratedAt.Format("2006-01-02"), "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func (p *pdfWriter) section(title string) {
	p.pdf.SetFont("Helvetica", "B", 14)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (p *pdfWriter) overall(in Input) {
	r := in.Result
	p.section("Overall Score")

	pdf := p.pdf
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Score: %d/%d (%d%%)",
		r.Overall.Correct, r.Overall.Total, r.Overall.Percentage), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, fmt.Sprintf("Result: %s (pass mark %d%%)",
		passLabel(r), r.PassThreshold), "", 1, "L", false, 0, "")
	if d := formatDuration(in.Duration); d != "" {
		pdf.CellFormat(0, lineHeight, "Time taken: "+d, "", 1, "L", false, 0, "")
	}
	if in.AttemptID != "" {
		pdf.SetFontSize(9)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, lineHeight, "Attempt "+in.AttemptID, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (p *pdfWriter) categories(in Input) {
	p.section("Category Breakdown")

	total := p.contentWidth()
	widths := []float64{total * 0.5, total * 0.25, total * 0.25}
	header := []string{"Category", "Score", "Percentage"}

	p.tableHeader(header, widths)
	p.pdf.SetFont("Helvetica", "", 10)
	for _, c := range in.Result.Categories {
		p.tableRow(widths, []string{
			c.Label,
			fmt.Sprintf("%d/%d", c.Correct, c.Total),
			fmt.Sprintf("%d%%", c.Percentage),
		}, header)
	}
	p.pdf.Ln(8)
}

func (p *pdfWriter) questions(in Input) {
	p.section("Question Analysis")

	total := p.contentWidth()
	widths := []float64{12, 22, (total - 34) / 2, (total - 34) / 2}
	header := []string{"#", "Result", "Your Answer", "Correct Answer"}

	p.tableHeader(header, widths)
	p.pdf.SetFont("Helvetica", "", 10)
	for _, row := range Rows(in) {
		p.tableRow(widths, []string{
			fmt.Sprintf("%d", row.Position),
			string(row.Status),
			row.YourAnswer,
			row.CorrectAnswer,
		}, header)
	}
}

func (p *pdfWriter) tableHeader(cols []string, widths []float64) {
	pdf := p.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(brand[0], brand[1], brand[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(200, 200, 200)
	for i, c := range cols {
		pdf.CellFormat(widths[i], 7, c, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

// tableRow draws one grid row whose height fits the tallest wrapped cell.
// The header is repeated when the row has to move to a new page.
func (p *pdfWriter) tableRow(widths []float64, cells, header []string) {
	pdf := p.pdf
	const cellLine = 5.0

	lines := make([][]string, len(cells))
	height := cellLine
	for i, c := range cells {
		lines[i] = pdf.SplitText(p.tr(c), widths[i]-2)
		if len(lines[i]) == 0 {
			lines[i] = []string{""}
		}
		if h := float64(len(lines[i])) * cellLine; h > height {
			height = h
		}
	}

	_, pageHeight := pdf.GetPageSize()
	_, bottom := pdf.GetAutoPageBreak()
	if pdf.GetY()+height > pageHeight-bottom {
		pdf.AddPage()
		p.tableHeader(header, widths)
		pdf.SetFont("Helvetica", "", 10)
	}

	x, y := pdf.GetXY()
	for i := range cells {
		pdf.Rect(x, y, widths[i], height, "D")
		for j, line := range lines[i] {
			pdf.SetXY(x+1, y+float64(j)*cellLine)
			pdf.CellFormat(widths[i]-2, cellLine, line, "", 0, "L", false, 0, "")
		}
		x += widths[i]
	}
	left, _, _, _ := pdf.GetMargins()
	pdf.SetXY(left, y+height)
}
