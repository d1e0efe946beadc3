package pdflayout

import "github.com/go-pdf/fpdf"

// Table styling mirrors the export's grid look: green header band, small body
// font, padded cells, full grid lines.
const (
	tableFontSize     = 8
	tableLineHeightMM = 3.6
	cellPaddingMM     = 2
)

// renderTable draws rows as a grid table starting at startY. The first row is
// the header; it is repeated whenever the body spills onto a new page. Returns
// the final Y position below the table, which is the only trustworthy cursor
// value once auto-pagination has run.
func renderTable(pdf *fpdf.Fpdf, tr func(string) string, rows [][]string, startY float64, g geometry) float64 {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return startY
	}
	colW := g.contentW / float64(cols)

	header := rows[0]
	body := rows[1:]
	limit := g.pageH - marginMM

	y := startY
	headerH := rowHeight(pdf, tr, header, colW, true)
	if y+headerH > limit {
		pdf.AddPage()
		y = marginMM
	}
	y = drawTableRow(pdf, tr, header, y, colW, cols, true)

	for _, row := range body {
		h := rowHeight(pdf, tr, row, colW, false)
		if y+h > limit {
			pdf.AddPage()
			y = marginMM
			y = drawTableRow(pdf, tr, header, y, colW, cols, true)
		}
		y = drawTableRow(pdf, tr, row, y, colW, cols, false)
	}
	return y
}

// rowHeight measures the tallest wrapped cell. Ragged rows count missing cells
// as empty.
func rowHeight(pdf *fpdf.Fpdf, tr func(string) string, row []string, colW float64, header bool) float64 {
	setCellFont(pdf, header)
	maxLines := 1
	for _, cell := range row {
		lines := len(pdf.SplitText(tr(cell), colW-2*cellPaddingMM))
		if lines > maxLines {
			maxLines = lines
		}
	}
	return float64(maxLines)*tableLineHeightMM + 2*cellPaddingMM
}

func drawTableRow(pdf *fpdf.Fpdf, tr func(string) string, row []string, y float64, colW float64, cols int, header bool) float64 {
	h := rowHeight(pdf, tr, row, colW, header)
	setCellFont(pdf, header)
	pdf.SetDrawColor(180, 180, 180)

	for c := 0; c < cols; c++ {
		x := marginMM + float64(c)*colW
		if header {
			pdf.SetFillColor(34, 197, 94)
			pdf.Rect(x, y, colW, h, "FD")
		} else {
			pdf.Rect(x, y, colW, h, "D")
		}

		cell := ""
		if c < len(row) {
			cell = row[c]
		}
		textY := y + cellPaddingMM + tableLineHeightMM*0.8
		for _, line := range pdf.SplitText(tr(cell), colW-2*cellPaddingMM) {
			pdf.Text(x+cellPaddingMM, textY, line)
			textY += tableLineHeightMM
		}
	}
	return y + h
}

func setCellFont(pdf *fpdf.Fpdf, header bool) {
	if header {
		pdf.SetFont("Helvetica", "B", tableFontSize)
		pdf.SetTextColor(255, 255, 255)
	} else {
		pdf.SetFont("Helvetica", "", tableFontSize)
		pdf.SetTextColor(0, 0, 0)
	}
}
