package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateDocumentExcel creates an Excel workbook from the given ExportData
// and returns the file contents as a byte slice. Amounts are written as
// numbers with a 2-decimal format so the sheet stays summable.
func GenerateDocumentExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Determine sheet name (max 31 chars).
	sheetName := data.Number
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = data.Kind.Label()
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	// Column references (A through G).
	columns := []string{"A", "B", "C", "D", "E", "F", "G"}
	lastCol := columns[len(columns)-1]

	widths := []float64{6, 44, 10, 16, 18, 10, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	sectionStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#EBEBEB"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create section style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	moneyFmt := "#,##0.00"
	amountStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: &moneyFmt,
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header Rows (1-4) ───────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(joinNonEmpty([]string{data.Company.Name, data.Title}, " - ")))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	headerLines := []string{
		fmtField("No", data.Number),
		fmtField("Client", data.Client.Name),
		joinNonEmpty([]string{fmtField("Date", data.IssueDate), fmtField("Due", data.DueDate)}, "   "),
	}
	for i, line := range headerLines {
		r := fmt.Sprintf("%d", i+2)
		if err := f.MergeCell(sheetName, "A"+r, lastCol+r); err != nil {
			return nil, fmt.Errorf("merge header row %s: %w", r, err)
		}
		f.SetCellValue(sheetName, "A"+r, sanitizeExcelCell(line))
		f.SetCellStyle(sheetName, "A"+r, lastCol+r, subtitleStyle)
	}

	// ── Row 6: Column Headers ───────────────────────────────────────────

	headers := []string{"#", "Description", "Qty", "Unit Cost", "Amount", "Labor %", "Labor"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s6", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A6", lastCol+"6", headerStyle)

	// ── Sections (starting row 7) ───────────────────────────────────────

	row := 7
	for _, sec := range data.Sections {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+rowStr, sanitizeExcelCell(sec.Name))
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, sectionStyle)
		row++

		for _, r := range sec.Rows {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+rowStr, r.Index)
			f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(r.Description))
			f.SetCellValue(sheetName, "C"+rowStr, r.Quantity.InexactFloat64())
			f.SetCellValue(sheetName, "D"+rowStr, r.UnitCost.InexactFloat64())
			f.SetCellValue(sheetName, "E"+rowStr, r.Amount.InexactFloat64())
			f.SetCellValue(sheetName, "F"+rowStr, r.LaborPct.InexactFloat64())
			f.SetCellValue(sheetName, "G"+rowStr, r.Labor.InexactFloat64())
			f.SetCellStyle(sheetName, "A"+rowStr, "C"+rowStr, itemStyle)
			f.SetCellStyle(sheetName, "D"+rowStr, "E"+rowStr, amountStyle)
			f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, itemStyle)
			f.SetCellStyle(sheetName, "G"+rowStr, "G"+rowStr, amountStyle)
			row++
		}

		rowStr = fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+rowStr, "Subtotal:")
		f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "E"+rowStr, sec.Subtotal.InexactFloat64())
		f.SetCellValue(sheetName, "G"+rowStr, sec.Labor.InexactFloat64())
		f.SetCellStyle(sheetName, "E"+rowStr, "G"+rowStr, summaryValueStyle)
		row++
	}

	// ── Summary Rows ────────────────────────────────────────────────────

	row++

	taxLabel := fmt.Sprintf("VAT %s:", FormatPercent(data.TaxRate))
	if data.TaxMode == TaxInclusive {
		taxLabel = fmt.Sprintf("VAT %s (included):", FormatPercent(data.TaxRate))
	}
	summary := []struct {
		label string
		value float64
	}{
		{"Materials:", data.MaterialSubtotal.InexactFloat64()},
		{"Labor:", data.LaborSubtotal.InexactFloat64()},
		{"Subtotal:", data.Subtotal.InexactFloat64()},
		{taxLabel, data.TaxAmount.InexactFloat64()},
		{"Discount:", data.DiscountAmount.InexactFloat64()},
		{"Grand Total:", data.GrandTotal.InexactFloat64()},
	}
	for _, s := range summary {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+rowStr, s.label)
		f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "E"+rowStr, s.value)
		f.SetCellStyle(sheetName, "E"+rowStr, "E"+rowStr, summaryValueStyle)
		row++
	}

	if data.AmountInWords != "" {
		rowStr := fmt.Sprintf("%d", row+1)
		if err := f.MergeCell(sheetName, "A"+rowStr, lastCol+rowStr); err != nil {
			return nil, fmt.Errorf("merge amount in words: %w", err)
		}
		f.SetCellValue(sheetName, "A"+rowStr, "Amount in Words: "+data.AmountInWords)
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
