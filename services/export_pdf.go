package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	grayText  = &props.Color{Red: 100, Green: 100, Blue: 100}
	darkFill  = &props.Color{Red: 33, Green: 37, Blue: 41}
	whiteText = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// GenerateDocumentPDF renders an invoice, quote or template with maroto/v2.
// It returns the raw PDF bytes or an error.
func GenerateDocumentPDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addDocumentHeader(m, data)
	addParties(m, data)
	addItemsTableHeader(m)
	for _, sec := range data.Sections {
		addSection(m, sec, data.CurrencySymbol)
	}
	addDocumentTotals(m, data)
	addAmountInWords(m, data)
	addNotes(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s PDF: %w", data.Kind, err)
	}

	return doc.GetBytes(), nil
}

// addDocumentHeader adds the company name, document title and number.
func addDocumentHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(10).Add(
			col.New(6).Add(
				text.New(data.Company.Name, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(6).Add(
				text.New(data.Title, props.Text{
					Size:  14,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: darkFill,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(joinNonEmpty([]string{data.Company.Address, data.Company.Phone, data.Company.Email}, " | "), props.Text{
					Size:  8,
					Align: align.Left,
					Color: grayText,
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("No: %s", data.Number), props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	if data.Subject != "" {
		m.AddRows(
			row.New(7).Add(
				col.New(12).Add(
					text.New(data.Subject, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left}),
				),
			),
		)
	}

	m.AddRows(row.New(3))
}

// addParties adds the client block on the left and dates on the right.
func addParties(m core.Maroto, data ExportData) {
	labelStyle := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: grayText,
	}
	valueStyle := props.Text{Size: 8, Align: align.Left}
	rightStyle := props.Text{Size: 8, Align: align.Right}

	m.AddRows(
		row.New(5).Add(
			col.New(6).Add(text.New("BILL TO", labelStyle)),
			col.New(6).Add(text.New(fmtField("Date", data.IssueDate), rightStyle)),
		),
	)
	m.AddRows(
		row.New(5).Add(
			col.New(6).Add(text.New(data.Client.Name, props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left})),
			col.New(6).Add(text.New(fmtField("Due", data.DueDate), rightStyle)),
		),
	)

	for _, line := range []string{data.Client.Address, data.Client.Phone, data.Client.Email, fmtField("PIN", data.Client.TaxPIN)} {
		if line == "" {
			continue
		}
		m.AddRows(row.New(4).Add(col.New(12).Add(text.New(line, valueStyle))))
	}

	m.AddRows(row.New(4))
}

// addItemsTableHeader adds the column header row.
func addItemsTableHeader(m core.Maroto) {
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: whiteText,
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: darkFill}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(&headerCell),
			col.New(5).Add(text.New("Description", headerTextLeft)).WithStyle(&headerCell),
			col.New(1).Add(text.New("Qty", headerText)).WithStyle(&headerCell),
			col.New(2).Add(text.New("Unit Cost", headerText)).WithStyle(&headerCell),
			col.New(3).Add(text.New("Amount", headerText)).WithStyle(&headerCell),
		),
	)
}

// addSection adds a section heading, its rows and the section subtotal/labor lines.
func addSection(m core.Maroto, sec ExportSection, symbol string) {
	sectionCell := &props.Cell{BackgroundColor: &props.Color{Red: 235, Green: 235, Blue: 235}}
	m.AddRows(
		row.New(7).Add(
			col.New(12).Add(
				text.New(sec.Name, props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Left}),
			).WithStyle(sectionCell),
		),
	)

	base := props.Text{Size: 7, Align: align.Center}
	left := base
	left.Align = align.Left
	right := base
	right.Align = align.Right

	for _, r := range sec.Rows {
		m.AddRows(
			row.New(6).Add(
				col.New(1).Add(text.New(r.Index, base)),
				col.New(5).Add(text.New(r.Description, left)),
				col.New(1).Add(text.New(FormatQuantity(r.Quantity), right)),
				col.New(2).Add(text.New(FormatMoney(r.UnitCost, ""), right)),
				col.New(3).Add(text.New(FormatMoney(r.Amount, symbol), right)),
			),
		)
	}

	subtotalStyle := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(6).Add(
			col.New(9).Add(text.New(sec.Name+" Subtotal", subtotalStyle)),
			col.New(3).Add(text.New(FormatMoney(sec.Subtotal, symbol), subtotalStyle)),
		),
		row.New(6).Add(
			col.New(9).Add(text.New(sec.Name+" Labor", subtotalStyle)),
			col.New(3).Add(text.New(FormatMoney(sec.Labor, symbol), subtotalStyle)),
		),
	)
}

// addDocumentTotals adds right-aligned total rows.
func addDocumentTotals(m core.Maroto, data ExportData) {
	m.AddRows(row.New(4))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	labelStyle := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	valueStyle := props.Text{Size: 8, Align: align.Right}

	line := func(label string, amount string) {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(label, labelStyle)).WithStyle(summaryCell),
				col.New(3).Add(text.New(amount, valueStyle)).WithStyle(summaryCell),
			),
		)
	}

	symbol := data.CurrencySymbol
	line("Materials", FormatMoney(data.MaterialSubtotal, symbol))
	line("Labor", FormatMoney(data.LaborSubtotal, symbol))
	line("Subtotal", FormatMoney(data.Subtotal, symbol))

	taxLabel := fmt.Sprintf("VAT %s", FormatPercent(data.TaxRate))
	if data.TaxMode == TaxInclusive {
		taxLabel += " (included)"
	}
	line(taxLabel, FormatMoney(data.TaxAmount, symbol))
	if !data.DiscountAmount.IsZero() {
		line("Discount", "-"+FormatMoney(data.DiscountAmount, symbol))
	}

	grandCell := &props.Cell{BackgroundColor: darkFill}
	grandStyle := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: whiteText}
	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(text.New("Grand Total", grandStyle)).WithStyle(grandCell),
			col.New(3).Add(text.New(FormatMoney(data.GrandTotal, symbol), grandStyle)).WithStyle(grandCell),
		),
	)

	m.AddRows(row.New(3))
}

// addAmountInWords adds the amount in words row.
func addAmountInWords(m core.Maroto, data ExportData) {
	if data.AmountInWords == "" {
		return
	}

	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Amount in Words: %s", data.AmountInWords), props.Text{
					Size:  8,
					Style: fontstyle.BoldItalic,
					Align: align.Left,
				}),
			),
		),
	)

	m.AddRows(row.New(3))
}

// addNotes adds the notes block if non-empty.
func addNotes(m core.Maroto, data ExportData) {
	if data.Notes == "" {
		return
	}

	m.AddRows(
		row.New(5).Add(
			col.New(12).Add(text.New("NOTES", props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: grayText})),
		),
		row.New(12).Add(
			col.New(12).Add(text.New(data.Notes, props.Text{Size: 8, Align: align.Left})),
		),
	)
}
