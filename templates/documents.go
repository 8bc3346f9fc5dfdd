package templates

// DocumentRowView is one row of a document list.
type DocumentRowView struct {
	ID        string
	Number    string
	Title     string
	Status    string
	IssueDate string
	Total     string
}

// DocumentListData holds the data for a list of invoices, quotes or templates.
type DocumentListData struct {
	Kind      string // collection name used in URLs
	KindLabel string // plural, for headings
	Rows      []DocumentRowView
}

// ItemRowView is one formatted line item.
type ItemRowView struct {
	Index       string
	Description string
	Quantity    string
	UnitCost    string
	Amount      string
	LaborPct    string
	Labor       string
}

// SectionView is a section heading with its rows and summary.
type SectionView struct {
	Name     string
	Rows     []ItemRowView
	Subtotal string
	Labor    string
}

// TotalsView is the formatted totals block.
type TotalsView struct {
	Materials     string
	Labor         string
	Subtotal      string
	TaxLabel      string
	Tax           string
	Discount      string
	HasDiscount   bool
	GrandTotal    string
	AmountInWords string
}

// DocumentViewData holds the data for a single document page.
type DocumentViewData struct {
	Kind       string
	KindLabel  string
	ID         string
	Number     string
	Title      string
	Status     string
	IssueDate  string
	DueDate    string
	ClientName string
	Notes      string
	Sections   []SectionView
	Totals     TotalsView
	// Drift lists stored totals that differ from the recomputed ones.
	Drift []string
	// Issued documents show their stored totals rather than recomputed ones.
	Issued bool
}

func (d DocumentListData) rowURL(r DocumentRowView) string {
	return "/" + d.Kind + "/" + r.ID
}

func (d DocumentViewData) exportURL(format string) string {
	return "/" + d.Kind + "/" + d.ID + "/export/" + format
}
