// Package templates renders the back-office HTML pages and HTMX fragments.
// Components are written in the .templ files next to this one; the
// *_templ.go files are generated from them with `templ generate`.
package templates

//go:generate templ generate

import "strings"

// HeaderData is shared by every full page.
type HeaderData struct {
	CompanyName string
	ActiveKind  string // "invoices", "quotes", "templates" or "" for settings
}

type navLink struct {
	href  string
	kind  string
	label string
}

var navLinks = []navLink{
	{"/invoices", "invoices", "Invoices"},
	{"/quotes", "quotes", "Quotes"},
	{"/templates", "templates", "Templates"},
	{"/settings", "", "Settings"},
}

func (l navLink) active(activeKind string) bool {
	return l.kind == activeKind
}

func pageTitle(title string, header HeaderData) string {
	if header.CompanyName == "" {
		return title
	}
	return title + " | " + header.CompanyName
}

func statusClass(status string) string {
	switch strings.ToLower(status) {
	case "paid", "accepted":
		return "badge badge-success"
	case "sent":
		return "badge badge-info"
	case "cancelled":
		return "badge badge-muted"
	default:
		return "badge"
	}
}
