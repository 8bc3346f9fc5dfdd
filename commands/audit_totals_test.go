package commands

import (
	"bytes"
	"strings"
	"testing"

	"backoffice/testhelpers"
)

func TestAuditTotals_ReportsAndFixesDrift(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// Stored total 900 for a 1 x 850 item at 16% VAT, which computes to 986.
	inv := testhelpers.CreateTestDocument(t, app, "invoices", "INV-2024-007", 900)
	testhelpers.CreateTestItem(t, app, "invoice_items", inv.Id, 1, "Site prep", 1, 850, 36.5)

	var out bytes.Buffer
	cmd := NewAuditTotalsCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--kind", "invoices"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("audit-totals error: %v", err)
	}
	report := out.String()
	for _, want := range []string{"INV-2024-007", "900.00", "986.00", "--fix"} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	out.Reset()
	fixCmd := NewAuditTotalsCommand(app)
	fixCmd.SetOut(&out)
	fixCmd.SetArgs([]string{"--kind", "invoices", "--fix"})
	if err := fixCmd.Execute(); err != nil {
		t.Fatalf("audit-totals --fix error: %v", err)
	}
	if !strings.Contains(out.String(), "Rewrote totals on 1 document(s).") {
		t.Errorf("unexpected fix output:\n%s", out.String())
	}

	got, _ := app.FindRecordById("invoices", inv.Id)
	if got.GetFloat("total_amount") != 986 {
		t.Errorf("total_amount after fix = %v, want 986", got.GetFloat("total_amount"))
	}
}

func TestAuditTotals_Clean(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	var out bytes.Buffer
	cmd := NewAuditTotalsCommand(app)
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("audit-totals error: %v", err)
	}
	if !strings.Contains(out.String(), "All stored totals match.") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestAuditTotals_UnknownKind(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	cmd := NewAuditTotalsCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--kind", "receipts"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown kind")
	}
}
