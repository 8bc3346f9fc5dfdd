package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// formatDocumentNumber constructs the document number string from components.
func formatDocumentNumber(kind DocumentKind, year, sequence int) string {
	return fmt.Sprintf("%s-%d-%03d", kind.NumberPrefix(), year, sequence)
}

// parseSequence extracts the trailing sequence from a number produced by
// formatDocumentNumber. ok is false for numbers with a different prefix or a
// non-numeric tail.
func parseSequence(number, prefix string) (int, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(number, prefix))
	if err != nil {
		return 0, false
	}
	return seq, true
}

// GenerateDocumentNumber creates the next number for a document kind.
// Format: {prefix}-{year}-{sequence}
//   - prefix: INV, QT or TPL
//   - year: calendar year of now
//   - sequence: 3-digit zero-padded, per kind per year, one past the highest
//     existing sequence so numbers freed by deletes are not reissued
func GenerateDocumentNumber(app core.App, kind DocumentKind, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", kind.NumberPrefix(), now.Year())

	existing, err := app.FindRecordsByFilter(
		kind.Collection(),
		"number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"prefix": prefix + "%",
		},
	)
	if err != nil {
		return "", fmt.Errorf("look up %s numbers: %w", kind, err)
	}

	highest := 0
	for _, rec := range existing {
		if seq, ok := parseSequence(rec.GetString("number"), prefix); ok && seq > highest {
			highest = seq
		}
	}

	return formatDocumentNumber(kind, now.Year(), highest+1), nil
}
