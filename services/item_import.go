package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: must be .csv or .xlsx")

// ImportError is a single field-level problem on one row of an items file.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult is returned after parsing and validating an items file.
type ImportResult struct {
	TotalRows int           `json:"total_rows"`
	ValidRows int           `json:"valid_rows"`
	ErrorRows int           `json:"error_rows"`
	Errors    []ImportError `json:"errors"`
	Items     []LineItem    `json:"-"`
	FileName  string        `json:"-"`
}

// importColumn is one recognised column of an items file.
type importColumn struct {
	key     string
	label   string
	aliases []string
}

var importColumns = []importColumn{
	{"description", "Description", []string{"item", "item description"}},
	{"section", "Section", []string{"group"}},
	{"quantity", "Quantity", []string{"qty"}},
	{"unit_cost", "Unit Cost", []string{"material cost", "unit price", "rate"}},
	{"labor_percentage", "Labor %", []string{"labour %", "labor percentage", "labour percentage"}},
}

// ItemsFileHeaders are the column headers of a blank items file.
func ItemsFileHeaders() []string {
	headers := make([]string, len(importColumns))
	for i, c := range importColumns {
		headers[i] = c.label
	}
	return headers
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}

	return rows[0], rows[1:], nil
}

// mapHeaders maps uploaded column headers to column keys. Unknown headers map
// to "" and are returned in unrecognized.
func mapHeaders(headers []string) ([]string, []string) {
	lookup := make(map[string]string)
	for _, c := range importColumns {
		lookup[strings.ToLower(c.label)] = c.key
		for _, a := range c.aliases {
			lookup[a] = c.key
		}
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := lookup[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ParseItemsFile reads line items from a .csv or .xlsx file. Rows with
// problems are reported in Errors and left out of Items. A missing Labor %
// takes the default from settings.
func ParseItemsFile(file io.Reader, fileName string, settings Settings) (*ImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}

	columnKeys, _ := mapHeaders(headers)
	if !containsKey(columnKeys, "description") {
		return nil, fmt.Errorf("missing required column %q", "Description")
	}

	result := &ImportResult{FileName: fileName}
	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row

		rowData := make(map[string]string)
		blank := true
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
			if rowData[key] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		item, rowErrors := itemFromRow(rowNum, rowData, settings)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Items = append(result.Items, item)
	}
	result.ValidRows = len(result.Items)

	return result, nil
}

func itemFromRow(rowNum int, data map[string]string, settings Settings) (LineItem, []ImportError) {
	var errs []ImportError
	item := NewLineItem(settings.DefaultLaborPercentage)

	item.Description = data["description"]
	if item.Description == "" {
		errs = append(errs, ImportError{Row: rowNum, Field: "Description", Message: "Description is required"})
	}
	item.Section = NormalizeSection(data["section"])

	number := func(key, label string, fallback decimal.Decimal) decimal.Decimal {
		raw := strings.ReplaceAll(data[key], ",", "")
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
		if raw == "" {
			return fallback
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, ImportError{Row: rowNum, Field: label, Message: fmt.Sprintf("%s must be a number", label)})
			return fallback
		}
		return d
	}

	item.Quantity = number("quantity", "Quantity", decimal.NewFromInt(1))
	item.UnitCost = number("unit_cost", "Unit Cost", decimal.Zero)
	item.LaborPercentage = number("labor_percentage", "Labor %", settings.DefaultLaborPercentage)

	if !item.Quantity.IsPositive() {
		errs = append(errs, ImportError{Row: rowNum, Field: "Quantity", Message: "Quantity must be greater than zero"})
	}
	if item.UnitCost.IsNegative() {
		errs = append(errs, ImportError{Row: rowNum, Field: "Unit Cost", Message: "Unit Cost cannot be negative"})
	}
	if item.LaborPercentage.IsNegative() {
		errs = append(errs, ImportError{Row: rowNum, Field: "Labor %", Message: "Labor % cannot be negative"})
	}

	return item, errs
}

func containsKey(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

// GenerateItemsTemplate creates a blank .xlsx items file with the expected headers.
func GenerateItemsTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Items"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range ItemsFileHeaders() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 44)
	f.SetColWidth(sheet, "B", "E", 16)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write items template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from import errors.
func GenerateErrorReport(errors []ImportError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	defaultSheet := f.GetSheetName(0)
	f.SetSheetName(defaultSheet, sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := fmt.Sprintf("%d", i+2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, e.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
