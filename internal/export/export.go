// Package export renders pricing analyses and grant budgets as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/govsure/costroll/internal/advisory"
	"github.com/govsure/costroll/internal/budget"
	"github.com/govsure/costroll/internal/money"
	"github.com/govsure/costroll/internal/pricing"
)

const (
	currencyFormat = `"$"#,##0.00`
	flagsSheet     = "Flags"
	maxSheetName   = 31
)

type styles struct {
	title    int
	header   int
	currency int
	total    int
}

func newStyles(f *excelize.File) (styles, error) {
	var s styles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F3864"}, Pattern: 1},
	}); err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}
	if s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(currencyFormat)}); err != nil {
		return s, fmt.Errorf("create currency style: %w", err)
	}
	if s.total, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: strPtr(currencyFormat),
	}); err != nil {
		return s, fmt.Errorf("create total style: %w", err)
	}
	return s, nil
}

var invalidSheetChars = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")

func strPtr(s string) *string { return &s }

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func sheetTitle(title, fallback string) string {
	if title == "" {
		return fallback
	}
	r := []rune(title)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}

// setRow writes values left to right starting at column A.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

// PricingWorkbook renders the labor table, the cascade and the advisory flags.
func PricingWorkbook(m pricing.Model, a pricing.Analysis) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	sheet := sheetTitle(invalidSheetChars.Replace(m.Title), "Pricing")
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	if err := setRow(f, sheet, 1, "Pricing Analysis: "+m.Title); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheet, "A1", "A1", st.title)

	if err := setRow(f, sheet, 3, "Position", "Level", "Hours", "Rate", "Cost"); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheet, "A3", "E3", st.header)

	row := 4
	for _, item := range m.LaborItems() {
		if err := setRow(f, sheet, row, item.Position, item.Level, item.Quantity, item.Rate, item.Amount()); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell("D", row), cell("E", row), st.currency)
		row++
	}

	row++
	lines := []struct {
		label string
		value float64
	}{
		{"Direct Labor", a.Breakdown.LaborCost},
		{"Fringe (" + money.Percent(m.Settings.FringeRate) + ")", a.Breakdown.Fringe},
		{"Overhead (" + money.Percent(m.Settings.OverheadRate) + ")", a.Breakdown.Overhead},
		{"G&A (" + money.Percent(m.Settings.GandARate) + ")", a.Breakdown.GandA},
		{"Fee (" + money.Percent(m.Settings.FeePercentage) + ")", a.Breakdown.Fee},
	}
	for _, line := range lines {
		if err := setRow(f, sheet, row, line.label, nil, nil, nil, line.value); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell("E", row), cell("E", row), st.currency)
		row++
	}
	if err := setRow(f, sheet, row, "Total Price", nil, a.Totals.TotalHours, nil, a.Totals.Total); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheet, cell("E", row), cell("E", row), st.total)
	row += 2
	if err := setRow(f, sheet, row, "Competitiveness Score", nil, nil, nil, a.Score); err != nil {
		return nil, err
	}

	if err := writeFlags(f, st, a.Flags); err != nil {
		return nil, err
	}

	return workbookBytes(f)
}

// BudgetWorkbook renders SF-424A Section B for b.
func BudgetWorkbook(b budget.Budget, s budget.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	sheet := "SF-424A"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	if err := setRow(f, sheet, 1, "Section B - Budget Categories ("+b.GrantID+")"); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheet, "A1", "A1", st.title)

	if err := setRow(f, sheet, 3, "Line", "Object Class", "Federal", "Non-Federal", "Total"); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheet, "A3", "E3", st.header)

	row := 4
	for _, line := range s.Categories {
		if err := setRow(f, sheet, row, "6"+line.Line, line.Label, line.Federal, line.NonFederal, line.Total); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell("C", row), cell("E", row), st.currency)
		row++
	}

	totals := []struct {
		line, label string
		value       float64
	}{
		{"6i", "Total Direct Charges", s.DirectTotal},
		{"6j", "Indirect Charges (" + money.Percent(b.IndirectCostRate) + ")", s.Indirect},
		{"6k", "TOTALS", s.Total},
	}
	for _, t := range totals {
		if err := setRow(f, sheet, row, t.line, t.label, nil, nil, t.value); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell("A", row), cell("E", row), st.total)
		row++
	}
	_ = f.SetCellValue(sheet, cell("C", row-3), s.DirectFederal)
	_ = f.SetCellValue(sheet, cell("D", row-3), s.DirectNonFederal)

	if b.Narrative != "" {
		row++
		if err := setRow(f, sheet, row, "Budget Narrative"); err != nil {
			return nil, err
		}
		_ = f.SetCellStyle(sheet, cell("A", row), cell("A", row), st.header)
		if err := setRow(f, sheet, row+1, b.Narrative); err != nil {
			return nil, err
		}
	}

	return workbookBytes(f)
}

func writeFlags(f *excelize.File, st styles, flags []advisory.Flag) error {
	if _, err := f.NewSheet(flagsSheet); err != nil {
		return fmt.Errorf("create flags sheet: %w", err)
	}
	if err := setRow(f, flagsSheet, 1, "Severity", "Title", "Message", "Recommendation"); err != nil {
		return err
	}
	_ = f.SetCellStyle(flagsSheet, "A1", "D1", st.header)

	if len(flags) == 0 {
		return setRow(f, flagsSheet, 2, "info", "No issues", "No pricing issues detected.", "")
	}
	for i, flag := range flags {
		if err := setRow(f, flagsSheet, i+2, string(flag.Severity), flag.Title, flag.Message, flag.Recommendation); err != nil {
			return err
		}
	}
	return nil
}

func workbookBytes(f *excelize.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
