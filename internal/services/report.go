package services

import (
	"bytes"
	"fmt"

	"github.com/ratiolens/ratiolens-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ReportWriter renders an analysis as an XLSX workbook: one sheet of
// ratio tiles, one sheet of the P&L breakdown, one sheet of the
// normalized trial balance.
type ReportWriter struct{}

// NewReportWriter creates a report writer instance.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport builds the workbook and returns its bytes.
func (w *ReportWriter) WriteReport(title string, ratios models.RatioResult, breakdown []models.BreakdownRow, records []models.AccountRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	if err := w.writeRatiosSheet(f, headerStyle, title, ratios); err != nil {
		return nil, err
	}
	if err := w.writeBreakdownSheet(f, headerStyle, breakdown); err != nil {
		return nil, err
	}
	if err := w.writeRecordsSheet(f, headerStyle, records); err != nil {
		return nil, err
	}

	// Drop the default sheet so "Ratios" opens first.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to finalize workbook: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func (w *ReportWriter) writeRatiosSheet(f *excelize.File, headerStyle int, title string, ratios models.RatioResult) error {
	const sheet = "Ratios"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	f.SetCellValue(sheet, "A1", title)
	f.SetCellValue(sheet, "A2", "Ratio")
	f.SetCellValue(sheet, "B2", "Value")
	f.SetCellStyle(sheet, "A2", "B2", headerStyle)

	for i, nr := range ratios {
		row := i + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), nr.Name)
		if nr.Ratio.Defined() {
			val, _ := nr.Ratio.Value().Round(2).Float64()
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), val)
		} else {
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "n/a")
		}
	}

	f.SetColWidth(sheet, "A", "A", 28)
	return nil
}

func (w *ReportWriter) writeBreakdownSheet(f *excelize.File, headerStyle int, breakdown []models.BreakdownRow) error {
	const sheet = "P&L Breakdown"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	f.SetCellValue(sheet, "A1", "Category")
	f.SetCellValue(sheet, "B1", "Amount")
	f.SetCellStyle(sheet, "A1", "B1", headerStyle)

	for i, row := range breakdown {
		val, _ := row.Amount.Round(2).Float64()
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.Category)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), val)
	}

	f.SetColWidth(sheet, "A", "A", 22)
	return nil
}

func (w *ReportWriter) writeRecordsSheet(f *excelize.File, headerStyle int, records []models.AccountRecord) error {
	const sheet = "Trial Balance"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	headers := []string{"Code", "Name", "Debit", "Credit", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "E1", headerStyle)

	for i, rec := range records {
		row := i + 2
		debit, _ := rec.Debit.Float64()
		credit, _ := rec.Credit.Float64()
		balance, _ := rec.Balance.Float64()
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), rec.Code)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), rec.Name)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), debit)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), credit)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), balance)
	}

	f.SetColWidth(sheet, "B", "B", 32)
	return nil
}
