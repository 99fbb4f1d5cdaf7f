package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ratiolens/ratiolens-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// Parser reads uploaded trial balance files into a raw Table. It only
// deals with file encodings (CSV, XLSX); column meaning is left to the
// Normalizer.
type Parser struct{}

// NewParser creates a parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile dispatches on the filename extension.
func (p *Parser) ParseFile(file io.Reader, filename string) (*models.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return p.ParseCSV(file)
	case ".xlsx":
		return p.ParseXLSX(file)
	case ".xls":
		// excelize reads OOXML only, not legacy BIFF workbooks.
		return nil, fmt.Errorf("legacy .xls workbooks are not supported; re-export as .xlsx or CSV")
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// ParseCSV reads a delimited export. The first row is the header; fully
// blank rows and summary lines ("Total", "Closing Balance"...) are
// dropped since Sage appends them below the account listing.
func (p *Parser) ParseCSV(file io.Reader) (*models.Table, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty file")
		}
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	table := &models.Table{Headers: headers}
	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", rowNum, err)
		}
		rowNum++

		if isEmptyRow(row) || isSummaryRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// ParseXLSX reads the first sheet of a workbook.
func (p *Parser) ParseXLSX(file io.Reader) (*models.Table, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in workbook")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file")
	}

	table := &models.Table{Headers: rows[0]}
	for _, row := range rows[1:] {
		if isEmptyRow(row) || isSummaryRow(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// isEmptyRow checks if all fields in a row are empty.
func isEmptyRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// isSummaryRow checks if a row is a totals line rather than an account row.
func isSummaryRow(row []string) bool {
	if len(row) == 0 {
		return false
	}

	firstField := strings.ToLower(strings.TrimSpace(row[0]))
	summaryKeywords := []string{"total", "summary", "opening balance", "closing balance"}

	for _, keyword := range summaryKeywords {
		if strings.HasPrefix(firstField, keyword) {
			return true
		}
	}
	return false
}
