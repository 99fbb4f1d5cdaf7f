package models

import "github.com/shopspring/decimal"

// AccountRecord is one normalized trial balance row. Balance is always
// Debit minus Credit, so credit-heavy accounts (revenue, liabilities)
// carry negative balances.
type AccountRecord struct {
	Code    int             `json:"code"`
	Name    string          `json:"name"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// NewAccountRecord builds a record and derives its balance.
func NewAccountRecord(code int, name string, debit, credit decimal.Decimal) AccountRecord {
	return AccountRecord{
		Code:    code,
		Name:    name,
		Debit:   debit,
		Credit:  credit,
		Balance: debit.Sub(credit),
	}
}

// Table is a raw tabular input: a header row plus data rows of string
// cells, in file order. Column meaning is unknown until normalization.
type Table struct {
	Headers []string
	Rows    [][]string
}

// BreakdownRow is one line of the P&L walk. Deductions (cost of sales,
// operating expenses, finance cost) carry negative amounts so the
// sequence charts directly as a bar series.
type BreakdownRow struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}
