package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ratiolens/ratiolens-api/internal/models"
	"github.com/shopspring/decimal"
)

// SchemaError reports a trial balance whose layout cannot be understood:
// a required column is missing, or a code cell carries no digits. It
// fails the whole normalization; no partial record set is produced.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "trial balance schema: " + e.Reason
}

// Normalizer turns a raw table with unknown column order and naming into
// canonical account records. It is stateless and safe for concurrent use.
type Normalizer struct{}

// NewNormalizer creates a normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

var digitRun = regexp.MustCompile(`\d+`)

// columnKeywords maps each required field to its header keywords, in
// priority order. Matching is case-insensitive substring containment;
// for a given keyword the first header in column order wins.
var columnKeywords = map[string][]string{
	"code":   {"code", "n/c", "nominal"},
	"name":   {"name"},
	"debit":  {"debit"},
	"credit": {"credit"},
}

// requiredFields fixes the reporting order for missing columns.
var requiredFields = []string{"code", "name", "debit", "credit"}

// Normalize resolves the four required columns and converts every row
// into an AccountRecord, in input order. Rows are never skipped: an
// unresolvable code cell fails the whole table, while unparseable
// debit/credit cells coerce to zero.
func (n *Normalizer) Normalize(table *models.Table) ([]models.AccountRecord, error) {
	cols, err := n.resolveColumns(table.Headers)
	if err != nil {
		return nil, err
	}

	records := make([]models.AccountRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		code, err := parseCode(cell(row, cols["code"]))
		if err != nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("row %d: %v", i+1, err)}
		}

		debit := parseAmountLenient(cell(row, cols["debit"]))
		credit := parseAmountLenient(cell(row, cols["credit"]))

		records = append(records, models.NewAccountRecord(
			code,
			strings.TrimSpace(cell(row, cols["name"])),
			debit,
			credit,
		))
	}

	return records, nil
}

// resolveColumns finds the column index for each required field.
func (n *Normalizer) resolveColumns(headers []string) (map[string]int, error) {
	cols := make(map[string]int, len(requiredFields))
	var missing []string

	for _, field := range requiredFields {
		idx := findColumn(headers, columnKeywords[field])
		if idx < 0 {
			missing = append(missing, field)
			continue
		}
		cols[field] = idx
	}

	if len(missing) > 0 {
		return nil, &SchemaError{Reason: fmt.Sprintf(
			"could not detect columns for %s; ensure the export includes code/name/debit/credit headings",
			strings.Join(missing, "/"))}
	}
	return cols, nil
}

// findColumn tries each keyword in priority order against the headers in
// column order, returning the first hit.
func findColumn(headers []string, keywords []string) int {
	for _, kw := range keywords {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), kw) {
				return i
			}
		}
	}
	return -1
}

// parseCode extracts the first run of decimal digits from a code cell
// and parses it as an integer. A cell with no digits is a hard error.
func parseCode(s string) (int, error) {
	run := digitRun.FindString(s)
	if run == "" {
		return 0, fmt.Errorf("no nominal code digits in %q", s)
	}
	code, err := strconv.Atoi(run)
	if err != nil {
		return 0, fmt.Errorf("nominal code %q out of range", run)
	}
	return code, nil
}

// parseAmountLenient coerces a debit/credit cell to a decimal amount.
// Currency symbols, thousands separators, and surrounding whitespace are
// stripped; anything still unparseable becomes zero rather than failing,
// matching how Sage exports pad empty sides of the balance with blanks
// or dashes.
func parseAmountLenient(s string) decimal.Decimal {
	cleaned := strings.NewReplacer("£", "", "$", "", "€", "", ",", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// cell returns the idx'th field of a row, or "" for ragged rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
