package services

import (
	"github.com/ratiolens/ratiolens-api/internal/chart"
	"github.com/ratiolens/ratiolens-api/internal/models"
	"github.com/shopspring/decimal"
)

// Display names for the ratio set, in output order.
const (
	RatioNetSales           = "Net sales (£)"
	RatioGrossProfit        = "Gross profit (£)"
	RatioGrossMargin        = "Gross margin (%)"
	RatioOperatingProfit    = "Operating profit (£)"
	RatioOperatingMargin    = "Operating margin (%)"
	RatioProfitBeforeTax    = "Profit before tax (£)"
	RatioNetMargin          = "Net margin (PBT, %)"
	RatioCurrentAssets      = "Current assets (£)"
	RatioCurrentLiabilities = "Current liabilities (£)"
	RatioWorkingCapital     = "Working capital (£)"
	RatioCurrentRatio       = "Current ratio"
	RatioQuickRatio         = "Quick ratio"
	RatioReceivablesDays    = "Receivables days"
	RatioPayablesDays       = "Payables days"
)

var daysPerYear = decimal.NewFromInt(365)
var hundred = decimal.NewFromInt(100)

// Engine derives financial ratios and a P&L breakdown from normalized
// account records, classified through a chart category map. The engine
// holds no mutable state; one instance serves concurrent calls.
type Engine struct {
	chart *chart.Chart
}

// NewEngine creates a ratio engine over the given category map.
func NewEngine(c *chart.Chart) *Engine {
	return &Engine{chart: c}
}

// Chart returns the category map the engine classifies against.
func (e *Engine) Chart() *chart.Chart {
	return e.chart
}

// Compute classifies the records and derives the 14-ratio set plus the
// 7-row P&L breakdown. Balances follow debit-minus-credit, so sums drawn
// from credit-side categories (sales, misc income, liabilities) are
// negated to present positive economic magnitudes. Division by a zero
// denominator yields an undefined ratio, never an error.
func (e *Engine) Compute(records []models.AccountRecord) (models.RatioResult, []models.BreakdownRow) {
	byCode := make(map[int]decimal.Decimal, len(records))
	for _, rec := range records {
		byCode[rec.Code] = byCode[rec.Code].Add(rec.Balance)
	}

	sum := func(codes []int) decimal.Decimal {
		total := decimal.Zero
		for _, code := range codes {
			total = total.Add(byCode[code])
		}
		return total
	}

	// Revenue and cost of sales.
	sales := sum(e.chart.Sales).Neg()
	discounts := sum(e.chart.Discounts)
	netSales := sales.Sub(discounts)

	cogs := sum(e.chart.CostOfSales)
	grossProfit := netSales.Sub(cogs)
	grossMargin := marginPct(grossProfit, netSales)

	// Operating expenses. SSP/SMP reclaimed are credit-side wage
	// recoveries, treated as reductions in staff cost.
	expenses := sum(e.chart.OperatingExpenses)
	wageRecovery := sum(e.chart.WageRecoveries).Neg()
	operatingExpenses := expenses.Sub(wageRecovery)

	miscIncome := sum(e.chart.MiscIncome).Neg()
	operatingProfit := grossProfit.Sub(operatingExpenses).Add(miscIncome)
	operatingMargin := marginPct(operatingProfit, netSales)

	// Finance cost and profit before tax.
	financeCost := sum(e.chart.FinanceCosts)
	profitBeforeTax := operatingProfit.Sub(financeCost)
	netMargin := marginPct(profitBeforeTax, netSales)

	// Working capital and liquidity.
	currentAssets := sum(e.chart.CurrentAssets)
	currentLiabilities := sum(e.chart.CurrentLiabilities).Neg()
	workingCapital := currentAssets.Sub(currentLiabilities)

	currentRatio := divide(currentAssets, currentLiabilities)
	quickAssets := currentAssets.Sub(sum(e.chart.Prepayments))
	quickRatio := divide(quickAssets, currentLiabilities)

	// Efficiency.
	debtors := sum(e.chart.Debtors)
	creditors := sum(e.chart.Creditors).Neg()
	receivablesDays := days(debtors, netSales)
	payablesDays := days(creditors, cogs)

	ratios := models.RatioResult{
		{Name: RatioNetSales, Ratio: models.DefinedRatio(netSales)},
		{Name: RatioGrossProfit, Ratio: models.DefinedRatio(grossProfit)},
		{Name: RatioGrossMargin, Ratio: grossMargin},
		{Name: RatioOperatingProfit, Ratio: models.DefinedRatio(operatingProfit)},
		{Name: RatioOperatingMargin, Ratio: operatingMargin},
		{Name: RatioProfitBeforeTax, Ratio: models.DefinedRatio(profitBeforeTax)},
		{Name: RatioNetMargin, Ratio: netMargin},
		{Name: RatioCurrentAssets, Ratio: models.DefinedRatio(currentAssets)},
		{Name: RatioCurrentLiabilities, Ratio: models.DefinedRatio(currentLiabilities)},
		{Name: RatioWorkingCapital, Ratio: models.DefinedRatio(workingCapital)},
		{Name: RatioCurrentRatio, Ratio: currentRatio},
		{Name: RatioQuickRatio, Ratio: quickRatio},
		{Name: RatioReceivablesDays, Ratio: receivablesDays},
		{Name: RatioPayablesDays, Ratio: payablesDays},
	}

	breakdown := []models.BreakdownRow{
		{Category: "Net sales", Amount: netSales},
		{Category: "Cost of sales", Amount: cogs.Neg()},
		{Category: "Gross profit", Amount: grossProfit},
		{Category: "Operating expenses", Amount: operatingExpenses.Neg()},
		{Category: "Operating profit", Amount: operatingProfit},
		{Category: "Finance cost", Amount: financeCost.Neg()},
		{Category: "Profit before tax", Amount: profitBeforeTax},
	}

	return ratios, breakdown
}

// marginPct computes numerator/denominator scaled to a percentage.
func marginPct(num, den decimal.Decimal) models.Ratio {
	if den.IsZero() {
		return models.UndefinedRatio()
	}
	return models.DefinedRatio(num.Div(den).Mul(hundred))
}

// days converts a balance-over-flow quotient to an annualized day count.
func days(num, den decimal.Decimal) models.Ratio {
	if den.IsZero() {
		return models.UndefinedRatio()
	}
	return models.DefinedRatio(num.Div(den).Mul(daysPerYear))
}

func divide(num, den decimal.Decimal) models.Ratio {
	if den.IsZero() {
		return models.UndefinedRatio()
	}
	return models.DefinedRatio(num.Div(den))
}
