// Package chart holds the mapping from nominal account codes to the
// financial categories the ratio engine works with. The mapping is
// chart-of-accounts specific: the built-in default follows the standard
// Sage 50 UK layout and alternate charts are supplied as YAML files
// rather than by editing engine code.
package chart

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Chart partitions known nominal codes into named categories. Codes
// absent from every category contribute to no ratio. Single-code
// categories (misc income, finance cost, prepayments, debtors,
// creditors in the default Sage chart) are still code sets; the engine
// sums over each set.
type Chart struct {
	Sales              []int `yaml:"sales" json:"sales"`
	Discounts          []int `yaml:"discounts" json:"discounts"`
	CostOfSales        []int `yaml:"cost_of_sales" json:"cost_of_sales"`
	OperatingExpenses  []int `yaml:"operating_expenses" json:"operating_expenses"`
	WageRecoveries     []int `yaml:"wage_recoveries" json:"wage_recoveries"`
	MiscIncome         []int `yaml:"misc_income" json:"misc_income"`
	FinanceCosts       []int `yaml:"finance_costs" json:"finance_costs"`
	CurrentAssets      []int `yaml:"current_assets" json:"current_assets"`
	CurrentLiabilities []int `yaml:"current_liabilities" json:"current_liabilities"`
	Prepayments        []int `yaml:"prepayments" json:"prepayments"`
	Debtors            []int `yaml:"debtors" json:"debtors"`
	Creditors          []int `yaml:"creditors" json:"creditors"`
}

// Load reads a chart mapping from a YAML file.
func Load(path string) (*Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chart: %w", err)
	}
	var c Chart
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing chart: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart %s: %w", path, err)
	}
	return &c, nil
}

// Save writes a chart mapping to a YAML file.
func Save(path string, c *Chart) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling chart: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

// Validate rejects non-positive codes. Empty categories are allowed:
// their sums are zero, which is the correct contribution for a category
// a chart does not use.
func (c *Chart) Validate() error {
	for name, codes := range c.categories() {
		for _, code := range codes {
			if code <= 0 {
				return fmt.Errorf("category %s: nominal code must be positive, got %d", name, code)
			}
		}
	}
	return nil
}

func (c *Chart) categories() map[string][]int {
	return map[string][]int{
		"sales":               c.Sales,
		"discounts":           c.Discounts,
		"cost_of_sales":       c.CostOfSales,
		"operating_expenses":  c.OperatingExpenses,
		"wage_recoveries":     c.WageRecoveries,
		"misc_income":         c.MiscIncome,
		"finance_costs":       c.FinanceCosts,
		"current_assets":      c.CurrentAssets,
		"current_liabilities": c.CurrentLiabilities,
		"prepayments":         c.Prepayments,
		"debtors":             c.Debtors,
		"creditors":           c.Creditors,
	}
}

// Default returns the category map for the default Sage 50 UK chart of
// accounts, matching the demo company's nominal code layout.
func Default() *Chart {
	return &Chart{
		Sales:       []int{4000, 4001, 4002},
		Discounts:   []int{4009},
		CostOfSales: []int{5000, 5001, 5002, 5100},
		OperatingExpenses: []int{
			4905,
			6200, 6201, 6202, 6203,
			7000, 7006, 7009,
			7100, 7200,
			7300, 7301, 7304,
			7350, 7400, 7401, 7402, 7403,
			7500, 7501, 7502,
			7802,
			7901,
			8003,
			8100,
		},
		WageRecoveries:     []int{7010, 7011},
		MiscIncome:         []int{4900},
		FinanceCosts:       []int{7903},
		CurrentAssets:      []int{1100, 1103, 1200, 1210, 1220, 1230},
		CurrentLiabilities: []int{2100, 2109, 2200, 2201, 2202, 2210, 2211, 2220, 2230, 1240},
		Prepayments:        []int{1103},
		Debtors:            []int{1100},
		Creditors:          []int{2100},
	}
}
