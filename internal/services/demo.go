package services

import (
	"github.com/ratiolens/ratiolens-api/internal/models"
	"github.com/shopspring/decimal"
)

// DemoCompanyName labels the built-in dataset in API responses.
const DemoCompanyName = "Stationery & Computer Mart UK"

type demoRow struct {
	code   int
	name   string
	debit  string
	credit string
}

// Sage 50 demo company, transactional trial balance 01/01/2024-01/12/2024.
var demoRows = []demoRow{
	{21, "Plant/Machinery Depreciation", "515.00", "0.00"},
	{51, "Motor Vehicles Depreciation", "757.44", "0.00"},
	{1100, "Debtors Control Account", "89731.16", "0.00"},
	{1103, "Prepayments", "1350.00", "0.00"},
	{1200, "Bank Current Account", "3389.99", "0.00"},
	{1210, "Bank Deposit Account", "2000.00", "0.00"},
	{1220, "Building Society Account", "505.03", "0.00"},
	{1230, "Petty Cash", "833.48", "0.00"},
	{1240, "Company Credit Card", "0.00", "10414.97"},
	{2100, "Creditors Control Account", "0.00", "36572.97"},
	{2109, "Accruals", "0.00", "50.00"},
	{2200, "Sales Tax Control Account", "0.00", "22152.44"},
	{2201, "Purchase Tax Control Account", "0.00", "11102.51"},
	{2202, "VAT Liability", "0.00", "14800.35"},
	{2210, "P.A.Y.E.", "0.00", "2070.23"},
	{2211, "National Insurance", "0.00", "1003.49"},
	{2220, "Net Wages", "0.00", "0.00"},
	{2230, "Pension Fund", "0.00", "80.00"},
	{2300, "Loans", "0.00", "605.00"},
	{2310, "Hire Purchase", "0.00", "1800.00"},
	{4000, "Sales North", "0.00", "179507.53"},
	{4001, "Sales South", "0.00", "1230.00"},
	{4002, "Sales Scotland", "0.00", "8472.51"},
	{4009, "Discounts Allowed", "50.00", "0.00"},
	{4900, "Miscellaneous Income", "0.00", "60.03"},
	{4905, "Distribution and Carriage", "870.00", "0.00"},
	{5000, "Materials Purchased", "45446.48", "0.00"},
	{5001, "Materials Imported", "23733.00", "0.00"},
	{5002, "Miscellaneous Purchases", "1158.53", "0.00"},
	{5100, "Carriage", "1.26", "0.00"},
	{6200, "Sales Promotions", "50.00", "0.00"},
	{6201, "Advertising", "465.00", "0.00"},
	{6202, "Gifts and Samples", "15.00", "0.00"},
	{6203, "P.R. (Literature & Brochures)", "1050.00", "0.00"},
	{7000, "Gross Wages", "24372.11", "0.00"},
	{7006, "Employers N.I.", "2495.43", "0.00"},
	{7009, "Adjustments", "170.00", "0.00"},
	{7010, "SSP Reclaimed", "0.00", "30.00"},
	{7011, "SMP Reclaimed", "0.00", "48.40"},
	{7100, "Rent", "15750.00", "0.00"},
	{7200, "Electricity", "952.00", "0.00"},
	{7300, "Fuel and Oil", "15.00", "0.00"},
	{7301, "Repairs and Servicing", "88.18", "0.00"},
	{7304, "Miscellaneous Motor Expenses", "67.00", "0.00"},
	{7350, "Scale Charges", "60.18", "0.00"},
	{7400, "Travelling", "201.00", "0.00"},
	{7401, "Car Hire", "150.00", "0.00"},
	{7402, "Hotels", "720.00", "0.00"},
	{7403, "U.K. Entertainment", "5.50", "0.00"},
	{7500, "Printing", "51.60", "0.00"},
	{7501, "Postage and Carriage", "3.50", "0.00"},
	{7502, "Telephone", "128.72", "0.00"},
	{7802, "Laundry", "50.00", "0.00"},
	{7901, "Bank Charges", "5.56", "0.00"},
	{7903, "Loan Interest Paid", "83.25", "0.00"},
	{8003, "Vehicle Depreciation", "757.44", "0.00"},
	{8100, "Bad Debt Write Off", "0.01", "0.00"},
	{9999, "Mispostings Account", "205.00", "0.00"},
}

// DemoTrialBalance returns the built-in demo dataset as normalized
// account records, in chart order.
func DemoTrialBalance() []models.AccountRecord {
	records := make([]models.AccountRecord, 0, len(demoRows))
	for _, row := range demoRows {
		records = append(records, models.NewAccountRecord(
			row.code,
			row.name,
			decimal.RequireFromString(row.debit),
			decimal.RequireFromString(row.credit),
		))
	}
	return records
}
