package workbook

import (
	"github.com/xuri/excelize/v2"
)

// targetCells expands an anchor cell into n references walking right along
// the same row, one per year (G6 -> G6, H6, ..).
func targetCells(anchor string, n int) ([]string, error) {
	col, row, err := excelize.CellNameToCoordinates(anchor)
	if err != nil {
		return nil, err
	}
	cells := make([]string, 0, n)
	for i := 0; i < n; i++ {
		cell, err := excelize.CoordinatesToCellName(col+i, row)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// anchors maps line-item names to the cell holding their first-year value on
// the Inputs sheet. Items without an anchor are fetched but not written.
var anchors = map[string]string{
	// Income statement
	"Revenue (Sales)":                          "G6",
	"COGS (Cost of Goods Sold)":                "G7",
	"Gross Profit":                             "G8",
	"SG&A (Selling, General & Administrative)": "G9",
	"R&D (Research & Development)":             "G10",
	"Other Operating (Income) Expenses":        "G11",
	"EBITDA":                                   "G12",
	"D&A (Depreciation & Amortization)":        "G13",
	"Depreciation Expense":                     "G14",
	"Amortization Expense":                     "G15",
	"Operating Income (EBIT)":                  "G16",
	"Net Interest Expense (Income)":            "G17",
	"Interest Expense":                         "G18",
	"Interest Income":                          "G19",
	"FX (Gain) Loss":                           "G20",
	"Other Non-Operating (Income) Expenses":    "G21",
	"Pre-Tax Income (EBT)":                     "G22",
	"Tax Expense (Benefits)":                   "G23",
	"Net Income":                               "G24",
	"EPS Basic":                                "G25",
	"EPS Diluted":                              "G26",
	"Basic Weighted Average Shares":            "G27",
	"Diluted Weighted Average Shares":          "G28",

	// Balance sheet
	"Cash & Cash Equivalents":                    "G33",
	"Short-Term Investments":                     "G34",
	"Accounts Receivable":                        "G35",
	"Inventory":                                  "G36",
	"Current Assets":                             "G38",
	"Gross PP&E (Property, Plant and Equipment)": "G40",
	"Accumulated Depreciation":                   "G41",
	"Intangibles":                                "G43",
	"Goodwill":                                   "G44",
	"Non-Current Assets":                         "G47",
	"Accounts Payable":                           "G49",
	"Short-Term Borrowings":                      "G51",
	"Current Portion of Lease Liabilities":       "G52",
	"Current Liabilities":                        "G54",
	"Long-Term Borrowings":                       "G56",
	"Long-Term Operating Lease Liabilities":      "G57",
	"Non-Current Liabilities":                    "G59",

	// Cash flow statement
	"(Increase) Decrease in Accounts Receivable":            "G69",
	"(Increase) Decrease in Inventories":                    "G70",
	"(Increase) Decrease in Pre-paid Expenses and Other CA": "G71",
	"Increase (Decrease) in Accounts Payable":               "G72",
	"Increase (Decrease) in Accrued Revenues and Other CL":  "G73",
	"Stock Based Compensation":                              "G74",
	"Operating Cash Flow":                                   "G76",
	"Acquisition of Fixed & Intangibles":                    "G78",
	"Disposal of Fixed & Intangibles":                       "G79",
	"Acquisitions":                                          "G81",
	"Divestitures":                                          "G82",
	"Increase in LT Investment":                             "G83",
	"Decrease in LT Investment":                             "G84",
	"Investing Cash Flow":                                   "G86",
	"Debt Borrowing":                                        "G87",
	"Debt Repayment":                                        "G88",
	"Dividends":                                             "G90",
	"Increase (Repurchase) of Shares":                       "G91",
	"Financing Cash Flow":                                   "G93",
	"Effect of Foreign Exchange":                            "G94",

	// Valuation extras. Non-controlling interest sits in this block, under
	// the capitalization rows, not in the balance-sheet section.
	"Market Capitalization":    "G99",
	"Total Debt":               "G101",
	"Preferred Stock":          "G102",
	"Non-Controlling Interest": "G103",
	"Enterprise Value":         "G104",
}
