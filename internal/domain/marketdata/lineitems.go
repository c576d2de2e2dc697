package marketdata

// LineItem is one row of the valuation model's Inputs sheet: a display name,
// the terminal field backing it, and the statement it belongs to. Derived
// items are computed locally instead of fetched.
type LineItem struct {
	Name      string
	Field     FieldCode
	Statement Statement
	Derived   bool
}

// LineItems returns the full valuation field map in sheet order.
func LineItems() []LineItem {
	return []LineItem{
		// Income statement
		{Name: "Revenue (Sales)", Field: "SALES_REV_TURN", Statement: StatementIncome},
		{Name: "COGS (Cost of Goods Sold)", Field: "IS_COG_AND_SERVICES_SOLD", Statement: StatementIncome},
		{Name: "Gross Profit", Field: "GROSS_PROFIT", Statement: StatementIncome},
		{Name: "SG&A (Selling, General & Administrative)", Field: "IS_SGA_EXPENSE", Statement: StatementIncome},
		{Name: "R&D (Research & Development)", Field: "IS_OPERATING_EXPENSES_RD", Statement: StatementIncome},
		{Name: "Other Operating (Income) Expenses", Field: "IS_OTHER_OPER_INC", Statement: StatementIncome},
		{Name: "EBITDA", Field: "EBITDA", Statement: StatementIncome},
		{Name: "D&A (Depreciation & Amortization)", Field: "ARDR_DEPRECIATION_AMORTIZATION", Statement: StatementIncome},
		{Name: "Depreciation Expense", Field: "ARDR_DEPRECIATION_EXP", Statement: StatementIncome},
		{Name: "Amortization Expense", Field: "ARDR_AMORT_EXP", Statement: StatementIncome},
		{Name: "Operating Income (EBIT)", Field: "IS_OPER_INC", Statement: StatementIncome},
		{Name: "Net Interest Expense (Income)", Field: "IS_NET_INTEREST_EXPENSE", Statement: StatementIncome},
		{Name: "Interest Expense", Field: "IS_INT_EXPENSE", Statement: StatementIncome},
		{Name: "Interest Income", Field: "IS_INT_INC", Statement: StatementIncome},
		{Name: "FX (Gain) Loss", Field: "IS_FOREIGN_EXCH_LOSS", Statement: StatementIncome},
		{Name: "Other Non-Operating (Income) Expenses", Field: "IS_OTHER_NON_OPERATING_INC_LOSS", Statement: StatementIncome},
		{Name: "Pre-Tax Income (EBT)", Field: "PRETAX_INC", Statement: StatementIncome},
		{Name: "Tax Expense (Benefits)", Field: "IS_INC_TAX_EXP", Statement: StatementIncome},
		{Name: "Net Income", Field: "NET_INCOME", Statement: StatementIncome},
		{Name: "EPS Basic", Field: "BASIC_EPS", Statement: StatementIncome},
		{Name: "EPS Diluted", Field: "DILUTED_EPS", Statement: StatementIncome},
		{Name: "Basic Weighted Average Shares", Field: "IS_AVG_NUM_SH_FOR_EPS", Statement: StatementIncome},
		{Name: "Diluted Weighted Average Shares", Field: "IS_SH_FOR_DILUTED_EPS", Statement: StatementIncome},

		// Balance sheet
		{Name: "Cash & Cash Equivalents", Field: "BS_CASH_NEAR_CASH_ITEM", Statement: StatementBalance},
		{Name: "Short-Term Investments", Field: "BS_MKT_SEC_OTHER_ST_INVEST", Statement: StatementBalance},
		{Name: "Accounts Receivable", Field: "BS_ACCT_NOTE_RCV", Statement: StatementBalance},
		{Name: "Inventory", Field: "BS_INVENTORIES", Statement: StatementBalance},
		{Name: "Current Assets", Field: "BS_CUR_ASSET_REPORT", Statement: StatementBalance},
		{Name: "Gross PP&E (Property, Plant and Equipment)", Field: "BS_GROSS_FIX_ASSET", Statement: StatementBalance},
		{Name: "Accumulated Depreciation", Field: "BS_ACCUM_DEPR", Statement: StatementBalance},
		{Name: "Intangibles", Field: "BS_DISCLOSED_INTANGIBLES", Statement: StatementBalance},
		{Name: "Goodwill", Field: "BS_GOODWILL", Statement: StatementBalance},
		{Name: "Non-Current Assets", Field: "BS_TOT_NON_CUR_ASSET", Statement: StatementBalance},
		{Name: "Accounts Payable", Field: "BS_ACCT_PAYABLE", Statement: StatementBalance},
		{Name: "Short-Term Borrowings", Field: "SHORT_TERM_DEBT_DETAILED", Statement: StatementBalance},
		{Name: "Current Portion of Lease Liabilities", Field: "ST_CAPITALIZED_LEASE_LIABILITIES", Statement: StatementBalance},
		{Name: "Current Liabilities", Field: "BS_CUR_LIAB", Statement: StatementBalance},
		{Name: "Long-Term Borrowings", Field: "LONG_TERM_BORROWINGS_DETAILED", Statement: StatementBalance},
		{Name: "Long-Term Operating Lease Liabilities", Field: "LT_CAPITALIZED_LEASE_LIABILITIES", Statement: StatementBalance},
		{Name: "Non-Current Liabilities", Field: "NON_CUR_LIAB", Statement: StatementBalance},
		{Name: "Non-Controlling Interest", Field: "MINORITY_NONCONTROLLING_INTEREST", Statement: StatementBalance},

		// Cash flow statement
		{Name: "(Increase) Decrease in Accounts Receivable", Field: "CF_ACCT_RCV_UNBILLED_REV", Statement: StatementCashFlow},
		{Name: "(Increase) Decrease in Inventories", Field: "CF_CHANGE_IN_INVENTORIES", Statement: StatementCashFlow},
		// The template's prepaid and accrued rows reuse the receivables-change
		// series; the model has no closer terminal mnemonic for either.
		{Name: "(Increase) Decrease in Pre-paid Expenses and Other CA", Field: "CF_ACCT_RCV_UNBILLED_REV", Statement: StatementCashFlow},
		{Name: "Increase (Decrease) in Accounts Payable", Field: "CF_CHANGE_IN_ACCOUNTS_PAYABLE", Statement: StatementCashFlow},
		{Name: "Increase (Decrease) in Accrued Revenues and Other CL", Field: "CF_ACCT_RCV_UNBILLED_REV", Statement: StatementCashFlow},
		{Name: "Stock Based Compensation", Field: "CF_STOCK_BASED_COMPENSATION", Statement: StatementCashFlow},
		{Name: "Operating Cash Flow", Field: "CF_CASH_FROM_OPER", Statement: StatementCashFlow},
		{Name: "Acquisition of Fixed & Intangibles", Field: "ACQUIS_OF_FIXED_INTANG", Statement: StatementCashFlow},
		{Name: "Disposal of Fixed & Intangibles", Field: "DISPOSAL_OF_FIXED_INTANG", Statement: StatementCashFlow},
		{Name: "Acquisitions", Field: "CF_CASH_FOR_ACQUIS_SUBSIDIARIES", Statement: StatementCashFlow},
		{Name: "Divestitures", Field: "CF_CASH_FOR_DIVESTITURES", Statement: StatementCashFlow},
		{Name: "Increase in LT Investment", Field: "CF_INCR_INVEST", Statement: StatementCashFlow},
		{Name: "Decrease in LT Investment", Field: "CF_DECR_INVEST", Statement: StatementCashFlow},
		{Name: "Investing Cash Flow", Field: "CF_CASH_FROM_INV_ACT", Statement: StatementCashFlow},
		{Name: "Debt Borrowing", Field: "CF_LT_DEBT_CAP_LEAS_PROCEEDS", Statement: StatementCashFlow},
		{Name: "Debt Repayment", Field: "CF_LT_DEBT_CAP_LEAS_PAYMENT", Statement: StatementCashFlow},
		{Name: "Dividends", Field: "CF_DVD_PAID", Statement: StatementCashFlow},
		{Name: "Increase (Repurchase) of Shares", Field: "PROC_FR_REPURCH_EQTY_DETAILED", Statement: StatementCashFlow},
		{Name: "Financing Cash Flow", Field: "CFF_ACTIVITIES_DETAILED", Statement: StatementCashFlow},
		{Name: "Effect of Foreign Exchange", Field: "CF_EFFECT_FOREIGN_EXCHANGES", Statement: StatementCashFlow},

		// Valuation extras
		{Name: "Market Capitalization", Field: "CUR_MKT_CAP", Statement: StatementBalance},
		{Name: "Total Debt", Field: "SHORT_AND_LONG_TERM_DEBT", Statement: StatementBalance},
		{Name: "Preferred Stock", Field: "PFD_EQTY_HYBRID_CAPITAL", Statement: StatementBalance},
		{Name: "Enterprise Value", Field: "ENTERPRISE_VALUE", Statement: StatementBalance},

		// Derived locally after the fetch
		{Name: "DSO", Statement: StatementIncome, Derived: true},
	}
}

// TerminalFields returns the unique field mnemonics to fetch for one
// statement, including dependencies of derived items (DSO needs revenue and
// receivables even when the income batch is fetched alone).
func TerminalFields(stmt Statement) []FieldCode {
	seen := make(map[FieldCode]bool)
	var out []FieldCode
	add := func(f FieldCode) {
		if f != "" && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	for _, it := range LineItems() {
		if it.Statement != stmt {
			continue
		}
		if it.Derived {
			for _, dep := range derivedDeps(it.Name) {
				add(dep)
			}
			continue
		}
		add(it.Field)
	}
	return out
}

func derivedDeps(name string) []FieldCode {
	switch name {
	case "DSO":
		return []FieldCode{"BS_ACCT_NOTE_RCV", "SALES_REV_TURN"}
	}
	return nil
}
