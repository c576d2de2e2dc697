package marketdata

// DerivedField codes for metrics computed locally from fetched data.
const (
	FieldDSO FieldCode = "DSO"
)

// Derive computes the derived metric series for the given year range.
// DSO = accounts receivable / revenue * 365; zero when revenue is zero.
func Derive(f Fundamentals, startYear, endYear int) Fundamentals {
	dso := make(Series)
	for year := startYear; year <= endYear; year++ {
		revenue := f.Get("SALES_REV_TURN", year, 0)
		receivables := f.Get("BS_ACCT_NOTE_RCV", year, 0)
		if revenue != 0 {
			dso[year] = Number(receivables / revenue * 365)
		} else {
			dso[year] = Number(0)
		}
	}
	return Fundamentals{FieldDSO: dso}
}
