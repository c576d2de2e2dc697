package marketdata

// FieldCode is a terminal reference-data field mnemonic (e.g. SALES_REV_TURN).
type FieldCode string

// Statement enum
type Statement string

const (
	StatementIncome   Statement = "IS"
	StatementBalance  Statement = "BS"
	StatementCashFlow Statement = "CF"
)

// Value is one yearly data point. Either Numeric is true and Num holds the
// figure, or Note carries the gateway's N/A marker.
type Value struct {
	Num     float64
	Note    string
	Numeric bool
}

// Number wraps a float into a numeric Value.
func Number(f float64) Value { return Value{Num: f, Numeric: true} }

// NotAvailable wraps a gateway N/A marker.
func NotAvailable(note string) Value { return Value{Note: note} }

// Series holds one field's values keyed by calendar year.
type Series map[int]Value

// Fundamentals is everything fetched for one ticker: field code -> year -> value.
type Fundamentals map[FieldCode]Series

// Get returns the numeric value for a field/year, or fallback when the point
// is missing or non-numeric.
func (f Fundamentals) Get(field FieldCode, year int, fallback float64) float64 {
	if s, ok := f[field]; ok {
		if v, ok := s[year]; ok && v.Numeric {
			return v.Num
		}
	}
	return fallback
}

// Merge copies every point of other into f, overwriting on conflict.
func (f Fundamentals) Merge(other Fundamentals) {
	for field, series := range other {
		dst, ok := f[field]
		if !ok {
			dst = make(Series, len(series))
			f[field] = dst
		}
		for year, v := range series {
			dst[year] = v
		}
	}
}
