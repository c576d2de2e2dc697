package marketdata

import "context"

// Fetcher port for the terminal data adapter. Implementations fetch the whole
// valuation field set for one ticker, already converted to USD.
type Fetcher interface {
	FetchFundamentals(ctx context.Context, ticker string) (Fundamentals, error)
}
