package ai

import "context"

// Client produces a JSON commentary for a recorded valuation workbook.
type Client interface {
	Comment(ctx context.Context, ticker, artifactURL string) (string, error)
}
