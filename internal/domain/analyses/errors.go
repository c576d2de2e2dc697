package analyses

import "errors"

var (
	// ErrNotFound is returned when no analysis matches the id for that user.
	ErrNotFound = errors.New("analysis not found")
	// ErrEmptyTicker rejects empty or all-whitespace ticker input.
	ErrEmptyTicker = errors.New("ticker symbol cannot be empty")
	// ErrTemplateMissing means the valuation template file is not deployed.
	ErrTemplateMissing = errors.New("valuation template file is missing")
)
