package analyses

import "time"

// Analysis is one recorded valuation request: who asked, which ticker,
// and the workbook filename the run produced.
type Analysis struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Ticker    string    `json:"ticker"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`

	// ArtifactURL is resolved from the object store, not persisted.
	ArtifactURL string `json:"artifact_url,omitempty"`
}

// ArtifactKey is the object-store key a recorded analysis was uploaded under.
func (a *Analysis) ArtifactKey() string {
	return ArtifactKey(a.UserID, a.Ticker, a.Filename)
}
