package commentary

import "time"

// Commentary is an AI-written summary of a recorded analysis, stored for
// auditing and retrieval.
type Commentary struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	AnalysisID int64     `json:"analysis_id"`
	Result     string    `json:"result"` // JSON string from the model
	CreatedAt  time.Time `json:"created_at"`
}
