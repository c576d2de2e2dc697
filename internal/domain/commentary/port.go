package commentary

import "context"

// Repository port for persisting and querying commentaries.
type Repository interface {
	Save(ctx context.Context, c *Commentary) error
	LatestByAnalysis(ctx context.Context, userID, analysisID int64) (*Commentary, error)
}
