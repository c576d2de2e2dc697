package analyses

import (
	"context"
	"fmt"
	"time"
)

// Repository port for the analyses table.
type Repository interface {
	Create(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, userID, id int64) (*Analysis, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Analysis, error)
}

// ArtifactStore port for the generated workbooks.
type ArtifactStore interface {
	UploadAndCleanup(ctx context.Context, localPath, key string) (string, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ArtifactKey builds the object-store key for a workbook.
func ArtifactKey(userID int64, ticker, filename string) string {
	return fmt.Sprintf("%d/%s/%s", userID, ticker, filename)
}
