package mysql

import (
	"context"
	"database/sql"

	"github.com/lisquant/valuation/internal/domain/commentary"
)

type CommentaryRepository struct{ db *sql.DB }

func NewCommentaryRepository(db *sql.DB) *CommentaryRepository {
	return &CommentaryRepository{db: db}
}

func (r *CommentaryRepository) Save(ctx context.Context, c *commentary.Commentary) error {
	const q = `
INSERT INTO commentaries (user_id, analysis_id, result, created_at)
VALUES (?, ?, ?, ?);`
	res, err := r.db.ExecContext(ctx, q, c.UserID, c.AnalysisID, c.Result, c.CreatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func (r *CommentaryRepository) LatestByAnalysis(ctx context.Context, userID, analysisID int64) (*commentary.Commentary, error) {
	const q = `
SELECT id, user_id, analysis_id, result, created_at
FROM commentaries
WHERE user_id = ? AND analysis_id = ?
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	var c commentary.Commentary
	if err := r.db.QueryRowContext(ctx, q, userID, analysisID).Scan(&c.ID, &c.UserID, &c.AnalysisID, &c.Result, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
