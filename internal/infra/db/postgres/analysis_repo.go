package postgres

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/lisquant/valuation/internal/domain/analyses"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

func (r *AnalysisRepository) Create(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO analyses (user_id, ticker, filename, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id;`
	return r.db.QueryRowContext(ctx, q, a.UserID, a.Ticker, a.Filename, a.CreatedAt).Scan(&a.ID)
}

func (r *AnalysisRepository) Get(ctx context.Context, userID, id int64) (*domain.Analysis, error) {
	const q = `
SELECT id, user_id, ticker, filename, created_at
FROM analyses
WHERE id = $1 AND user_id = $2
LIMIT 1;`
	var a domain.Analysis
	if err := r.db.QueryRowContext(ctx, q, id, userID).Scan(&a.ID, &a.UserID, &a.Ticker, &a.Filename, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, user_id, ticker, filename, created_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2;`
	rows, err := r.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Analysis
	for rows.Next() {
		var a domain.Analysis
		if err := rows.Scan(&a.ID, &a.UserID, &a.Ticker, &a.Filename, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
