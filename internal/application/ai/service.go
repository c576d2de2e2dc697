package ai

import (
	"context"

	"github.com/lisquant/valuation/internal/application"
	"github.com/lisquant/valuation/internal/domain/ai"
	domanalyses "github.com/lisquant/valuation/internal/domain/analyses"
	"github.com/lisquant/valuation/internal/domain/commentary"
)

// Service produces and stores AI commentary for recorded analyses.
type Service struct {
	Client   ai.Client
	Repo     commentary.Repository
	Analyses domanalyses.Repository
	Clock    application.Clock
}

// CommentAndStore looks up the analysis (owner-checked), asks the model for
// a commentary on its workbook, and persists the result.
func (s *Service) CommentAndStore(ctx context.Context, userID, analysisID int64, artifactURL string) (*commentary.Commentary, error) {
	a, err := s.Analyses.Get(ctx, userID, analysisID)
	if err != nil {
		return nil, err
	}

	result, err := s.Client.Comment(ctx, a.Ticker, artifactURL)
	if err != nil {
		return nil, err
	}

	c := &commentary.Commentary{
		UserID:     userID,
		AnalysisID: a.ID,
		Result:     result,
		CreatedAt:  s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Latest returns the most recent commentary for an analysis.
func (s *Service) Latest(ctx context.Context, userID, analysisID int64) (*commentary.Commentary, error) {
	return s.Repo.LatestByAnalysis(ctx, userID, analysisID)
}
