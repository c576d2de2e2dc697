package analyses

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lisquant/valuation/internal/application"
	domain "github.com/lisquant/valuation/internal/domain/analyses"
	"github.com/lisquant/valuation/internal/domain/marketdata"
)

// WorkbookWriter populates the valuation template with fetched fundamentals.
type WorkbookWriter interface {
	Populate(templatePath, outputPath, ticker string, f marketdata.Fundamentals) error
}

// Service implements the analysis use-cases: run a valuation for a ticker,
// list a user's history, resolve download links.
type Service struct {
	Repo      domain.Repository
	Fetcher   marketdata.Fetcher
	Workbook  WorkbookWriter
	Artifacts domain.ArtifactStore
	Clock     application.Clock

	TemplatePath string
	WorkDir      string
	DownloadTTL  time.Duration
}

// Run fetches fundamentals for the ticker, populates a fresh copy of the
// template, uploads the workbook, and records exactly one analyses row.
// Nothing is recorded when any step fails.
func (s *Service) Run(ctx context.Context, userID int64, ticker string) (*domain.Analysis, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, domain.ErrEmptyTicker
	}

	// The template is a deployment precondition; fail before any fetch.
	if _, err := os.Stat(s.TemplatePath); err != nil {
		return nil, domain.ErrTemplateMissing
	}

	fundamentals, err := s.Fetcher.FetchFundamentals(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetching terminal data for %s: %w", ticker, err)
	}

	now := s.Clock.Now()
	filename := fmt.Sprintf("%s_Valuation_Model_%s.xlsx", ticker, now.Format("20060102_150405"))
	if err := os.MkdirAll(s.WorkDir, 0o755); err != nil {
		return nil, err
	}
	outputPath := filepath.Join(s.WorkDir, filename)

	if err := s.Workbook.Populate(s.TemplatePath, outputPath, ticker, fundamentals); err != nil {
		return nil, fmt.Errorf("populating valuation model: %w", err)
	}

	a := &domain.Analysis{
		UserID:    userID,
		Ticker:    ticker,
		Filename:  filename,
		CreatedAt: now,
	}
	url, err := s.Artifacts.UploadAndCleanup(ctx, outputPath, a.ArtifactKey())
	if err != nil {
		os.Remove(outputPath)
		return nil, fmt.Errorf("uploading workbook: %w", err)
	}

	if err := s.Repo.Create(ctx, a); err != nil {
		return nil, err
	}
	a.ArtifactURL = url
	return a, nil
}

// List returns the user's analyses, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit int) ([]*domain.Analysis, error) {
	return s.Repo.ListByUser(ctx, userID, limit)
}

// Get returns one analysis, owner-checked.
func (s *Service) Get(ctx context.Context, userID, id int64) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, userID, id)
}

// DownloadURL resolves a short-lived link to the stored workbook of an
// analysis owned by the user.
func (s *Service) DownloadURL(ctx context.Context, userID, id int64) (string, error) {
	a, err := s.Repo.Get(ctx, userID, id)
	if err != nil {
		return "", err
	}
	ttl := s.DownloadTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return s.Artifacts.PresignedURL(ctx, a.ArtifactKey(), ttl)
}
