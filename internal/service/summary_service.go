package service

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/safespender/safespender-backend/internal/domain"
	"github.com/safespender/safespender-backend/internal/projection"
)

// SummaryService answers the free-to-spend question for a workspace
type SummaryService struct {
	store *RecordStore
	opts  projection.Options
	now   func() time.Time
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(store *RecordStore, opts projection.Options) *SummaryService {
	return &SummaryService{store: store, opts: opts, now: time.Now}
}

// Today returns the server's current calendar date
func (s *SummaryService) Today() civil.Date {
	return domain.Today(s.now(), nil)
}

// GetSummary loads a fresh snapshot and summarizes it as of today. Load failures are
// returned as errors and never as partial numbers.
func (s *SummaryService) GetSummary(ctx context.Context, workspaceID int32, today civil.Date) (projection.Summary, error) {
	snapshot, err := s.store.Snapshot(ctx, workspaceID)
	if err != nil {
		return projection.Summary{}, err
	}
	return projection.Summarize(snapshot, today, s.opts), nil
}

// Currency returns the base currency amounts are reported in
func (s *SummaryService) Currency(workspaceID int32) (string, error) {
	profile, err := s.store.GetProfile(workspaceID)
	if err != nil {
		return "", err
	}
	return profile.BaseCurrency, nil
}
