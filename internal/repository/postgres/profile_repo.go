package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/safespender/safespender-backend/internal/domain"
)

const profileColumns = `workspace_id, base_currency, start_date, has_completed_onboarding, has_completed_feature_tour, updated_at`

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByWorkspace retrieves the workspace's financial profile
func (r *ProfileRepository) GetByWorkspace(workspaceID int32) (*domain.FinancialProfile, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+profileColumns+` FROM financial_profiles WHERE workspace_id = $1`, workspaceID)
	return scanProfile(row)
}

// Upsert creates or replaces the workspace's financial profile
func (r *ProfileRepository) Upsert(profile *domain.FinancialProfile) (*domain.FinancialProfile, error) {
	row := r.pool.QueryRow(context.Background(),
		`INSERT INTO financial_profiles (workspace_id, base_currency, start_date, has_completed_onboarding, has_completed_feature_tour)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (workspace_id) DO UPDATE
		   SET base_currency = EXCLUDED.base_currency,
		       start_date = EXCLUDED.start_date,
		       has_completed_onboarding = EXCLUDED.has_completed_onboarding,
		       has_completed_feature_tour = EXCLUDED.has_completed_feature_tour,
		       updated_at = NOW()
		 RETURNING `+profileColumns,
		profile.WorkspaceID,
		profile.BaseCurrency,
		civilToPgDate(profile.StartDate),
		profile.HasCompletedOnboarding,
		profile.HasCompletedFeatureTour,
	)
	return scanProfile(row)
}

func scanProfile(row pgx.Row) (*domain.FinancialProfile, error) {
	var (
		p         domain.FinancialProfile
		startDate pgtype.Date
	)
	err := row.Scan(&p.WorkspaceID, &p.BaseCurrency, &startDate, &p.HasCompletedOnboarding,
		&p.HasCompletedFeatureTour, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	p.StartDate = pgDateToCivil(startDate)
	return &p, nil
}
