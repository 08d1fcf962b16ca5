package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

type residentRepository struct {
	BaseRepository
}

func NewResidentRepository(base BaseRepository) repository.ResidentRepository {
	return &residentRepository{base}
}

func (r *residentRepository) GetByUserID(ctx context.Context, userID int64) (*model.Resident, error) {
	query := `
		SELECT id, user_id, date_of_birth, purok_id, created_at
		FROM residents
		WHERE user_id = $1
		LIMIT 1
	`

	var resident model.Resident
	if err := r.db.GetContext(ctx, &resident, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get resident: %w", notFound(err))
	}
	return &resident, nil
}

func (r *residentRepository) GetProfile(ctx context.Context, residentID int64) (*model.ResidentProfile, error) {
	query := `
		SELECT r.id, r.user_id, r.date_of_birth, r.purok_id, r.created_at,
			u.first_name, u.last_name, u.email
		FROM residents r
		JOIN users u ON u.id = r.user_id
		WHERE r.id = $1
	`

	var profile model.ResidentProfile
	if err := r.db.GetContext(ctx, &profile, query, residentID); err != nil {
		return nil, fmt.Errorf("failed to get resident profile: %w", notFound(err))
	}
	return &profile, nil
}
