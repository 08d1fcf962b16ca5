package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

type assignmentRepository struct {
	BaseRepository
}

func NewAssignmentRepository(base BaseRepository) repository.AssignmentRepository {
	return &assignmentRepository{base}
}

func (r *assignmentRepository) AssignedBHW(ctx context.Context, residentID int64) (*model.User, error) {
	query := `
		SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.role, u.created_at
		FROM residents r
		JOIN bhw_assignments a ON a.purok_id = r.purok_id
		JOIN users u ON u.id = a.bhw_user_id
		WHERE r.id = $1 AND u.role = $2
		ORDER BY a.id
		LIMIT 1
	`

	var bhw model.User
	err := r.db.GetContext(ctx, &bhw, query, residentID, model.RoleBHW)
	if err != nil {
		if errors.Is(notFound(err), repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve assigned health worker: %w", err)
	}
	return &bhw, nil
}
