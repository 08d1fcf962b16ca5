package postgres

import (
	"context"
	"fmt"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
)

type familyMemberRepository struct {
	BaseRepository
}

func NewFamilyMemberRepository(base BaseRepository) repository.FamilyMemberRepository {
	return &familyMemberRepository{base}
}

const familyMemberColumns = `id, resident_id, first_name, COALESCE(middle_name, '') AS middle_name,
	last_name, relationship, date_of_birth, created_at`

func (r *familyMemberRepository) GetForResident(ctx context.Context, residentID, memberID int64) (*model.FamilyMember, error) {
	query := `SELECT ` + familyMemberColumns + `
		FROM family_members
		WHERE id = $1 AND resident_id = $2
	`

	var member model.FamilyMember
	if err := r.db.GetContext(ctx, &member, query, memberID, residentID); err != nil {
		return nil, fmt.Errorf("failed to get family member: %w", notFound(err))
	}
	return &member, nil
}

func (r *familyMemberRepository) ListByResident(ctx context.Context, residentID int64) ([]*model.FamilyMember, error) {
	query := `SELECT ` + familyMemberColumns + `
		FROM family_members
		WHERE resident_id = $1
		ORDER BY first_name, last_name
	`

	members := []*model.FamilyMember{}
	if err := r.db.SelectContext(ctx, &members, query, residentID); err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}
	return members, nil
}
