package resident

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
)

// SeniorAge is the age from which a resident counts as a senior citizen.
const SeniorAge = 60

type Service struct {
	residents repository.ResidentRepository
	families  repository.FamilyMemberRepository
	now       func() time.Time
}

func NewService(residents repository.ResidentRepository, families repository.FamilyMemberRepository) *Service {
	return &Service{
		residents: residents,
		families:  families,
		now:       time.Now,
	}
}

// Lookup resolves the resident record of an authenticated user. A user with no
// resident record yields a NotFound AppError.
func (s *Service) Lookup(ctx context.Context, userID int64) (*model.Resident, error) {
	resident, err := s.residents.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("resident", err)
		}
		return nil, apperrors.Internal(err)
	}
	return resident, nil
}

// Profile returns the resident joined with its user, with age and senior
// status computed for the current date.
func (s *Service) Profile(ctx context.Context, residentID int64) (*model.ResidentProfile, error) {
	profile, err := s.residents.GetProfile(ctx, residentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("resident", err)
		}
		return nil, apperrors.Internal(err)
	}

	if profile.DateOfBirth != nil && !profile.DateOfBirth.IsZero() {
		now := s.now()
		age := Age(profile.DateOfBirth.Time, now)
		profile.Age = &age
		profile.IsSenior = IsSenior(&profile.DateOfBirth.Time, now)
	}
	return profile, nil
}

func (s *Service) FamilyMembers(ctx context.Context, residentID int64) ([]*model.FamilyMember, error) {
	members, err := s.families.ListByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return members, nil
}

// Age returns the number of whole years elapsed between birth and now,
// compared on calendar dates.
func Age(birth, now time.Time) int {
	by, bm, bd := birth.Date()
	ny, nm, nd := now.Date()

	years := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

func IsSenior(birth *time.Time, now time.Time) bool {
	if birth == nil || birth.IsZero() {
		return false
	}
	return Age(*birth, now) >= SeniorAge
}
