package auth

import (
	"context"
	"errors"

	"github.com/jwalitptl/meditrack/internal/model"
	"github.com/jwalitptl/meditrack/internal/repository"
	"github.com/jwalitptl/meditrack/pkg/auth"
	apperrors "github.com/jwalitptl/meditrack/pkg/errors"
	"github.com/jwalitptl/meditrack/pkg/logger"
	"github.com/jwalitptl/meditrack/pkg/security"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	logger   *logger.Logger
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher, logger *logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		logger:   logger,
	}
}

// Login verifies the credentials and issues a session token. Unknown emails
// and wrong passwords produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized(ErrInvalidCredentials)
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if !errors.Is(err, security.ErrMismatch) {
			s.logger.WithContext(ctx).Warn(err, "Stored password hash is unusable", "user_id", user.ID)
		}
		return nil, apperrors.Unauthorized(ErrInvalidCredentials)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.WithContext(ctx).Info("User logged in", "user_id", user.ID, "role", user.Role)

	return &model.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.jwtSvc.TTL().Seconds()),
		Role:        user.Role,
	}, nil
}

func (s *Service) ValidateToken(token string) (*model.Principal, error) {
	principal, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}
	return principal, nil
}
