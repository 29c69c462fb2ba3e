package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/metrics"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/util"
)

// CreateUserInput carries the admin's new-account form
type CreateUserInput struct {
	Email     string
	Password  string
	Name      string
	Role      model.Role
	Unit      string
	Matricula string
}

// UserService handles administrator-managed accounts. Accounts are
// deactivated, never deleted, so event snapshots keep resolving.
type UserService struct {
	userRepo repository.UserRepository
	metrics  *metrics.Metrics
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepository, m *metrics.Metrics) *UserService {
	return &UserService{userRepo: userRepo, metrics: m}
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.MissingRequired("email")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.InvalidInput("password", "must be at least 8 characters")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.MissingRequired("name")
	}
	if input.Role != model.RoleAdmin && input.Role != model.RoleGuard && input.Role != model.RoleResident {
		return nil, apperrors.InvalidInput("role", "must be admin, guard, or resident")
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password").WithCause(err)
	}

	// Registered plates are stored normalized so the guard station's
	// matricula lookup is a plain equality match.
	var matricula *string
	if m := util.NormalizePlate(input.Matricula); m != "" {
		matricula = &m
	}

	user, err := s.userRepo.Create(ctx, model.CreateUserParams{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         input.Role,
		Unit:         optional(strings.TrimSpace(input.Unit)),
		Matricula:    matricula,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("User")
		}
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("userId", user.ID).
		Str("role", string(user.Role)).
		Msg("user created")

	if s.metrics != nil {
		s.metrics.IncrementUsersCreated()
	}

	return user, nil
}

func (s *UserService) Update(ctx context.Context, id string, name, unit, matricula string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.MissingRequired("name")
	}

	var plate *string
	if m := util.NormalizePlate(matricula); m != "" {
		plate = &m
	}

	user, err := s.userRepo.Update(ctx, id, model.UpdateUserParams{
		Name:      name,
		Unit:      optional(strings.TrimSpace(unit)),
		Matricula: plate,
	})
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User")
	}
	return user, nil
}

func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if user == nil {
		return apperrors.NotFound("User")
	}

	if err := s.userRepo.SetActive(ctx, id, active); err != nil {
		return apperrors.Database(err)
	}

	log.Info().Str("userId", id).Bool("active", active).Msg("user activation changed")
	return nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("User")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return users, nil
}
