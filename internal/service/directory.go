package service

import (
	"context"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/util"
)

// DirectoryService is the resident directory the guard station consults:
// who lives here, and which resident a plate (matricula) is registered to.
// It never mutates directory data.
type DirectoryService struct {
	userRepo repository.UserRepository
}

// NewDirectoryService creates a new directory service
func NewDirectoryService(userRepo repository.UserRepository) *DirectoryService {
	return &DirectoryService{userRepo: userRepo}
}

// ListActiveResidents returns all active residents, sorted by name
func (s *DirectoryService) ListActiveResidents(ctx context.Context) ([]model.User, error) {
	residents, err := s.userRepo.ListActiveResidents(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return residents, nil
}

// FindByMatricula matches a registered plate against active residents.
// Matching is case-insensitive: both sides go through plate normalization.
func (s *DirectoryService) FindByMatricula(ctx context.Context, matricula string) (*model.User, error) {
	normalized := util.NormalizePlate(matricula)
	if normalized == "" {
		return nil, apperrors.MissingRequired("matricula")
	}

	resident, err := s.userRepo.FindActiveResidentByPlate(ctx, normalized)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if resident == nil {
		return nil, apperrors.NotFound("resident")
	}
	return resident, nil
}

// FindByID resolves an active resident by account id
func (s *DirectoryService) FindByID(ctx context.Context, id string) (*model.User, error) {
	if !util.IsValidUUID(id) {
		return nil, apperrors.InvalidInput("residentId", "must be a valid UUID")
	}

	resident, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if resident == nil || resident.Role != model.RoleResident || !resident.Active {
		return nil, apperrors.NotFound("resident")
	}
	return resident, nil
}
