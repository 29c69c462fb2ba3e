package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/util"
)

// ParkingService handles parking spot assignments
type ParkingService struct {
	parkingRepo repository.ParkingRepository
	userRepo    repository.UserRepository
	clock       Clock
}

// NewParkingService creates a new parking service. clock defaults to time.Now.
func NewParkingService(parkingRepo repository.ParkingRepository, userRepo repository.UserRepository, clock Clock) *ParkingService {
	if clock == nil {
		clock = time.Now
	}
	return &ParkingService{
		parkingRepo: parkingRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

func (s *ParkingService) CreateSpot(ctx context.Context, number string) (*model.ParkingSpot, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, apperrors.MissingRequired("number")
	}

	spot, err := s.parkingRepo.Create(ctx, uuid.NewString(), number)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("Parking spot")
		}
		return nil, apperrors.Database(err)
	}
	return spot, nil
}

// Assign registers a resident's vehicle on a spot. The plate is normalized
// so the guard's plate lookup matches however it was typed.
func (s *ParkingService) Assign(ctx context.Context, spotID, residentID, plate string) (*model.ParkingSpot, error) {
	normalized := util.NormalizePlate(plate)
	if normalized == "" {
		return nil, apperrors.MissingRequired("plate")
	}

	resident, err := s.userRepo.FindByID(ctx, residentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if resident == nil || resident.Role != model.RoleResident {
		return nil, apperrors.NotFound("Resident")
	}

	spot, err := s.parkingRepo.Assign(ctx, spotID, residentID, normalized, s.clock())
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if spot == nil {
		return nil, apperrors.NotFound("Parking spot")
	}

	log.Info().
		Str("spotId", spotID).
		Str("residentId", residentID).
		Str("plate", normalized).
		Msg("parking spot assigned")

	return spot, nil
}

func (s *ParkingService) Unassign(ctx context.Context, spotID string) error {
	spot, err := s.parkingRepo.FindByID(ctx, spotID)
	if err != nil {
		return apperrors.Database(err)
	}
	if spot == nil {
		return apperrors.NotFound("Parking spot")
	}
	return s.parkingRepo.Unassign(ctx, spotID)
}

// FindByPlate looks up the spot a plate is registered to, or nil
func (s *ParkingService) FindByPlate(ctx context.Context, plate string) (*model.ParkingSpot, error) {
	normalized := util.NormalizePlate(plate)
	if normalized == "" {
		return nil, apperrors.MissingRequired("plate")
	}
	spot, err := s.parkingRepo.FindByPlate(ctx, normalized)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return spot, nil
}

func (s *ParkingService) ListForResident(ctx context.Context, residentID string) ([]model.ParkingSpot, error) {
	spots, err := s.parkingRepo.FindByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return spots, nil
}

func (s *ParkingService) List(ctx context.Context) ([]model.ParkingSpot, error) {
	spots, err := s.parkingRepo.List(ctx)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return spots, nil
}
