package repository

import (
	"context"
	"time"

	"github.com/condovia/condo-server-go/internal/database"
	"github.com/condovia/condo-server-go/internal/model"
)

// ParkingRepository handles parking spot assignments
type ParkingRepository interface {
	Create(ctx context.Context, id, number string) (*model.ParkingSpot, error)
	FindByID(ctx context.Context, id string) (*model.ParkingSpot, error)
	FindByPlate(ctx context.Context, plate string) (*model.ParkingSpot, error)
	FindByResident(ctx context.Context, residentID string) ([]model.ParkingSpot, error)
	List(ctx context.Context) ([]model.ParkingSpot, error)
	Assign(ctx context.Context, id, residentID, plate string, assignedAt time.Time) (*model.ParkingSpot, error)
	Unassign(ctx context.Context, id string) error
}

type parkingRepo struct {
	db *database.DB
}

// NewParkingRepository creates a new parking repository
func NewParkingRepository(db *database.DB) ParkingRepository {
	return &parkingRepo{db: db}
}

func (r *parkingRepo) Create(ctx context.Context, id, number string) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	err := r.db.GetContext(ctx, &spot, `
		INSERT INTO parking_spots (id, number)
		VALUES ($1, $2)
		RETURNING *
	`, id, number)
	if err != nil {
		return nil, err
	}
	return &spot, nil
}

func (r *parkingRepo) FindByID(ctx context.Context, id string) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	err := r.db.GetContext(ctx, &spot, `
		SELECT * FROM parking_spots WHERE id = $1
	`, id)
	return HandleNotFound(&spot, err)
}

func (r *parkingRepo) FindByPlate(ctx context.Context, plate string) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	err := r.db.GetContext(ctx, &spot, `
		SELECT * FROM parking_spots WHERE plate = $1
	`, plate)
	return HandleNotFound(&spot, err)
}

func (r *parkingRepo) FindByResident(ctx context.Context, residentID string) ([]model.ParkingSpot, error) {
	var spots []model.ParkingSpot
	err := r.db.SelectContext(ctx, &spots, `
		SELECT * FROM parking_spots
		WHERE resident_id = $1
		ORDER BY number
	`, residentID)
	return spots, err
}

func (r *parkingRepo) List(ctx context.Context) ([]model.ParkingSpot, error) {
	var spots []model.ParkingSpot
	err := r.db.SelectContext(ctx, &spots, `
		SELECT * FROM parking_spots ORDER BY number
	`)
	return spots, err
}

func (r *parkingRepo) Assign(ctx context.Context, id, residentID, plate string, assignedAt time.Time) (*model.ParkingSpot, error) {
	var spot model.ParkingSpot
	err := r.db.GetContext(ctx, &spot, `
		UPDATE parking_spots
		SET resident_id = $1, plate = $2, assigned_at = $3
		WHERE id = $4
		RETURNING *
	`, residentID, plate, assignedAt, id)
	return HandleNotFound(&spot, err)
}

func (r *parkingRepo) Unassign(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE parking_spots
		SET resident_id = NULL, plate = NULL, assigned_at = NULL
		WHERE id = $1
	`, id)
	return err
}
