package repository

import (
	"context"
	"time"

	"github.com/condovia/condo-server-go/internal/database"
	"github.com/condovia/condo-server-go/internal/model"
)

// AccessCodeRepository handles visitor pre-authorization codes.
// Codes are append-only: used and expired codes stay for audit.
type AccessCodeRepository interface {
	Create(ctx context.Context, params model.CreateAccessCodeParams) (*model.AccessCode, error)
	FindByCode(ctx context.Context, code string) (*model.AccessCode, error)
	// FindActiveByCode returns the code only if it is unused and unexpired at now
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*model.AccessCode, error)
	MarkUsed(ctx context.Context, code string, usedAt time.Time) error
	ListByResident(ctx context.Context, residentID string) ([]model.AccessCode, error)
}

type accessCodeRepo struct {
	db *database.DB
}

// NewAccessCodeRepository creates a new access code repository
func NewAccessCodeRepository(db *database.DB) AccessCodeRepository {
	return &accessCodeRepo{db: db}
}

func (r *accessCodeRepo) Create(ctx context.Context, params model.CreateAccessCodeParams) (*model.AccessCode, error) {
	var code model.AccessCode
	err := r.db.GetContext(ctx, &code, `
		INSERT INTO access_codes (id, code, resident_id, resident_name, visitor_name, valid_until, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, params.ID, params.Code, params.ResidentID, params.ResidentName,
		params.VisitorName, params.ValidUntil, params.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *accessCodeRepo) FindByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	var ac model.AccessCode
	err := r.db.GetContext(ctx, &ac, `
		SELECT * FROM access_codes WHERE code = $1
	`, code)
	return HandleNotFound(&ac, err)
}

func (r *accessCodeRepo) FindActiveByCode(ctx context.Context, code string, now time.Time) (*model.AccessCode, error) {
	var ac model.AccessCode
	err := r.db.GetContext(ctx, &ac, `
		SELECT * FROM access_codes
		WHERE code = $1 AND used_at IS NULL AND valid_until >= $2
	`, code, now)
	return HandleNotFound(&ac, err)
}

// MarkUsed is idempotent: an already-used code keeps its original used_at
func (r *accessCodeRepo) MarkUsed(ctx context.Context, code string, usedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE access_codes
		SET used_at = $1
		WHERE code = $2 AND used_at IS NULL
	`, usedAt, code)
	return err
}

func (r *accessCodeRepo) ListByResident(ctx context.Context, residentID string) ([]model.AccessCode, error) {
	var codes []model.AccessCode
	err := r.db.SelectContext(ctx, &codes, `
		SELECT * FROM access_codes
		WHERE resident_id = $1
		ORDER BY created_at DESC
	`, residentID)
	return codes, err
}
