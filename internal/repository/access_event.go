package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/condovia/condo-server-go/internal/database"
	"github.com/condovia/condo-server-go/internal/model"
)

// AccessEventRepository owns the append-only entry/exit event log.
// Plates are expected in normalized form; callers normalize before reaching
// this layer.
type AccessEventRepository interface {
	CreateEntry(ctx context.Context, params model.CreateEntryParams) (*model.AccessEvent, error)
	// CompleteExit resolves the active entry for a plate: it deactivates the
	// entry and appends the paired exit event in a single transaction.
	// Returns (nil, nil) when the plate has no active entry.
	CompleteExit(ctx context.Context, plate string, params model.CompleteExitParams) (*model.AccessEvent, error)
	FindActiveByPlate(ctx context.Context, plate string) (*model.AccessEvent, error)
	ListActive(ctx context.Context) ([]model.AccessEvent, error)
	ListByResident(ctx context.Context, residentID string) ([]model.AccessEvent, error)
	Count(ctx context.Context) (int, error)
}

type accessEventRepo struct {
	db *database.DB
}

// NewAccessEventRepository creates a new access event repository
func NewAccessEventRepository(db *database.DB) AccessEventRepository {
	return &accessEventRepo{db: db}
}

// CreateEntry appends a new active entry event. The partial unique index on
// (plate) WHERE is_active rejects a second concurrent entry for the same
// plate; callers detect that with IsUniqueViolation.
func (r *accessEventRepo) CreateEntry(ctx context.Context, params model.CreateEntryParams) (*model.AccessEvent, error) {
	var event model.AccessEvent
	err := r.db.GetContext(ctx, &event, `
		INSERT INTO access_events
			(id, kind, plate, visitor_name, visit_reason, resident_id, resident_name,
			 guard_id, guard_name, access_code_id, timestamp, is_active)
		VALUES ($1, 'entry', $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING *
	`, params.ID, params.Plate, params.VisitorName, params.VisitReason,
		params.ResidentID, params.ResidentName, params.GuardID, params.GuardName,
		params.AccessCodeID, params.Timestamp)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *accessEventRepo) CompleteExit(ctx context.Context, plate string, params model.CompleteExitParams) (*model.AccessEvent, error) {
	var exit *model.AccessEvent

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var entry model.AccessEvent
		err := tx.GetContext(ctx, &entry, `
			SELECT * FROM access_events
			WHERE plate = $1 AND is_active
			FOR UPDATE
		`, plate)
		found, err := HandleNotFound(&entry, err)
		if err != nil {
			return err
		}
		if found == nil {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE access_events SET is_active = FALSE WHERE id = $1
		`, entry.ID); err != nil {
			return err
		}

		// The exit carries the visitor and resident information of the entry
		// it resolves; the guard is the one recording the exit.
		var created model.AccessEvent
		if err := tx.GetContext(ctx, &created, `
			INSERT INTO access_events
				(id, kind, plate, visitor_name, resident_id, resident_name,
				 guard_id, guard_name, timestamp, is_active)
			VALUES ($1, 'exit', $2, $3, $4, $5, $6, $7, $8, FALSE)
			RETURNING *
		`, params.ID, entry.Plate, entry.VisitorName, entry.ResidentID, entry.ResidentName,
			params.GuardID, params.GuardName, params.Timestamp); err != nil {
			return err
		}

		exit = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return exit, nil
}

func (r *accessEventRepo) FindActiveByPlate(ctx context.Context, plate string) (*model.AccessEvent, error) {
	var event model.AccessEvent
	err := r.db.GetContext(ctx, &event, `
		SELECT * FROM access_events
		WHERE plate = $1 AND is_active
	`, plate)
	return HandleNotFound(&event, err)
}

// ListActive returns unresolved entries, most recent first
func (r *accessEventRepo) ListActive(ctx context.Context) ([]model.AccessEvent, error) {
	var events []model.AccessEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT * FROM access_events
		WHERE is_active
		ORDER BY timestamp DESC
	`)
	return events, err
}

// ListByResident returns all events referencing a resident, most recent first
func (r *accessEventRepo) ListByResident(ctx context.Context, residentID string) ([]model.AccessEvent, error) {
	var events []model.AccessEvent
	err := r.db.SelectContext(ctx, &events, `
		SELECT * FROM access_events
		WHERE resident_id = $1
		ORDER BY timestamp DESC
	`, residentID)
	return events, err
}

func (r *accessEventRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM access_events`)
	return count, err
}
