package repository

import (
	"context"
	"time"

	"github.com/condovia/condo-server-go/internal/database"
	"github.com/condovia/condo-server-go/internal/model"
)

// PaymentRepository handles maintenance fee records
type PaymentRepository interface {
	Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error)
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	ListByResident(ctx context.Context, residentID string) ([]model.Payment, error)
	List(ctx context.Context, limit, offset int) ([]model.Payment, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (*model.Payment, error)
	// MarkOverdue flags pending payments whose due date has passed
	MarkOverdue(ctx context.Context) (int64, error)
}

type paymentRepo struct {
	db *database.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, `
		INSERT INTO payments (id, resident_id, resident_name, period, amount_cents, status, due_date)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6)
		RETURNING *
	`, params.ID, params.ResidentID, params.ResidentName, params.Period,
		params.AmountCents, params.DueDate)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, `
		SELECT * FROM payments WHERE id = $1
	`, id)
	return HandleNotFound(&payment, err)
}

func (r *paymentRepo) ListByResident(ctx context.Context, residentID string) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments
		WHERE resident_id = $1
		ORDER BY period DESC
	`, residentID)
	return payments, err
}

func (r *paymentRepo) List(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT * FROM payments
		ORDER BY period DESC, resident_name
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return payments, err
}

func (r *paymentRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.GetContext(ctx, &payment, `
		UPDATE payments
		SET status = 'paid', paid_at = $1
		WHERE id = $2
		RETURNING *
	`, paidAt, id)
	return HandleNotFound(&payment, err)
}

func (r *paymentRepo) MarkOverdue(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'overdue'
		WHERE status = 'pending' AND due_date < NOW()
	`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
