package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/repository"
	"github.com/condovia/condo-server-go/internal/util"
)

// PaymentService handles monthly maintenance fees: the admin charges them
// and marks them paid; residents see their own status.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	userRepo    repository.UserRepository
	clock       Clock
}

// NewPaymentService creates a new payment service. clock defaults to time.Now.
func NewPaymentService(paymentRepo repository.PaymentRepository, userRepo repository.UserRepository, clock Clock) *PaymentService {
	if clock == nil {
		clock = time.Now
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

// Charge creates a pending fee for a resident for the given period (YYYY-MM)
func (s *PaymentService) Charge(ctx context.Context, residentID, period string, amountCents int64, dueDate time.Time) (*model.Payment, error) {
	if !util.IsValidPeriod(period) {
		return nil, apperrors.InvalidInput("period", "must be YYYY-MM")
	}
	if amountCents <= 0 {
		return nil, apperrors.InvalidInput("amount", "must be positive")
	}

	resident, err := s.userRepo.FindByID(ctx, residentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if resident == nil || resident.Role != model.RoleResident {
		return nil, apperrors.NotFound("Resident")
	}

	payment, err := s.paymentRepo.Create(ctx, model.CreatePaymentParams{
		ID:           uuid.NewString(),
		ResidentID:   resident.ID,
		ResidentName: resident.Name,
		Period:       period,
		AmountCents:  amountCents,
		DueDate:      dueDate,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyExists("Payment for period")
		}
		return nil, apperrors.Database(err)
	}

	log.Info().
		Str("paymentId", payment.ID).
		Str("residentId", resident.ID).
		Str("period", period).
		Msg("payment charged")

	return payment, nil
}

func (s *PaymentService) MarkPaid(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := s.paymentRepo.MarkPaid(ctx, id, s.clock())
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if payment == nil {
		return nil, apperrors.NotFound("Payment")
	}

	log.Info().Str("paymentId", id).Msg("payment marked paid")
	return payment, nil
}

func (s *PaymentService) ListForResident(ctx context.Context, residentID string) ([]model.Payment, error) {
	payments, err := s.paymentRepo.ListByResident(ctx, residentID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return payments, nil
}

func (s *PaymentService) List(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	payments, err := s.paymentRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return payments, nil
}
