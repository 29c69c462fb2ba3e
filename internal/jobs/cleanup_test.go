package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/condovia/condo-server-go/internal/model"
)

type mockSessionRepo struct {
	deleteExpiredCalls int64
	deleteExpiredCount int64
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	atomic.AddInt64(&m.deleteExpiredCalls, 1)
	return m.deleteExpiredCount, nil
}

type mockPaymentRepo struct {
	markOverdueCalls int64
	markOverdueCount int64
}

func (m *mockPaymentRepo) Create(ctx context.Context, params model.CreatePaymentParams) (*model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id string) (*model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) ListByResident(ctx context.Context, residentID string) ([]model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) List(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*model.Payment, error) {
	return nil, nil
}

func (m *mockPaymentRepo) MarkOverdue(ctx context.Context) (int64, error) {
	atomic.AddInt64(&m.markOverdueCalls, 1)
	return m.markOverdueCount, nil
}

func TestCleanupJob(t *testing.T) {
	t.Run("creates job with correct interval", func(t *testing.T) {
		job := NewCleanupJob(nil, nil, 5*time.Minute)

		assert.NotNil(t, job)
		assert.Equal(t, 5*time.Minute, job.interval)
	})

	t.Run("starts and stops without panic", func(t *testing.T) {
		sessionRepo := &mockSessionRepo{}
		paymentRepo := &mockPaymentRepo{}

		job := NewCleanupJob(sessionRepo, paymentRepo, 100*time.Millisecond)

		job.Start()
		time.Sleep(50 * time.Millisecond)
		job.Stop()
	})

	t.Run("runs cleanup on start", func(t *testing.T) {
		sessionRepo := &mockSessionRepo{deleteExpiredCount: 2}
		paymentRepo := &mockPaymentRepo{markOverdueCount: 3}

		job := NewCleanupJob(sessionRepo, paymentRepo, 1*time.Hour)

		job.Start()
		time.Sleep(10 * time.Millisecond)
		job.Stop()

		assert.GreaterOrEqual(t, atomic.LoadInt64(&sessionRepo.deleteExpiredCalls), int64(1))
		assert.GreaterOrEqual(t, atomic.LoadInt64(&paymentRepo.markOverdueCalls), int64(1))
	})
}
