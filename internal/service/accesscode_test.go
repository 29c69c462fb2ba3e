package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/condovia/condo-server-go/internal/config"
	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
)

// Mock access code repository
type mockCodeRepo struct {
	mock.Mock
}

func (m *mockCodeRepo) Create(ctx context.Context, params model.CreateAccessCodeParams) (*model.AccessCode, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessCode), args.Error(1)
}

func (m *mockCodeRepo) FindByCode(ctx context.Context, code string) (*model.AccessCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessCode), args.Error(1)
}

func (m *mockCodeRepo) FindActiveByCode(ctx context.Context, code string, now time.Time) (*model.AccessCode, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessCode), args.Error(1)
}

func (m *mockCodeRepo) MarkUsed(ctx context.Context, code string, usedAt time.Time) error {
	args := m.Called(ctx, code, usedAt)
	return args.Error(0)
}

func (m *mockCodeRepo) ListByResident(ctx context.Context, residentID string) ([]model.AccessCode, error) {
	args := m.Called(ctx, residentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessCode), args.Error(1)
}

func TestAccessCodeService_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("issues code with requested validity", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := NewAccessCodeService(repo, nil, testClock)

		repo.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p model.CreateAccessCodeParams) bool {
			return p.ResidentID == "resident-1" &&
				p.VisitorName == "Maria" &&
				p.ValidUntil.Equal(testClock().Add(12*time.Hour))
		})).Return(&model.AccessCode{
			ID:         "code-1",
			Code:       "ABCD-EFGH",
			ResidentID: "resident-1",
			ValidUntil: testClock().Add(12 * time.Hour),
		}, nil)

		code, err := svc.Generate(ctx, "resident-1", "Laura", "Maria", 12)

		assert.NoError(t, err)
		assert.Equal(t, "ABCD-EFGH", code.Code)
		repo.AssertExpectations(t)
	})

	t.Run("defaults validity when hours not positive", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := NewAccessCodeService(repo, nil, testClock)

		expected := testClock().Add(time.Duration(config.DefaultCodeValidHours) * time.Hour)
		repo.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p model.CreateAccessCodeParams) bool {
			return p.ValidUntil.Equal(expected)
		})).Return(&model.AccessCode{ID: "code-2"}, nil)

		_, err := svc.Generate(ctx, "resident-1", "Laura", "Maria", 0)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("clamps validity to the maximum", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := NewAccessCodeService(repo, nil, testClock)

		expected := testClock().Add(time.Duration(config.MaxCodeValidHours) * time.Hour)
		repo.On("FindByCode", ctx, mock.AnythingOfType("string")).Return(nil, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(p model.CreateAccessCodeParams) bool {
			return p.ValidUntil.Equal(expected)
		})).Return(&model.AccessCode{ID: "code-3"}, nil)

		_, err := svc.Generate(ctx, "resident-1", "Laura", "Maria", 500)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing visitor name", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := NewAccessCodeService(repo, nil, testClock)

		code, err := svc.Generate(ctx, "resident-1", "Laura", "  ", 12)

		assert.Nil(t, code)
		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})
}

func TestAccessCodeService_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts an unused unexpired code", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := NewAccessCodeService(repo, nil, testClock)

		repo.On("FindActiveByCode", ctx, "ABCD-EFGH", testClock()).Return(&model.AccessCode{
			ID:         "code-1",
			Code:       "ABCD-EFGH",
			ResidentID: "resident-1",
			ValidUntil: testClock().Add(time.Hour),
		}, nil)

		code, err := svc.Validate(ctx, "abcd-efgh")

		assert.NoError(t, err)
		assert.Equal(t, "code-1", code.ID)
	})

	t.Run("unknown used and expired codes are indistinguishable", func(t *testing.T) {
		used := testClock().Add(-time.Hour)
		cases := map[string]*model.AccessCode{
			"unknown": nil,
			"used":    {Code: "ABCD-EFGH", UsedAt: &used, ValidUntil: testClock().Add(time.Hour)},
			"expired": {Code: "ABCD-EFGH", ValidUntil: testClock().Add(-time.Minute)},
		}

		for name, stored := range cases {
			repo := new(mockCodeRepo)
			svc := NewAccessCodeService(repo, nil, testClock)

			// The active lookup filters all three cases out at the repository.
			repo.On("FindActiveByCode", ctx, "ABCD-EFGH", testClock()).Return(nil, nil)
			repo.On("FindByCode", ctx, "ABCD-EFGH").Return(stored, nil)

			code, err := svc.Validate(ctx, "ABCD-EFGH")

			assert.Nil(t, code, "case %s", name)
			assert.Equal(t, apperrors.ErrCodeInvalidOrExpiredCode, apperrors.GetCode(err), "case %s", name)
		}
	})

	t.Run("rejects empty code", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := NewAccessCodeService(repo, nil, testClock)

		code, err := svc.Validate(ctx, "   ")

		assert.Nil(t, code)
		assert.Equal(t, apperrors.ErrCodeInvalidOrExpiredCode, apperrors.GetCode(err))
	})
}

func TestAccessCodeService_MarkUsed(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes with the ledger clock's time", func(t *testing.T) {
		repo := new(mockCodeRepo)
		svc := NewAccessCodeService(repo, nil, testClock)

		repo.On("MarkUsed", ctx, "ABCD-EFGH", testClock()).Return(nil)

		err := svc.MarkUsed(ctx, "abcd-efgh ")

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestGenerateAccessCode(t *testing.T) {
	t.Run("generates code in XXXX-XXXX format", func(t *testing.T) {
		code := generateAccessCode()

		pattern := regexp.MustCompile(`^[A-Z2-9]{4}-[A-Z2-9]{4}$`)
		assert.True(t, pattern.MatchString(code), "code should match XXXX-XXXX format, got: %s", code)
	})

	t.Run("excludes ambiguous characters", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := generateAccessCode()
			assert.NotContains(t, code, "O")
			assert.NotContains(t, code, "I")
			assert.NotContains(t, code, "0")
			assert.NotContains(t, code, "1")
		}
	})

	t.Run("generates unique codes", func(t *testing.T) {
		codes := make(map[string]bool)
		for i := 0; i < 100; i++ {
			code := generateAccessCode()
			assert.False(t, codes[code], "duplicate code generated: %s", code)
			codes[code] = true
		}
	})
}
