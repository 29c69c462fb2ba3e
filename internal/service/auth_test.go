package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
	"github.com/condovia/condo-server-go/internal/util"
)

// Mock user repository
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) FindActiveResidentByPlate(ctx context.Context, plate string) (*model.User, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) ListActiveResidents(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, id string, params model.UpdateUserParams) (*model.User, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// Mock session repository
type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

const testSessionSecret = "test-session-secret-0123456789abcdef"

func activeGuard(t *testing.T, password string) *model.User {
	t.Helper()
	hash, err := util.HashPassword(password)
	assert.NoError(t, err)
	return &model.User{
		ID:           "guard-1",
		Email:        "guard@condo.test",
		PasswordHash: hash,
		Name:         "Pedro",
		Role:         model.RoleGuard,
		Active:       true,
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns token and user on valid credentials", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		user := activeGuard(t, "correct horse")
		userRepo.On("FindByEmail", ctx, "guard@condo.test").Return(user, nil)
		sessionRepo.On("Create", ctx, mock.MatchedBy(func(p model.CreateSessionParams) bool {
			return p.UserID == "guard-1" && p.Role == model.RoleGuard && p.TokenHash != ""
		})).Return(&model.Session{ID: "session-1"}, nil)

		result, err := svc.Login(ctx, "guard@condo.test", "correct horse")

		assert.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "guard-1", result.User.ID)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("stores only the token hash", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		user := activeGuard(t, "correct horse")
		userRepo.On("FindByEmail", ctx, "guard@condo.test").Return(user, nil)

		var storedHash string
		sessionRepo.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
			storedHash = args.Get(1).(model.CreateSessionParams).TokenHash
		}).Return(&model.Session{ID: "session-1"}, nil)

		result, err := svc.Login(ctx, "guard@condo.test", "correct horse")

		assert.NoError(t, err)
		assert.NotEqual(t, result.Token, storedHash)
		assert.Equal(t, util.HmacSHA256(testSessionSecret, result.Token), storedHash)
	})

	t.Run("wrong password fails like unknown email", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		user := activeGuard(t, "correct horse")
		userRepo.On("FindByEmail", ctx, "guard@condo.test").Return(user, nil)
		userRepo.On("FindByEmail", ctx, "nobody@condo.test").Return(nil, nil)

		_, errWrongPassword := svc.Login(ctx, "guard@condo.test", "battery staple")
		_, errUnknownEmail := svc.Login(ctx, "nobody@condo.test", "battery staple")

		assert.Equal(t, apperrors.ErrCodeInvalidLogin, apperrors.GetCode(errWrongPassword))
		assert.Equal(t, apperrors.ErrCodeInvalidLogin, apperrors.GetCode(errUnknownEmail))
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		user := activeGuard(t, "correct horse")
		user.Active = false
		userRepo.On("FindByEmail", ctx, "guard@condo.test").Return(user, nil)

		result, err := svc.Login(ctx, "guard@condo.test", "correct horse")

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrCodeInvalidLogin, apperrors.GetCode(err))
	})
}

func TestAuthService_ValidateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a valid token to its user", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		token := "raw-token"
		sessionRepo.On("FindByTokenHash", ctx, util.HmacSHA256(testSessionSecret, token)).Return(&model.Session{
			ID:        "session-1",
			UserID:    "guard-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
		userRepo.On("FindByID", ctx, "guard-1").Return(&model.User{ID: "guard-1", Active: true}, nil)

		user, err := svc.ValidateSession(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, "guard-1", user.ID)
	})

	t.Run("unknown token yields no user", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		sessionRepo.On("FindByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, nil)

		user, err := svc.ValidateSession(ctx, "bogus")

		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("deactivated user invalidates the session", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		sessionRepo.On("FindByTokenHash", ctx, mock.AnythingOfType("string")).Return(&model.Session{
			ID:     "session-1",
			UserID: "guard-1",
		}, nil)
		userRepo.On("FindByID", ctx, "guard-1").Return(&model.User{ID: "guard-1", Active: false}, nil)

		user, err := svc.ValidateSession(ctx, "raw-token")

		assert.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the session for a known token", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		sessionRepo.On("FindByTokenHash", ctx, mock.AnythingOfType("string")).Return(&model.Session{ID: "session-1"}, nil)
		sessionRepo.On("Delete", ctx, "session-1").Return(nil)

		err := svc.Logout(ctx, "raw-token")

		assert.NoError(t, err)
		sessionRepo.AssertExpectations(t)
	})

	t.Run("unknown token is a no-op", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		sessionRepo := new(mockSessionRepo)
		svc := NewAuthService(userRepo, sessionRepo, testSessionSecret)

		sessionRepo.On("FindByTokenHash", ctx, mock.AnythingOfType("string")).Return(nil, nil)

		err := svc.Logout(ctx, "raw-token")

		assert.NoError(t, err)
		sessionRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
