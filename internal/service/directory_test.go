package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/condovia/condo-server-go/internal/errors"
	"github.com/condovia/condo-server-go/internal/model"
)

func TestDirectoryService_FindByMatricula(t *testing.T) {
	ctx := context.Background()

	t.Run("matches any spelling of a registered plate", func(t *testing.T) {
		matricula := "QRS-456"
		resident := &model.User{
			ID:        "resident-1",
			Name:      "Laura",
			Role:      model.RoleResident,
			Matricula: &matricula,
			Active:    true,
		}

		for _, spelling := range []string{"qrs456", "QRS 456", "qrs-456"} {
			userRepo := new(mockUserRepo)
			svc := NewDirectoryService(userRepo)

			userRepo.On("FindActiveResidentByPlate", ctx, "QRS-456").Return(resident, nil)

			found, err := svc.FindByMatricula(ctx, spelling)

			assert.NoError(t, err, "spelling %q", spelling)
			assert.Equal(t, "resident-1", found.ID)
		}
	})

	t.Run("unregistered plate is not found", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		svc := NewDirectoryService(userRepo)

		userRepo.On("FindActiveResidentByPlate", ctx, "ZZZ-999").Return(nil, nil)

		found, err := svc.FindByMatricula(ctx, "zzz 999")

		assert.Nil(t, found)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("rejects empty matricula", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		svc := NewDirectoryService(userRepo)

		found, err := svc.FindByMatricula(ctx, "  ")

		assert.Nil(t, found)
		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})
}

func TestDirectoryService_FindByID(t *testing.T) {
	ctx := context.Background()

	t.Run("finds an active resident", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		svc := NewDirectoryService(userRepo)

		id := "0f8fad5b-d9cb-469f-a165-70867728950e"
		userRepo.On("FindByID", ctx, id).Return(&model.User{
			ID:     id,
			Role:   model.RoleResident,
			Active: true,
		}, nil)

		found, err := svc.FindByID(ctx, id)

		assert.NoError(t, err)
		assert.Equal(t, id, found.ID)
	})

	t.Run("non-resident accounts are not in the directory", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		svc := NewDirectoryService(userRepo)

		id := "0f8fad5b-d9cb-469f-a165-70867728950e"
		userRepo.On("FindByID", ctx, id).Return(&model.User{
			ID:     id,
			Role:   model.RoleGuard,
			Active: true,
		}, nil)

		found, err := svc.FindByID(ctx, id)

		assert.Nil(t, found)
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		svc := NewDirectoryService(userRepo)

		found, err := svc.FindByID(ctx, "not-a-uuid")

		assert.Nil(t, found)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})
}
