package repository

import (
	"context"
	"time"

	"github.com/condovia/condo-server-go/internal/database"
	"github.com/condovia/condo-server-go/internal/model"
)

// UserRepository handles portal account data operations
type UserRepository interface {
	Create(ctx context.Context, params model.CreateUserParams) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindActiveResidentByPlate matches an active resident whose registered
	// plate equals the given normalized plate
	FindActiveResidentByPlate(ctx context.Context, plate string) (*model.User, error)
	ListActiveResidents(ctx context.Context) ([]model.User, error)
	List(ctx context.Context, limit, offset int) ([]model.User, error)
	Update(ctx context.Context, id string, params model.UpdateUserParams) (*model.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type userRepo struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Create(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		INSERT INTO users (id, email, password_hash, name, role, unit, matricula)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING *
	`, params.ID, params.Email, params.PasswordHash, params.Name,
		params.Role, params.Unit, params.Matricula)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE id = $1
	`, id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users WHERE LOWER(email) = LOWER($1)
	`, email)
	return HandleNotFound(&user, err)
}

func (r *userRepo) FindActiveResidentByPlate(ctx context.Context, plate string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		SELECT * FROM users
		WHERE role = 'resident' AND active AND matricula = $1
	`, plate)
	return HandleNotFound(&user, err)
}

func (r *userRepo) ListActiveResidents(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM users
		WHERE role = 'resident' AND active
		ORDER BY name
	`)
	return users, err
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]model.User, error) {
	var users []model.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT * FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return users, err
}

func (r *userRepo) Update(ctx context.Context, id string, params model.UpdateUserParams) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, `
		UPDATE users
		SET name = $1, unit = $2, matricula = $3, updated_at = $4
		WHERE id = $5
		RETURNING *
	`, params.Name, params.Unit, params.Matricula, time.Now(), id)
	return HandleNotFound(&user, err)
}

func (r *userRepo) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET active = $1, updated_at = $2 WHERE id = $3
	`, active, time.Now(), id)
	return err
}
