package model

import (
	"time"
)

// User is a portal account: an administrator, a gate guard, or a resident.
// Residents additionally carry their unit and registered vehicle plate
// (matricula), which the guard station uses for plate-based lookup.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         Role      `db:"role" json:"role"`
	Unit         *string   `db:"unit" json:"unit,omitempty"`
	Matricula    *string   `db:"matricula" json:"matricula,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type CreateUserParams struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Unit         *string
	Matricula    *string
}

type UpdateUserParams struct {
	Name      string
	Unit      *string
	Matricula *string
}
