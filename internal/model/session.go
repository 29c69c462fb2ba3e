package model

import (
	"time"
)

// Session is a portal login session. Only the HMAC hash of the opaque token
// is stored; the raw token lives in the client cookie.
type Session struct {
	ID        string    `db:"id" json:"id"`
	TokenHash string    `db:"token_hash" json:"-"`
	UserID    string    `db:"user_id" json:"userId"`
	Role      Role      `db:"role" json:"role"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateSessionParams struct {
	ID        string
	TokenHash string
	UserID    string
	Role      Role
	ExpiresAt time.Time
}
