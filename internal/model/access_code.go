package model

import (
	"time"
)

// AccessCode is a time-boxed, single-use pre-authorization a resident issues
// to a prospective visitor. Codes are never deleted; used and expired codes
// are kept for audit.
type AccessCode struct {
	ID           string     `db:"id" json:"id"`
	Code         string     `db:"code" json:"code"`
	ResidentID   string     `db:"resident_id" json:"residentId"`
	ResidentName string     `db:"resident_name" json:"residentName"`
	VisitorName  string     `db:"visitor_name" json:"visitorName"`
	ValidUntil   time.Time  `db:"valid_until" json:"validUntil"`
	UsedAt       *time.Time `db:"used_at" json:"usedAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// CreateAccessCodeParams contains parameters for issuing an access code
type CreateAccessCodeParams struct {
	ID           string
	Code         string
	ResidentID   string
	ResidentName string
	VisitorName  string
	ValidUntil   time.Time
	CreatedAt    time.Time
}

// IsExpired checks whether the code's validity window has passed
func (c *AccessCode) IsExpired(now time.Time) bool {
	return now.After(c.ValidUntil)
}

// IsValid checks whether the code can still authorize an entry
func (c *AccessCode) IsValid(now time.Time) bool {
	return !c.IsExpired(now) && c.UsedAt == nil
}
