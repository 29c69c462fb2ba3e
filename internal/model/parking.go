package model

import (
	"time"
)

// ParkingSpot is a numbered parking space, optionally assigned to a resident
// with the vehicle plate registered for it.
type ParkingSpot struct {
	ID         string     `db:"id" json:"id"`
	Number     string     `db:"number" json:"number"`
	ResidentID *string    `db:"resident_id" json:"residentId,omitempty"`
	Plate      *string    `db:"plate" json:"plate,omitempty"`
	AssignedAt *time.Time `db:"assigned_at" json:"assignedAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}
