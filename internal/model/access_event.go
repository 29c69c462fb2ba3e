package model

import (
	"time"
)

// AccessEvent is an immutable record of a single gate entry or exit.
// Exit events carry the visitor and resident information copied from the
// entry they resolve; names are snapshots taken at recording time and are
// never re-synced with the directory.
type AccessEvent struct {
	ID           string    `db:"id" json:"id"`
	Kind         EventKind `db:"kind" json:"kind"`
	Plate        string    `db:"plate" json:"plate"`
	VisitorName  string    `db:"visitor_name" json:"visitorName"`
	VisitReason  *string   `db:"visit_reason" json:"visitReason,omitempty"`
	ResidentID   *string   `db:"resident_id" json:"residentId,omitempty"`
	ResidentName *string   `db:"resident_name" json:"residentName,omitempty"`
	GuardID      string    `db:"guard_id" json:"guardId"`
	GuardName    string    `db:"guard_name" json:"guardName"`
	AccessCodeID *string   `db:"access_code_id" json:"accessCodeId,omitempty"`
	Timestamp    time.Time `db:"timestamp" json:"timestamp"`
	// IsActive is true only on an entry whose exit has not been recorded yet.
	IsActive bool `db:"is_active" json:"isActive"`
}

// CreateEntryParams contains parameters for recording an entry event.
// ID, Plate, and Timestamp are assigned by the ledger before insertion.
type CreateEntryParams struct {
	ID           string
	Plate        string
	VisitorName  string
	VisitReason  *string
	ResidentID   *string
	ResidentName *string
	GuardID      string
	GuardName    string
	AccessCodeID *string
	Timestamp    time.Time
}

// CompleteExitParams contains parameters for resolving an active entry.
// Visitor and resident fields are copied from the matched entry inside the
// exit transaction; the guard here is the one recording the exit.
type CompleteExitParams struct {
	ID        string
	GuardID   string
	GuardName string
	Timestamp time.Time
}
