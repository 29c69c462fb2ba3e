package model

import (
	"time"
)

// Payment is a monthly maintenance fee charged to a resident.
// Period is the calendar month being charged, formatted YYYY-MM.
type Payment struct {
	ID           string        `db:"id" json:"id"`
	ResidentID   string        `db:"resident_id" json:"residentId"`
	ResidentName string        `db:"resident_name" json:"residentName"`
	Period       string        `db:"period" json:"period"`
	AmountCents  int64         `db:"amount_cents" json:"amountCents"`
	Status       PaymentStatus `db:"status" json:"status"`
	DueDate      time.Time     `db:"due_date" json:"dueDate"`
	PaidAt       *time.Time    `db:"paid_at" json:"paidAt,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
}

type CreatePaymentParams struct {
	ID           string
	ResidentID   string
	ResidentName string
	Period       string
	AmountCents  int64
	DueDate      time.Time
}
