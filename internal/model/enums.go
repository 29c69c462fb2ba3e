package model

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleGuard    Role = "guard"
	RoleResident Role = "resident"
)

type EventKind string

const (
	EventKindEntry EventKind = "entry"
	EventKindExit  EventKind = "exit"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusOverdue PaymentStatus = "overdue"
)
