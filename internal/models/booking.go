package models

import "time"

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusCancelled = "cancelled"
)

// Booking reserves a charger for a time window.
type Booking struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	ChargerID int64     `db:"charger_id" json:"charger_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
