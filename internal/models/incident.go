package models

import "time"

// Incident is a fault report against a charger.
type Incident struct {
	ID          int64     `db:"id" json:"id"`
	ChargerID   int64     `db:"charger_id" json:"charger_id"`
	ReportedBy  int64     `db:"reported_by" json:"reported_by"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
