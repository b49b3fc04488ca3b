package models

import "time"

// Charger statuses. Transitions are driven by session lifecycle, booking and
// incident events only.
const (
	ChargerStatusAvailable  = "available"
	ChargerStatusOccupied   = "occupied"
	ChargerStatusReserved   = "reserved"
	ChargerStatusOutOfOrder = "out_of_order"
)

// Charger is a single physical charging point.
type Charger struct {
	ID              int64     `db:"id" json:"id"`
	StationID       int64     `db:"station_id" json:"station_id"`
	Name            string    `db:"name" json:"name"`
	ConnectorType   string    `db:"connector_type" json:"connector_type"`
	PowerCapacityKW float64   `db:"power_capacity_kw" json:"power_capacity_kw"`
	PricePerKWh     float64   `db:"price_per_kwh" json:"price_per_kwh"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// Startable reports whether a session may begin on this charger.
func (c *Charger) Startable() bool {
	return c.Status == ChargerStatusAvailable || c.Status == ChargerStatusReserved
}
