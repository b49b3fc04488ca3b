package models

import "time"

// Session statuses. A session is created active and transitions once to
// completed; there are no paused or cancelled states.
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// Session is one charging event from plug-in to stop.
// EndTime, EnergyKWh and TotalCost are set together when the session is
// stopped by an operator; a broadcast auto-complete sets EndTime only.
type Session struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"user_id"`
	ChargerID int64      `db:"charger_id" json:"charger_id"`
	Token     string     `db:"token" json:"token"`
	Status    string     `db:"status" json:"status"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   *time.Time `db:"end_time" json:"end_time,omitempty"`
	EnergyKWh *float64   `db:"energy_kwh" json:"energy_kwh,omitempty"`
	StartSOC  *float64   `db:"start_soc" json:"start_soc,omitempty"`
	EndSOC    *float64   `db:"end_soc" json:"end_soc,omitempty"`
	TotalCost *float64   `db:"total_cost" json:"total_cost,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
