package repository

import (
	"context"
	"database/sql"
)

// StationSummary aggregates revenue and usage for one station.
type StationSummary struct {
	StationID    int64   `json:"station_id"`
	SessionCount int64   `json:"session_count"`
	EnergyKWh    float64 `json:"energy_kwh"`
	Revenue      float64 `json:"revenue"`
}

// ReportRepository runs the reporting aggregates.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository returns repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// StationSummary returns completed-session counts, delivered energy and
// completed-payment revenue for the station in one query.
func (r *ReportRepository) StationSummary(ctx context.Context, stationID int64) (*StationSummary, error) {
	const query = `
		SELECT
			COUNT(s.id),
			COALESCE(SUM(s.energy_kwh), 0),
			COALESCE((
				SELECT SUM(p.amount)
				FROM payments p
				JOIN charging_sessions ps ON ps.id = p.session_id
				JOIN chargers pc ON pc.id = ps.charger_id
				WHERE pc.station_id = $1 AND p.status = 'completed'
			), 0)
		FROM charging_sessions s
		JOIN chargers c ON c.id = s.charger_id
		WHERE c.station_id = $1 AND s.status = 'completed'
	`
	summary := &StationSummary{StationID: stationID}
	if err := r.db.QueryRowContext(ctx, query, stationID).Scan(
		&summary.SessionCount,
		&summary.EnergyKWh,
		&summary.Revenue,
	); err != nil {
		return nil, err
	}
	return summary, nil
}
