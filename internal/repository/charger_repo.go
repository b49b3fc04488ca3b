package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargehub/internal/models"
)

// ChargerRepository handles persistence of charging points.
type ChargerRepository struct {
	db *sql.DB
}

// NewChargerRepository returns repository.
func NewChargerRepository(db *sql.DB) *ChargerRepository {
	return &ChargerRepository{db: db}
}

// Create inserts a new charger.
func (r *ChargerRepository) Create(ctx context.Context, charger *models.Charger) error {
	const query = `
		INSERT INTO chargers (station_id, name, connector_type, power_capacity_kw, price_per_kwh, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		charger.StationID,
		charger.Name,
		charger.ConnectorType,
		charger.PowerCapacityKW,
		charger.PricePerKWh,
		charger.Status,
	).Scan(&charger.ID, &charger.CreatedAt, &charger.UpdatedAt)
}

// GetByID fetches a charger.
func (r *ChargerRepository) GetByID(ctx context.Context, id int64) (*models.Charger, error) {
	const query = `
		SELECT id, station_id, name, connector_type, power_capacity_kw, price_per_kwh, status, created_at, updated_at
		FROM chargers
		WHERE id = $1
	`
	var c models.Charger
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.StationID,
		&c.Name,
		&c.ConnectorType,
		&c.PowerCapacityKW,
		&c.PricePerKWh,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByStation returns all chargers at a station.
func (r *ChargerRepository) ListByStation(ctx context.Context, stationID int64) ([]models.Charger, error) {
	const query = `
		SELECT id, station_id, name, connector_type, power_capacity_kw, price_per_kwh, status, created_at, updated_at
		FROM chargers
		WHERE station_id = $1
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chargers []models.Charger
	for rows.Next() {
		var c models.Charger
		if err := rows.Scan(
			&c.ID,
			&c.StationID,
			&c.Name,
			&c.ConnectorType,
			&c.PowerCapacityKW,
			&c.PricePerKWh,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		chargers = append(chargers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chargers, nil
}

// SetStatus updates charger status unconditionally.
func (r *ChargerRepository) SetStatus(ctx context.Context, id int64, status string) error {
	const query = `
		UPDATE chargers
		SET status = $2,
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CompareAndSetStatus flips status only when the current value is one of from.
// Returns false without error when the charger was in another state.
func (r *ChargerRepository) CompareAndSetStatus(ctx context.Context, id int64, from []string, to string) (bool, error) {
	const query = `
		UPDATE chargers
		SET status = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status = ANY($2)
	`
	result, err := r.db.ExecContext(ctx, query, id, from, to)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
