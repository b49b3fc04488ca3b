package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargehub/internal/models"
)

// ErrChargerUnavailable indicates the charger was not in a startable state
// when a session start was attempted.
var ErrChargerUnavailable = errors.New("repository: charger not available")

// SessionRepository handles persistence of charging sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository returns repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, user_id, charger_id, token, status, start_time, end_time, energy_kwh, start_soc, end_soc, total_cost, created_at, updated_at`

// StartOnCharger atomically claims the charger and creates the session.
// The conditional charger update is the guard against two callers starting on
// the same charger: the loser sees zero rows and the transaction rolls back.
func (r *SessionRepository) StartOnCharger(ctx context.Context, session *models.Session) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const claim = `
		UPDATE chargers
		SET status = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = ANY($3)
	`
	result, err := tx.ExecContext(ctx, claim,
		session.ChargerID,
		models.ChargerStatusOccupied,
		[]string{models.ChargerStatusAvailable, models.ChargerStatusReserved},
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrChargerUnavailable
	}

	const insert = `
		INSERT INTO charging_sessions (user_id, charger_id, token, status, start_time, start_soc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRowContext(ctx, insert,
		session.UserID,
		session.ChargerID,
		session.Token,
		session.Status,
		session.StartTime,
		session.StartSOC,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// Complete finalizes an active session with measured energy and computed cost
// and frees the charger. Returns false when the session was missing or
// already completed; the charger is left untouched in that case.
func (r *SessionRepository) Complete(ctx context.Context, sessionID int64, endTime time.Time, energyKWh float64, endSOC *float64, totalCost float64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const finalize = `
		UPDATE charging_sessions
		SET end_time = $2,
		    energy_kwh = $3,
		    end_soc = $4,
		    total_cost = $5,
		    status = $6,
		    updated_at = NOW()
		WHERE id = $1 AND status = $7
		RETURNING charger_id
	`
	var chargerID int64
	err = tx.QueryRowContext(ctx, finalize,
		sessionID,
		endTime,
		energyKWh,
		endSOC,
		totalCost,
		models.SessionStatusCompleted,
		models.SessionStatusActive,
	).Scan(&chargerID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := releaseCharger(ctx, tx, chargerID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// AutoComplete transitions an active session to completed with an end time
// only, as the broadcast tick does when the simulated charge reaches 100%.
// Energy and cost stay unset. Idempotent: a second call finds no active row.
func (r *SessionRepository) AutoComplete(ctx context.Context, sessionID int64, endTime time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	const finalize = `
		UPDATE charging_sessions
		SET end_time = $2,
		    status = $3,
		    updated_at = NOW()
		WHERE id = $1 AND status = $4
		RETURNING charger_id
	`
	var chargerID int64
	err = tx.QueryRowContext(ctx, finalize,
		sessionID,
		endTime,
		models.SessionStatusCompleted,
		models.SessionStatusActive,
	).Scan(&chargerID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := releaseCharger(ctx, tx, chargerID); err != nil {
		return false, err
	}

	return true, tx.Commit()
}

func releaseCharger(ctx context.Context, tx *sql.Tx, chargerID int64) error {
	const release = `
		UPDATE chargers
		SET status = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	_, err := tx.ExecContext(ctx, release, chargerID, models.ChargerStatusAvailable, models.ChargerStatusOccupied)
	return err
}

// GetByID fetches a session.
func (r *SessionRepository) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM charging_sessions
		WHERE id = $1
	`
	var s models.Session
	if err := scanSession(r.db.QueryRowContext(ctx, query, id), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListByUser returns last N sessions for user.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT ` + sessionColumns + `
		FROM charging_sessions
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2
	`
	return r.list(ctx, query, userID, limit)
}

// ListActive returns currently running sessions.
func (r *SessionRepository) ListActive(ctx context.Context, limit int) ([]models.Session, error) {
	if limit <= 0 {
		limit = 200
	}
	const query = `
		SELECT ` + sessionColumns + `
		FROM charging_sessions
		WHERE status = 'active'
		ORDER BY start_time
		LIMIT $1
	`
	return r.list(ctx, query, limit)
}

// ListActiveByStation returns running sessions on a station's chargers.
func (r *SessionRepository) ListActiveByStation(ctx context.Context, stationID int64) ([]models.Session, error) {
	const query = `
		SELECT s.id, s.user_id, s.charger_id, s.token, s.status, s.start_time, s.end_time, s.energy_kwh, s.start_soc, s.end_soc, s.total_cost, s.created_at, s.updated_at
		FROM charging_sessions s
		JOIN chargers c ON c.id = s.charger_id
		WHERE c.station_id = $1 AND s.status = 'active'
		ORDER BY s.start_time
	`
	return r.list(ctx, query, stationID)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.ChargerID,
			&s.Token,
			&s.Status,
			&s.StartTime,
			&s.EndTime,
			&s.EnergyKWh,
			&s.StartSOC,
			&s.EndSOC,
			&s.TotalCost,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func scanSession(row *sql.Row, s *models.Session) error {
	return row.Scan(
		&s.ID,
		&s.UserID,
		&s.ChargerID,
		&s.Token,
		&s.Status,
		&s.StartTime,
		&s.EndTime,
		&s.EnergyKWh,
		&s.StartSOC,
		&s.EndSOC,
		&s.TotalCost,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
}
