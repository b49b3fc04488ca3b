package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"chargehub/internal/models"
)

// BookingRepository persists charger reservations.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	const query = `
		INSERT INTO bookings (user_id, charger_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		booking.UserID,
		booking.ChargerID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

// GetByID fetches a booking.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	const query = `
		SELECT id, user_id, charger_id, start_time, end_time, status, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var b models.Booking
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.UserID,
		&b.ChargerID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// HasOverlap reports whether a pending booking overlaps the window.
func (r *BookingRepository) HasOverlap(ctx context.Context, chargerID int64, start, end time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE charger_id = $1
			  AND status = $2
			  AND start_time < $4
			  AND end_time > $3
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, chargerID, models.BookingStatusPending, start, end).Scan(&exists)
	return exists, err
}

// Cancel flips a pending booking to cancelled. Returns false when the booking
// was missing or already cancelled.
func (r *BookingRepository) Cancel(ctx context.Context, id int64) (bool, error) {
	const query = `
		UPDATE bookings
		SET status = $2,
		    updated_at = NOW()
		WHERE id = $1 AND status = $3
	`
	result, err := r.db.ExecContext(ctx, query, id, models.BookingStatusCancelled, models.BookingStatusPending)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListByUser returns a user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, user_id, charger_id, start_time, end_time, status, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ChargerID, &b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}
