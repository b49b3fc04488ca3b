package repository

import (
	"context"
	"database/sql"
	"errors"

	"chargehub/internal/models"
)

// PaymentRepository persists payments and performs the wallet debit.
type PaymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository returns repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	const query = `
		INSERT INTO payments (session_id, user_id, amount, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	return r.db.QueryRowContext(ctx, query,
		payment.SessionID,
		payment.UserID,
		payment.Amount,
		payment.Method,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
}

// CreateWithWalletDebit debits the user's wallet and records the payment in
// one transaction, so a debit can never be committed without its payment row.
// The conditional update makes the balance check and the debit a single step.
func (r *PaymentRepository) CreateWithWalletDebit(ctx context.Context, payment *models.Payment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const debit = `
		UPDATE users
		SET wallet_balance = wallet_balance - $2,
		    updated_at = NOW()
		WHERE id = $1 AND wallet_balance >= $2
	`
	result, err := tx.ExecContext(ctx, debit, payment.UserID, payment.Amount)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInsufficientBalance
	}

	const insert = `
		INSERT INTO payments (session_id, user_id, amount, method, status, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, insert,
		payment.SessionID,
		payment.UserID,
		payment.Amount,
		payment.Method,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

// GetByID fetches a payment.
func (r *PaymentRepository) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	const query = `
		SELECT id, session_id, user_id, amount, method, status, created_at
		FROM payments
		WHERE id = $1
	`
	var p models.Payment
	if err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.SessionID,
		&p.UserID,
		&p.Amount,
		&p.Method,
		&p.Status,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// HasCompletedForSession reports whether the session already has a completed payment.
func (r *PaymentRepository) HasCompletedForSession(ctx context.Context, sessionID int64) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM payments
			WHERE session_id = $1 AND status = $2
		)
	`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, sessionID, models.PaymentStatusCompleted).Scan(&exists)
	return exists, err
}

// CompareAndSetStatus flips payment status only from the expected value.
func (r *PaymentRepository) CompareAndSetStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	const query = `
		UPDATE payments
		SET status = $3
		WHERE id = $1 AND status = $2
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

// ListByUser returns latest payments for user.
func (r *PaymentRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Payment, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, session_id, user_id, amount, method, status, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
