package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

// PaymentsService settles session costs against a wallet or records
// cash/card payments taken at the station.
type PaymentsService struct {
	payments PaymentStore
	sessions SessionStore
	users    UserStore
	logger   *zap.Logger
}

// NewPaymentsService builds service.
func NewPaymentsService(payments PaymentStore, sessions SessionStore, users UserStore, logger *zap.Logger) *PaymentsService {
	return &PaymentsService{
		payments: payments,
		sessions: sessions,
		users:    users,
		logger:   logger,
	}
}

// PayWithWallet debits the session cost from the user's wallet and records a
// completed payment. The debit and the payment row commit together; an
// insufficient balance changes nothing.
func (s *PaymentsService) PayWithWallet(ctx context.Context, userID, sessionID int64) (*models.Payment, error) {
	session, err := s.payableSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		SessionID: session.ID,
		UserID:    userID,
		Amount:    *session.TotalCost,
		Method:    models.PaymentMethodWallet,
		Status:    models.PaymentStatusCompleted,
	}
	if err := s.payments.CreateWithWalletDebit(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			s.logger.Warn("insufficient wallet balance",
				zap.Int64("user_id", userID),
				zap.Float64("amount", payment.Amount),
			)
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}

	s.logger.Info("wallet payment processed",
		zap.Int64("session_id", session.ID),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

// PayCash records a cash payment taken by station staff.
func (s *PaymentsService) PayCash(ctx context.Context, sessionID int64) (*models.Payment, error) {
	return s.payOffline(ctx, sessionID, models.PaymentMethodCash)
}

// PayWithCard records a card payment taken at the station terminal.
func (s *PaymentsService) PayWithCard(ctx context.Context, sessionID int64) (*models.Payment, error) {
	return s.payOffline(ctx, sessionID, models.PaymentMethodCard)
}

func (s *PaymentsService) payOffline(ctx context.Context, sessionID int64, method string) (*models.Payment, error) {
	session, err := s.payableSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		SessionID: session.ID,
		UserID:    session.UserID,
		Amount:    *session.TotalCost,
		Method:    method,
		Status:    models.PaymentStatusCompleted,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("offline payment processed",
		zap.Int64("session_id", session.ID),
		zap.String("method", method),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

// payableSession loads the session and enforces payment preconditions: the
// session must have been stopped (cost computed) and not yet paid.
func (s *PaymentsService) payableSession(ctx context.Context, sessionID int64) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if session.TotalCost == nil {
		s.logger.Warn("cannot pay, session has no total cost", zap.Int64("session_id", sessionID))
		return nil, ErrInvalidState
	}

	paid, err := s.payments.HasCompletedForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if paid {
		return nil, ErrAlreadyPaid
	}
	return session, nil
}

// Refund marks a completed payment refunded. No wallet credit-back is wired
// to this; the refund is a bookkeeping state change only.
func (s *PaymentsService) Refund(ctx context.Context, paymentID int64) (bool, error) {
	if _, err := s.payments.GetByID(ctx, paymentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	refunded, err := s.payments.CompareAndSetStatus(ctx, paymentID, models.PaymentStatusCompleted, models.PaymentStatusRefunded)
	if err != nil {
		return false, err
	}
	if refunded {
		s.logger.Info("payment refunded", zap.Int64("payment_id", paymentID))
	}
	return refunded, nil
}

// AddFunds tops up the user's wallet and returns the new balance.
func (s *PaymentsService) AddFunds(ctx context.Context, userID int64, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidInput
	}
	balance, err := s.users.AddFunds(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	s.logger.Info("wallet topped up",
		zap.Int64("user_id", userID),
		zap.Float64("amount", amount),
		zap.Float64("balance", balance),
	)
	return balance, nil
}

// PaymentsByUser returns payment history for the user.
func (s *PaymentsService) PaymentsByUser(ctx context.Context, userID int64, limit int) ([]models.Payment, error) {
	return s.payments.ListByUser(ctx, userID, limit)
}
