package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

// BookingsService reserves chargers for future sessions.
type BookingsService struct {
	bookings BookingStore
	chargers ChargerStore
	users    UserStore
	logger   *zap.Logger
}

// NewBookingsService builds service.
func NewBookingsService(bookings BookingStore, chargers ChargerStore, users UserStore, logger *zap.Logger) *BookingsService {
	return &BookingsService{
		bookings: bookings,
		chargers: chargers,
		users:    users,
		logger:   logger,
	}
}

// CreateBooking reserves an available charger for the window. The charger is
// flipped to reserved so the booked-then-start flow can claim it later.
func (s *BookingsService) CreateBooking(ctx context.Context, userID, chargerID int64, start, end time.Time) (*models.Booking, error) {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return nil, ErrInvalidInput
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	charger, err := s.chargers.GetByID(ctx, chargerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if charger.Status != models.ChargerStatusAvailable {
		return nil, ErrInvalidState
	}

	overlap, err := s.bookings.HasOverlap(ctx, chargerID, start, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrBookingConflict
	}

	reserved, err := s.chargers.CompareAndSetStatus(ctx, chargerID,
		[]string{models.ChargerStatusAvailable}, models.ChargerStatusReserved)
	if err != nil {
		return nil, err
	}
	if !reserved {
		return nil, ErrInvalidState
	}

	booking := &models.Booking{
		UserID:    userID,
		ChargerID: chargerID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		Status:    models.BookingStatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		// Roll the reservation back so the charger is not stranded.
		if _, rbErr := s.chargers.CompareAndSetStatus(ctx, chargerID,
			[]string{models.ChargerStatusReserved}, models.ChargerStatusAvailable); rbErr != nil {
			s.logger.Error("failed to release charger after booking insert error",
				zap.Int64("charger_id", chargerID), zap.Error(rbErr))
		}
		return nil, err
	}

	s.logger.Info("booking created",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("charger_id", chargerID),
		zap.Int64("user_id", userID),
	)
	return booking, nil
}

// CancelBooking cancels the caller's pending booking and releases the charger.
func (s *BookingsService) CancelBooking(ctx context.Context, userID, bookingID int64) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if booking.UserID != userID {
		return ErrForbidden
	}

	cancelled, err := s.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return err
	}
	if !cancelled {
		return ErrInvalidState
	}

	if _, err := s.chargers.CompareAndSetStatus(ctx, booking.ChargerID,
		[]string{models.ChargerStatusReserved}, models.ChargerStatusAvailable); err != nil {
		return err
	}

	s.logger.Info("booking cancelled", zap.Int64("booking_id", bookingID))
	return nil
}

// BookingsByUser returns a user's bookings.
func (s *BookingsService) BookingsByUser(ctx context.Context, userID int64, limit int) ([]models.Booking, error) {
	return s.bookings.ListByUser(ctx, userID, limit)
}
