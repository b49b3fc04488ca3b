package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chargehub/internal/models"
	redisstore "chargehub/internal/redis"
	"chargehub/internal/repository"
)

// SessionsService owns the charging-session lifecycle: start, stop,
// broadcast-driven auto-complete, and incident handling.
type SessionsService struct {
	sessions  SessionStore
	chargers  ChargerStore
	users     UserStore
	incidents IncidentStore
	cache     SessionCache
	locks     ChargerLocker
	logger    *zap.Logger
}

// NewSessionsService builds service. Cache and locks may be nil.
func NewSessionsService(
	sessions SessionStore,
	chargers ChargerStore,
	users UserStore,
	incidents IncidentStore,
	cache SessionCache,
	locks ChargerLocker,
	logger *zap.Logger,
) *SessionsService {
	return &SessionsService{
		sessions:  sessions,
		chargers:  chargers,
		users:     users,
		incidents: incidents,
		cache:     cache,
		locks:     locks,
		logger:    logger,
	}
}

// StartSession begins charging for the user on the given charger.
// The charger must be available or reserved; a failed precondition leaves the
// charger untouched and creates no session.
func (s *SessionsService) StartSession(ctx context.Context, userID, chargerID int64) (*models.Session, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
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
	if !charger.Startable() {
		s.logger.Warn("cannot start session, charger not startable",
			zap.Int64("charger_id", chargerID),
			zap.String("status", charger.Status),
		)
		return nil, ErrInvalidState
	}

	if s.locks != nil {
		acquired, err := s.locks.Acquire(ctx, chargerID)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrInvalidState
		}
		defer func() {
			if err := s.locks.Release(ctx, chargerID); err != nil {
				s.logger.Warn("failed to release charger lock", zap.Int64("charger_id", chargerID), zap.Error(err))
			}
		}()
	}

	session := &models.Session{
		UserID:    user.ID,
		ChargerID: charger.ID,
		Token:     uuid.NewString(),
		Status:    models.SessionStatusActive,
		StartTime: time.Now().UTC(),
	}
	if err := s.sessions.StartOnCharger(ctx, session); err != nil {
		if errors.Is(err, repository.ErrChargerUnavailable) {
			// Lost the race to another starter between the read and the claim.
			return nil, ErrInvalidState
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, redisstore.ActiveSession{
			SessionID: session.ID,
			Token:     session.Token,
			ChargerID: session.ChargerID,
			UserID:    session.UserID,
		}); err != nil {
			s.logger.Warn("failed to cache active session", zap.Error(err))
		}
	}

	s.logger.Info("charging session started",
		zap.Int64("session_id", session.ID),
		zap.Int64("charger_id", charger.ID),
		zap.Int64("user_id", user.ID),
	)
	return session, nil
}

// StopSession finalizes an active session with the measured energy and end
// state of charge, computes the total cost from the charger's price and frees
// the charger. Returns false when the session is not active; a second stop on
// the same session is a no-op.
func (s *SessionsService) StopSession(ctx context.Context, sessionID int64, energyKWh float64, endSOC *float64) (bool, error) {
	if energyKWh < 0 {
		return false, ErrInvalidInput
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	charger, err := s.chargers.GetByID(ctx, session.ChargerID)
	if err != nil {
		return false, err
	}

	totalCost := FinalCost(energyKWh, charger.PricePerKWh)
	stopped, err := s.sessions.Complete(ctx, sessionID, time.Now().UTC(), energyKWh, endSOC, totalCost)
	if err != nil {
		return false, err
	}
	if !stopped {
		s.logger.Warn("cannot stop session, not active", zap.Int64("session_id", sessionID))
		return false, nil
	}

	s.dropFromCache(ctx, session.Token)
	s.logger.Info("charging session stopped",
		zap.Int64("session_id", sessionID),
		zap.Float64("energy_kwh", energyKWh),
		zap.Float64("total_cost", totalCost),
	)
	return true, nil
}

// CompleteFullyCharged is the broadcast tick's transition: when the simulated
// charge reaches 100% the session is closed with an end time only. Guarded by
// the same status compare-and-set as StopSession, so it fires at most once
// and never double-completes a session an operator is stopping concurrently.
func (s *SessionsService) CompleteFullyCharged(ctx context.Context, sessionID int64) (bool, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	completed, err := s.sessions.AutoComplete(ctx, sessionID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if completed {
		s.dropFromCache(ctx, session.Token)
		s.logger.Info("session auto-completed at full charge", zap.Int64("session_id", sessionID))
	}
	return completed, nil
}

// ReportIncident records a fault and takes the charger out of order
// unconditionally. An active session on that charger is left active; the
// original platform behaves the same way and callers depend on it.
func (s *SessionsService) ReportIncident(ctx context.Context, chargerID, reporterID int64, description string) (*models.Incident, error) {
	if description == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.chargers.GetByID(ctx, chargerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	incident := &models.Incident{
		ChargerID:   chargerID,
		ReportedBy:  reporterID,
		Description: description,
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, err
	}

	if err := s.chargers.SetStatus(ctx, chargerID, models.ChargerStatusOutOfOrder); err != nil {
		return nil, err
	}

	s.logger.Warn("incident reported, charger out of order",
		zap.Int64("charger_id", chargerID),
		zap.Int64("reported_by", reporterID),
	)
	return incident, nil
}

// GetSession returns one session.
func (s *SessionsService) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

// SessionsByUser returns user's session history.
func (s *SessionsService) SessionsByUser(ctx context.Context, userID int64, limit int) ([]models.Session, error) {
	return s.sessions.ListByUser(ctx, userID, limit)
}

// ActiveSessions returns currently running sessions.
func (s *SessionsService) ActiveSessions(ctx context.Context, limit int) ([]models.Session, error) {
	return s.sessions.ListActive(ctx, limit)
}

// ActiveSessionsAtStation returns running sessions on a station's chargers.
func (s *SessionsService) ActiveSessionsAtStation(ctx context.Context, stationID int64) ([]models.Session, error) {
	return s.sessions.ListActiveByStation(ctx, stationID)
}

// LiveStatus estimates progress for one session right now.
func (s *SessionsService) LiveStatus(ctx context.Context, sessionID int64) (*LiveStatus, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	charger, err := s.chargers.GetByID(ctx, session.ChargerID)
	if err != nil {
		return nil, err
	}
	status := EstimateLiveStatus(session, charger, time.Now().UTC())
	return &status, nil
}

// Charger returns the charger backing a session.
func (s *SessionsService) Charger(ctx context.Context, chargerID int64) (*models.Charger, error) {
	charger, err := s.chargers.GetByID(ctx, chargerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return charger, nil
}

func (s *SessionsService) dropFromCache(ctx context.Context, token string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, token); err != nil {
		s.logger.Warn("failed to delete active session cache", zap.Error(err))
	}
}
