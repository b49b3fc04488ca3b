package broadcast

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/service"
	"chargehub/internal/ws"
)

// SessionSource provides the lifecycle operations the broadcaster needs.
type SessionSource interface {
	ActiveSessions(ctx context.Context, limit int) ([]models.Session, error)
	Charger(ctx context.Context, chargerID int64) (*models.Charger, error)
	CompleteFullyCharged(ctx context.Context, sessionID int64) (bool, error)
}

// Publisher pushes a payload to all subscribers of a topic.
type Publisher interface {
	Publish(topic string, payload interface{})
}

// Broadcaster periodically estimates progress for every active session and
// pushes it to subscribers. Estimation is pure; the only side effect is the
// auto-complete transition once the simulated charge reaches 100%, which goes
// through the same compare-and-set path as an operator stop.
type Broadcaster struct {
	sessions SessionSource
	pub      Publisher
	interval time.Duration
	clock    func() time.Time
	logger   *zap.Logger
}

// New builds the broadcaster.
func New(sessions SessionSource, pub Publisher, interval time.Duration, logger *zap.Logger) *Broadcaster {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Broadcaster{
		sessions: sessions,
		pub:      pub,
		interval: interval,
		clock:    func() time.Time { return time.Now().UTC() },
		logger:   logger,
	}
}

// Run ticks until ctx is cancelled.
func (b *Broadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Tick(ctx)
		}
	}
}

// Tick runs one broadcast pass over all active sessions.
func (b *Broadcaster) Tick(ctx context.Context) {
	active, err := b.sessions.ActiveSessions(ctx, 0)
	if err != nil {
		b.logger.Error("failed to list active sessions", zap.Error(err))
		return
	}

	now := b.clock()
	for i := range active {
		session := &active[i]
		charger, err := b.sessions.Charger(ctx, session.ChargerID)
		if err != nil {
			b.logger.Warn("failed to load charger for broadcast",
				zap.Int64("session_id", session.ID),
				zap.Int64("charger_id", session.ChargerID),
				zap.Error(err),
			)
			continue
		}

		status := service.EstimateLiveStatus(session, charger, now)
		topic := ws.SessionTopic(session.ID)
		b.pub.Publish(topic, status)

		if !status.FullyCharged() {
			continue
		}

		completed, err := b.sessions.CompleteFullyCharged(ctx, session.ID)
		if err != nil {
			b.logger.Error("auto-complete failed", zap.Int64("session_id", session.ID), zap.Error(err))
			continue
		}
		if completed {
			status.Status = models.SessionStatusCompleted
			status.Alert = "fully charged, please disconnect"
			b.pub.Publish(topic, status)
		}
	}
}
