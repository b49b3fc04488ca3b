package broadcast

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/service"
	"chargehub/internal/ws"
)

type fakeSource struct {
	sessions  map[int64]*models.Session
	chargers  map[int64]*models.Charger
	completed []int64
}

func (f *fakeSource) ActiveSessions(ctx context.Context, limit int) ([]models.Session, error) {
	var out []models.Session
	for _, session := range f.sessions {
		if session.Status == models.SessionStatusActive {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (f *fakeSource) Charger(ctx context.Context, chargerID int64) (*models.Charger, error) {
	charger, ok := f.chargers[chargerID]
	if !ok {
		return nil, errors.New("charger not found")
	}
	return charger, nil
}

func (f *fakeSource) CompleteFullyCharged(ctx context.Context, sessionID int64) (bool, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.Status != models.SessionStatusActive {
		return false, nil
	}
	session.Status = models.SessionStatusCompleted
	f.completed = append(f.completed, sessionID)
	return true, nil
}

type published struct {
	topic   string
	payload service.LiveStatus
}

type fakePublisher struct {
	messages []published
}

func (f *fakePublisher) Publish(topic string, payload interface{}) {
	status, ok := payload.(service.LiveStatus)
	if !ok {
		panic("unexpected payload type")
	}
	f.messages = append(f.messages, published{topic: topic, payload: status})
}

func newBroadcasterFixture(start time.Time, elapsed time.Duration) (*Broadcaster, *fakeSource, *fakePublisher) {
	source := &fakeSource{
		sessions: map[int64]*models.Session{
			1: {ID: 1, ChargerID: 5, Status: models.SessionStatusActive, StartTime: start},
		},
		chargers: map[int64]*models.Charger{
			5: {ID: 5, PowerCapacityKW: 22, PricePerKWh: 0.25, Status: models.ChargerStatusOccupied},
		},
	}
	pub := &fakePublisher{}
	b := New(source, pub, time.Second, zap.NewNop())
	b.clock = func() time.Time { return start.Add(elapsed) }
	return b, source, pub
}

func TestTickPublishesEstimates(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b, source, pub := newBroadcasterFixture(start, 10*time.Minute)

	b.Tick(context.Background())

	if len(pub.messages) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.topic != ws.SessionTopic(1) {
		t.Errorf("topic = %q, want %q", msg.topic, ws.SessionTopic(1))
	}
	if msg.payload.StateOfCharge != 20 {
		t.Errorf("soc = %v, want 20", msg.payload.StateOfCharge)
	}
	if msg.payload.Status != models.SessionStatusActive {
		t.Errorf("status = %q, want active", msg.payload.Status)
	}
	if len(source.completed) != 0 {
		t.Errorf("unexpected auto-complete: %v", source.completed)
	}
}

func TestTickAutoCompletesAtFullCharge(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b, source, pub := newBroadcasterFixture(start, time.Hour)

	b.Tick(context.Background())

	if len(source.completed) != 1 || source.completed[0] != 1 {
		t.Fatalf("completed = %v, want [1]", source.completed)
	}
	// Full charge publishes twice: the estimate, then the completed notice.
	if len(pub.messages) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.messages))
	}
	final := pub.messages[1].payload
	if final.Status != models.SessionStatusCompleted {
		t.Errorf("final status = %q, want completed", final.Status)
	}
	if final.Alert == "" {
		t.Error("expected a disconnect alert on the final message")
	}

	// The session is gone from the active set; the next tick is silent.
	b.Tick(context.Background())
	if len(pub.messages) != 2 {
		t.Errorf("second tick published %d extra messages", len(pub.messages)-2)
	}
	if len(source.completed) != 1 {
		t.Errorf("auto-complete fired again: %v", source.completed)
	}
}

func TestTickSkipsSessionWithMissingCharger(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b, source, pub := newBroadcasterFixture(start, 10*time.Minute)
	delete(source.chargers, 5)

	b.Tick(context.Background())

	if len(pub.messages) != 0 {
		t.Errorf("published %d messages for a session with no charger", len(pub.messages))
	}
}
