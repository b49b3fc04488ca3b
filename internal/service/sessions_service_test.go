package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"chargehub/internal/models"
)

type sessionsFixture struct {
	service  *SessionsService
	users    *fakeUserStore
	chargers *fakeChargerStore
	sessions *fakeSessionStore
	incident *fakeIncidentStore
	cache    *fakeSessionCache
	locks    *fakeChargerLocker
}

func newSessionsFixture() *sessionsFixture {
	users := newFakeUserStore()
	chargers := newFakeChargerStore()
	sessions := newFakeSessionStore(chargers)
	incidents := &fakeIncidentStore{}
	cache := &fakeSessionCache{}
	locks := &fakeChargerLocker{}
	return &sessionsFixture{
		service:  NewSessionsService(sessions, chargers, users, incidents, cache, locks, zap.NewNop()),
		users:    users,
		chargers: chargers,
		sessions: sessions,
		incident: incidents,
		cache:    cache,
		locks:    locks,
	}
}

func (f *sessionsFixture) seedDriver() *models.User {
	return f.users.put(&models.User{Email: "driver@test.dev", Role: models.RoleDriver, WalletBalance: 100})
}

func (f *sessionsFixture) seedCharger(status string) *models.Charger {
	return f.chargers.put(&models.Charger{
		StationID:       1,
		Name:            "A1",
		PowerCapacityKW: 22,
		PricePerKWh:     0.25,
		Status:          status,
	})
}

func TestStartSession(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	charger := f.seedCharger(models.ChargerStatusAvailable)

	session, err := f.service.StartSession(context.Background(), user.ID, charger.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.Status != models.SessionStatusActive {
		t.Errorf("status = %q, want active", session.Status)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}
	if got := f.chargers.chargers[charger.ID].Status; got != models.ChargerStatusOccupied {
		t.Errorf("charger status = %q, want occupied", got)
	}
	if len(f.cache.saved) != 1 || f.cache.saved[0].SessionID != session.ID {
		t.Errorf("expected session cached once, got %v", f.cache.saved)
	}
	if len(f.locks.acquired) != 1 || len(f.locks.released) != 1 {
		t.Errorf("expected lock acquired and released once, got %v / %v", f.locks.acquired, f.locks.released)
	}
}

func TestStartSessionOnReservedCharger(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	charger := f.seedCharger(models.ChargerStatusReserved)

	if _, err := f.service.StartSession(context.Background(), user.ID, charger.ID); err != nil {
		t.Fatalf("start on reserved charger: %v", err)
	}
	if got := f.chargers.chargers[charger.ID].Status; got != models.ChargerStatusOccupied {
		t.Errorf("charger status = %q, want occupied", got)
	}
}

func TestStartSessionChargerNotStartable(t *testing.T) {
	for _, status := range []string{models.ChargerStatusOccupied, models.ChargerStatusOutOfOrder} {
		t.Run(status, func(t *testing.T) {
			f := newSessionsFixture()
			user := f.seedDriver()
			charger := f.seedCharger(status)

			_, err := f.service.StartSession(context.Background(), user.ID, charger.ID)
			if !errors.Is(err, ErrInvalidState) {
				t.Fatalf("err = %v, want ErrInvalidState", err)
			}
			if got := f.chargers.chargers[charger.ID].Status; got != status {
				t.Errorf("charger status changed to %q", got)
			}
			if len(f.sessions.sessions) != 0 {
				t.Errorf("expected no session created, got %d", len(f.sessions.sessions))
			}
		})
	}
}

func TestStartSessionUnknownUserOrCharger(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	charger := f.seedCharger(models.ChargerStatusAvailable)

	if _, err := f.service.StartSession(context.Background(), 999, charger.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown user: err = %v, want ErrNotFound", err)
	}
	if _, err := f.service.StartSession(context.Background(), user.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown charger: err = %v, want ErrNotFound", err)
	}
}

func TestStartSessionLockBusy(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	charger := f.seedCharger(models.ChargerStatusAvailable)
	f.locks.denied = true

	_, err := f.service.StartSession(context.Background(), user.ID, charger.ID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if len(f.sessions.sessions) != 0 {
		t.Error("expected no session when the charger lock is held")
	}
	if got := f.chargers.chargers[charger.ID].Status; got != models.ChargerStatusAvailable {
		t.Errorf("charger status = %q, want available", got)
	}
}

func TestStopSession(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	charger := f.seedCharger(models.ChargerStatusAvailable)
	session, err := f.service.StartSession(context.Background(), user.ID, charger.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	endSOC := 80.0
	stopped, err := f.service.StopSession(context.Background(), session.ID, 10, &endSOC)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !stopped {
		t.Fatal("expected stopped = true")
	}

	stored := f.sessions.sessions[session.ID]
	if stored.Status != models.SessionStatusCompleted {
		t.Errorf("session status = %q, want completed", stored.Status)
	}
	if stored.TotalCost == nil || *stored.TotalCost != 2.50 {
		t.Errorf("total cost = %v, want 2.50", stored.TotalCost)
	}
	if stored.EnergyKWh == nil || *stored.EnergyKWh != 10 {
		t.Errorf("energy = %v, want 10", stored.EnergyKWh)
	}
	if stored.EndSOC == nil || *stored.EndSOC != 80 {
		t.Errorf("end soc = %v, want 80", stored.EndSOC)
	}
	if got := f.chargers.chargers[charger.ID].Status; got != models.ChargerStatusAvailable {
		t.Errorf("charger status = %q, want available", got)
	}
	if len(f.cache.deleted) != 1 || f.cache.deleted[0] != session.Token {
		t.Errorf("expected cache entry dropped, got %v", f.cache.deleted)
	}
}

func TestStopSessionIdempotent(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	charger := f.seedCharger(models.ChargerStatusAvailable)
	session, err := f.service.StartSession(context.Background(), user.ID, charger.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := f.service.StopSession(context.Background(), session.ID, 10, nil); err != nil {
		t.Fatalf("first stop: %v", err)
	}
	firstCost := *f.sessions.sessions[session.ID].TotalCost

	stopped, err := f.service.StopSession(context.Background(), session.ID, 99, nil)
	if err != nil {
		t.Fatalf("second stop: %v", err)
	}
	if stopped {
		t.Error("second stop reported stopped = true")
	}
	if got := *f.sessions.sessions[session.ID].TotalCost; got != firstCost {
		t.Errorf("second stop changed cost: %v -> %v", firstCost, got)
	}
	if got := *f.sessions.sessions[session.ID].EnergyKWh; got != 10 {
		t.Errorf("second stop changed energy: %v", got)
	}
	if got := f.chargers.chargers[charger.ID].Status; got != models.ChargerStatusAvailable {
		t.Errorf("charger status = %q, want available", got)
	}
}

func TestStopSessionValidation(t *testing.T) {
	f := newSessionsFixture()

	if _, err := f.service.StopSession(context.Background(), 1, -1, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative energy: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.service.StopSession(context.Background(), 42, 5, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing session: err = %v, want ErrNotFound", err)
	}
}

func TestCompleteFullyCharged(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	charger := f.seedCharger(models.ChargerStatusAvailable)
	session, err := f.service.StartSession(context.Background(), user.ID, charger.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	completed, err := f.service.CompleteFullyCharged(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("auto-complete: %v", err)
	}
	if !completed {
		t.Fatal("expected completed = true")
	}

	stored := f.sessions.sessions[session.ID]
	if stored.Status != models.SessionStatusCompleted {
		t.Errorf("session status = %q, want completed", stored.Status)
	}
	if stored.EndTime == nil {
		t.Error("expected end time set")
	}
	// Auto-complete records no measurements; those stay open for settlement.
	if stored.EnergyKWh != nil || stored.TotalCost != nil {
		t.Errorf("expected energy/cost unset, got %v / %v", stored.EnergyKWh, stored.TotalCost)
	}
	if got := f.chargers.chargers[charger.ID].Status; got != models.ChargerStatusAvailable {
		t.Errorf("charger status = %q, want available", got)
	}

	again, err := f.service.CompleteFullyCharged(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("second auto-complete: %v", err)
	}
	if again {
		t.Error("second auto-complete reported completed = true")
	}
}

func TestReportIncident(t *testing.T) {
	f := newSessionsFixture()
	user := f.seedDriver()
	staff := f.users.put(&models.User{Email: "staff@test.dev", Role: models.RoleStaff})
	charger := f.seedCharger(models.ChargerStatusAvailable)
	session, err := f.service.StartSession(context.Background(), user.ID, charger.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	incident, err := f.service.ReportIncident(context.Background(), charger.ID, staff.ID, "connector jammed")
	if err != nil {
		t.Fatalf("report incident: %v", err)
	}
	if incident.ChargerID != charger.ID || incident.ReportedBy != staff.ID {
		t.Errorf("incident attribution wrong: %+v", incident)
	}
	if got := f.chargers.chargers[charger.ID].Status; got != models.ChargerStatusOutOfOrder {
		t.Errorf("charger status = %q, want out_of_order", got)
	}
	// The running session is untouched; staff still have to stop and settle it.
	if got := f.sessions.sessions[session.ID].Status; got != models.SessionStatusActive {
		t.Errorf("session status = %q, want active", got)
	}
}

func TestReportIncidentValidation(t *testing.T) {
	f := newSessionsFixture()
	staff := f.users.put(&models.User{Email: "staff@test.dev", Role: models.RoleStaff})

	if _, err := f.service.ReportIncident(context.Background(), 1, staff.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty description: err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.service.ReportIncident(context.Background(), 404, staff.ID, "broken"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown charger: err = %v, want ErrNotFound", err)
	}
}
