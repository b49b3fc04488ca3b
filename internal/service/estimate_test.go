package service

import (
	"testing"
	"time"

	"chargehub/internal/models"
)

func TestFinalCost(t *testing.T) {
	cases := []struct {
		name   string
		energy float64
		price  float64
		want   float64
	}{
		{"simple", 10, 0.23, 2.30},
		{"whole", 11.0, 0.25, 2.75},
		{"rounds up", 3.333, 0.3, 1.0},
		{"zero energy", 0, 0.5, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FinalCost(tc.energy, tc.price)
			if got != tc.want {
				t.Fatalf("FinalCost(%v, %v) = %v, want %v", tc.energy, tc.price, got, tc.want)
			}
		})
	}
}

func TestEstimateLiveStatusThirtyMinutes(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := &models.Session{
		ID:        7,
		Status:    models.SessionStatusActive,
		StartTime: start,
	}
	charger := &models.Charger{PowerCapacityKW: 22, PricePerKWh: 0.25}

	got := EstimateLiveStatus(session, charger, start.Add(30*time.Minute))

	if got.EnergyKWh != 11.0 {
		t.Errorf("energy = %v, want 11.0", got.EnergyKWh)
	}
	if got.StateOfCharge != 60 {
		t.Errorf("soc = %v, want 60", got.StateOfCharge)
	}
	// Raw estimate is 2.75; the live figure is rounded to the whole unit.
	if got.Cost != 3 {
		t.Errorf("cost = %v, want 3", got.Cost)
	}
	if got.TimeRemainingMin != 20 {
		t.Errorf("time remaining = %v, want 20", got.TimeRemainingMin)
	}
	if got.Alert != "" {
		t.Errorf("unexpected alert %q", got.Alert)
	}
	if got.SessionID != 7 {
		t.Errorf("session id = %v, want 7", got.SessionID)
	}
}

func TestEstimateLiveStatusMonotoneAndClamped(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	session := &models.Session{Status: models.SessionStatusActive, StartTime: start}
	charger := &models.Charger{PowerCapacityKW: 7.4, PricePerKWh: 0.3}

	prev := -1.0
	for minutes := 0; minutes <= 120; minutes += 5 {
		got := EstimateLiveStatus(session, charger, start.Add(time.Duration(minutes)*time.Minute))
		if got.StateOfCharge < prev {
			t.Fatalf("soc decreased at %d min: %v < %v", minutes, got.StateOfCharge, prev)
		}
		if got.StateOfCharge < 0 || got.StateOfCharge > 100 {
			t.Fatalf("soc out of range at %d min: %v", minutes, got.StateOfCharge)
		}
		prev = got.StateOfCharge
	}

	capped := EstimateLiveStatus(session, charger, start.Add(2*time.Hour))
	if capped.StateOfCharge != 100 {
		t.Errorf("soc after 2h = %v, want 100", capped.StateOfCharge)
	}
	if !capped.FullyCharged() {
		t.Error("expected fully charged after 2h")
	}
	if capped.TimeRemainingMin != 0 {
		t.Errorf("time remaining = %v, want 0", capped.TimeRemainingMin)
	}
}

func TestEstimateLiveStatusClockSkew(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	session := &models.Session{Status: models.SessionStatusActive, StartTime: start}
	charger := &models.Charger{PowerCapacityKW: 22, PricePerKWh: 0.25}

	// A now earlier than start must read as minute zero, not negative charge.
	got := EstimateLiveStatus(session, charger, start.Add(-time.Minute))
	if got.StateOfCharge != 0 || got.EnergyKWh != 0 || got.Cost != 0 {
		t.Fatalf("expected zero estimate before start, got soc=%v energy=%v cost=%v",
			got.StateOfCharge, got.EnergyKWh, got.Cost)
	}
}

func TestEstimateLiveStatusAlmostFullAlert(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	session := &models.Session{Status: models.SessionStatusActive, StartTime: start}
	charger := &models.Charger{PowerCapacityKW: 22, PricePerKWh: 0.25}

	below := EstimateLiveStatus(session, charger, start.Add(44*time.Minute))
	if below.Alert != "" {
		t.Errorf("no alert expected at soc %v, got %q", below.StateOfCharge, below.Alert)
	}

	at := EstimateLiveStatus(session, charger, start.Add(45*time.Minute))
	if at.StateOfCharge != 90 {
		t.Fatalf("soc at 45 min = %v, want 90", at.StateOfCharge)
	}
	if at.Alert != "almost full" {
		t.Errorf("alert = %q, want %q", at.Alert, "almost full")
	}
}
