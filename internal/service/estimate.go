package service

import (
	"math"
	"time"

	"chargehub/internal/models"
)

// SOCRatePerMinute is the simulated charge rate. There is no hardware
// telemetry; progress is fabricated from elapsed wall-clock time.
const SOCRatePerMinute = 2.0

// LiveStatus is a point-in-time estimate of a running session, pushed to
// subscribers on every broadcast tick.
type LiveStatus struct {
	SessionID        int64     `json:"session_id"`
	StateOfCharge    float64   `json:"state_of_charge"`
	EnergyKWh        float64   `json:"energy_kwh"`
	Cost             float64   `json:"cost"`
	TimeRemainingMin int       `json:"time_remaining_min"`
	PowerKW          float64   `json:"power_kw"`
	Status           string    `json:"status"`
	StartTime        time.Time `json:"start_time"`
	UpdatedAt        time.Time `json:"updated_at"`
	Alert            string    `json:"alert,omitempty"`
}

// FinalCost computes the settled cost of a stopped session.
// Money is rounded to 2 decimal places at this boundary only.
func FinalCost(energyKWh, pricePerKWh float64) float64 {
	return Round2(energyKWh * pricePerKWh)
}

// EstimateLiveStatus fabricates charging progress from elapsed time:
// 2 percentage points of charge per minute, energy from the charger's power
// rating, cost from its price. SOC is clamped to [0,100] and reported to one
// decimal; energy to two; live cost to the nearest whole unit.
func EstimateLiveStatus(session *models.Session, charger *models.Charger, now time.Time) LiveStatus {
	minutes := now.Sub(session.StartTime).Minutes()
	if minutes < 0 {
		minutes = 0
	}
	elapsed := math.Floor(minutes)

	soc := math.Min(100, elapsed*SOCRatePerMinute)
	energy := charger.PowerCapacityKW * elapsed / 60
	cost := math.Round(energy * charger.PricePerKWh)
	remaining := math.Max(0, (100-soc)/SOCRatePerMinute)

	status := LiveStatus{
		SessionID:        session.ID,
		StateOfCharge:    Round1(soc),
		EnergyKWh:        Round2(energy),
		Cost:             cost,
		TimeRemainingMin: int(remaining),
		PowerKW:          charger.PowerCapacityKW,
		Status:           session.Status,
		StartTime:        session.StartTime,
		UpdatedAt:        now,
	}
	if soc >= 90 {
		status.Alert = "almost full"
	}
	return status
}

// FullyCharged reports whether the estimate has reached 100% SOC.
func (s LiveStatus) FullyCharged() bool {
	return s.StateOfCharge >= 100
}

// Round2 rounds money values to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds percentages to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
