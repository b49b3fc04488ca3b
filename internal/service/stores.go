package service

import (
	"context"
	"time"

	"chargehub/internal/models"
	redisstore "chargehub/internal/redis"
	"chargehub/internal/repository"
)

// Persistence contracts consumed by the services. The repository package
// provides the postgres implementations; tests substitute fakes.

// UserStore accesses user accounts and wallet balances.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	AddFunds(ctx context.Context, userID int64, amount float64) (float64, error)
}

// SessionStore accesses charging sessions.
type SessionStore interface {
	StartOnCharger(ctx context.Context, session *models.Session) error
	Complete(ctx context.Context, sessionID int64, endTime time.Time, energyKWh float64, endSOC *float64, totalCost float64) (bool, error)
	AutoComplete(ctx context.Context, sessionID int64, endTime time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Session, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Session, error)
	ListActive(ctx context.Context, limit int) ([]models.Session, error)
	ListActiveByStation(ctx context.Context, stationID int64) ([]models.Session, error)
}

// ChargerStore accesses charging points.
type ChargerStore interface {
	Create(ctx context.Context, charger *models.Charger) error
	GetByID(ctx context.Context, id int64) (*models.Charger, error)
	ListByStation(ctx context.Context, stationID int64) ([]models.Charger, error)
	SetStatus(ctx context.Context, id int64, status string) error
	CompareAndSetStatus(ctx context.Context, id int64, from []string, to string) (bool, error)
}

// StationStore accesses stations.
type StationStore interface {
	Create(ctx context.Context, station *models.Station) error
	GetByID(ctx context.Context, id int64) (*models.Station, error)
	List(ctx context.Context) ([]models.Station, error)
}

// PaymentStore accesses payments.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	CreateWithWalletDebit(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	HasCompletedForSession(ctx context.Context, sessionID int64) (bool, error)
	CompareAndSetStatus(ctx context.Context, id int64, from, to string) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Payment, error)
}

// BookingStore accesses reservations.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	HasOverlap(ctx context.Context, chargerID int64, start, end time.Time) (bool, error)
	Cancel(ctx context.Context, id int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]models.Booking, error)
}

// IncidentStore records fault reports.
type IncidentStore interface {
	Create(ctx context.Context, incident *models.Incident) error
}

// ReportStore runs reporting aggregates.
type ReportStore interface {
	StationSummary(ctx context.Context, stationID int64) (*repository.StationSummary, error)
}

// SessionCache is the redis-backed active-session cache.
type SessionCache interface {
	Save(ctx context.Context, session redisstore.ActiveSession) error
	Delete(ctx context.Context, token string) error
}

// ChargerLocker serializes start operations per charger across instances.
type ChargerLocker interface {
	Acquire(ctx context.Context, chargerID int64) (bool, error)
	Release(ctx context.Context, chargerID int64) error
}
