package service

import (
	"context"
	"time"

	"chargehub/internal/models"
	redisstore "chargehub/internal/redis"
	"chargehub/internal/repository"
)

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) put(user *models.User) *models.User {
	if user.ID == 0 {
		f.nextID++
		user.ID = f.nextID
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.put(user)
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (f *fakeUserStore) AddFunds(ctx context.Context, userID int64, amount float64) (float64, error) {
	user, ok := f.users[userID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	user.WalletBalance += amount
	return user.WalletBalance, nil
}

type fakeChargerStore struct {
	chargers map[int64]*models.Charger
	nextID   int64
}

func newFakeChargerStore() *fakeChargerStore {
	return &fakeChargerStore{chargers: make(map[int64]*models.Charger)}
}

func (f *fakeChargerStore) put(charger *models.Charger) *models.Charger {
	if charger.ID == 0 {
		f.nextID++
		charger.ID = f.nextID
	}
	f.chargers[charger.ID] = charger
	return charger
}

func (f *fakeChargerStore) Create(ctx context.Context, charger *models.Charger) error {
	f.put(charger)
	return nil
}

func (f *fakeChargerStore) GetByID(ctx context.Context, id int64) (*models.Charger, error) {
	charger, ok := f.chargers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *charger
	return &copied, nil
}

func (f *fakeChargerStore) ListByStation(ctx context.Context, stationID int64) ([]models.Charger, error) {
	var out []models.Charger
	for _, charger := range f.chargers {
		if charger.StationID == stationID {
			out = append(out, *charger)
		}
	}
	return out, nil
}

func (f *fakeChargerStore) SetStatus(ctx context.Context, id int64, status string) error {
	charger, ok := f.chargers[id]
	if !ok {
		return repository.ErrNotFound
	}
	charger.Status = status
	return nil
}

func (f *fakeChargerStore) CompareAndSetStatus(ctx context.Context, id int64, from []string, to string) (bool, error) {
	charger, ok := f.chargers[id]
	if !ok {
		return false, nil
	}
	for _, status := range from {
		if charger.Status == status {
			charger.Status = to
			return true, nil
		}
	}
	return false, nil
}

type fakeSessionStore struct {
	sessions map[int64]*models.Session
	chargers *fakeChargerStore
	nextID   int64
}

func newFakeSessionStore(chargers *fakeChargerStore) *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[int64]*models.Session),
		chargers: chargers,
	}
}

func (f *fakeSessionStore) put(session *models.Session) *models.Session {
	if session.ID == 0 {
		f.nextID++
		session.ID = f.nextID
	}
	f.sessions[session.ID] = session
	return session
}

func (f *fakeSessionStore) StartOnCharger(ctx context.Context, session *models.Session) error {
	claimed, err := f.chargers.CompareAndSetStatus(ctx, session.ChargerID,
		[]string{models.ChargerStatusAvailable, models.ChargerStatusReserved},
		models.ChargerStatusOccupied)
	if err != nil {
		return err
	}
	if !claimed {
		return repository.ErrChargerUnavailable
	}
	f.put(session)
	return nil
}

func (f *fakeSessionStore) Complete(ctx context.Context, sessionID int64, endTime time.Time, energyKWh float64, endSOC *float64, totalCost float64) (bool, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.Status != models.SessionStatusActive {
		return false, nil
	}
	session.Status = models.SessionStatusCompleted
	session.EndTime = &endTime
	session.EnergyKWh = &energyKWh
	session.EndSOC = endSOC
	session.TotalCost = &totalCost
	_, err := f.chargers.CompareAndSetStatus(ctx, session.ChargerID,
		[]string{models.ChargerStatusOccupied}, models.ChargerStatusAvailable)
	return true, err
}

func (f *fakeSessionStore) AutoComplete(ctx context.Context, sessionID int64, endTime time.Time) (bool, error) {
	session, ok := f.sessions[sessionID]
	if !ok || session.Status != models.SessionStatusActive {
		return false, nil
	}
	session.Status = models.SessionStatusCompleted
	session.EndTime = &endTime
	_, err := f.chargers.CompareAndSetStatus(ctx, session.ChargerID,
		[]string{models.ChargerStatusOccupied}, models.ChargerStatusAvailable)
	return true, err
}

func (f *fakeSessionStore) GetByID(ctx context.Context, id int64) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionStore) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Session, error) {
	var out []models.Session
	for _, session := range f.sessions {
		if session.UserID == userID {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) ListActive(ctx context.Context, limit int) ([]models.Session, error) {
	var out []models.Session
	for _, session := range f.sessions {
		if session.Status == models.SessionStatusActive {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) ListActiveByStation(ctx context.Context, stationID int64) ([]models.Session, error) {
	var out []models.Session
	for _, session := range f.sessions {
		if session.Status != models.SessionStatusActive {
			continue
		}
		charger, ok := f.chargers.chargers[session.ChargerID]
		if ok && charger.StationID == stationID {
			out = append(out, *session)
		}
	}
	return out, nil
}

type fakePaymentStore struct {
	payments map[int64]*models.Payment
	users    *fakeUserStore
	nextID   int64
}

func newFakePaymentStore(users *fakeUserStore) *fakePaymentStore {
	return &fakePaymentStore{
		payments: make(map[int64]*models.Payment),
		users:    users,
	}
}

func (f *fakePaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	f.nextID++
	payment.ID = f.nextID
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakePaymentStore) CreateWithWalletDebit(ctx context.Context, payment *models.Payment) error {
	user, ok := f.users.users[payment.UserID]
	if !ok || user.WalletBalance < payment.Amount {
		return repository.ErrInsufficientBalance
	}
	user.WalletBalance -= payment.Amount
	return f.Create(ctx, payment)
}

func (f *fakePaymentStore) GetByID(ctx context.Context, id int64) (*models.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *payment
	return &copied, nil
}

func (f *fakePaymentStore) HasCompletedForSession(ctx context.Context, sessionID int64) (bool, error) {
	for _, payment := range f.payments {
		if payment.SessionID == sessionID && payment.Status == models.PaymentStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePaymentStore) CompareAndSetStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	payment, ok := f.payments[id]
	if !ok || payment.Status != from {
		return false, nil
	}
	payment.Status = to
	return true, nil
}

func (f *fakePaymentStore) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Payment, error) {
	var out []models.Payment
	for _, payment := range f.payments {
		if payment.UserID == userID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

type fakeBookingStore struct {
	bookings map[int64]*models.Booking
	nextID   int64
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[int64]*models.Booking)}
}

func (f *fakeBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	f.nextID++
	booking.ID = f.nextID
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeBookingStore) HasOverlap(ctx context.Context, chargerID int64, start, end time.Time) (bool, error) {
	for _, booking := range f.bookings {
		if booking.ChargerID != chargerID || booking.Status != models.BookingStatusPending {
			continue
		}
		if booking.StartTime.Before(end) && booking.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingStore) Cancel(ctx context.Context, id int64) (bool, error) {
	booking, ok := f.bookings[id]
	if !ok || booking.Status != models.BookingStatusPending {
		return false, nil
	}
	booking.Status = models.BookingStatusCancelled
	return true, nil
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, userID int64, limit int) ([]models.Booking, error) {
	var out []models.Booking
	for _, booking := range f.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

type fakeStationStore struct {
	stations map[int64]*models.Station
	nextID   int64
}

func newFakeStationStore() *fakeStationStore {
	return &fakeStationStore{stations: make(map[int64]*models.Station)}
}

func (f *fakeStationStore) put(station *models.Station) *models.Station {
	if station.ID == 0 {
		f.nextID++
		station.ID = f.nextID
	}
	f.stations[station.ID] = station
	return station
}

func (f *fakeStationStore) Create(ctx context.Context, station *models.Station) error {
	f.put(station)
	return nil
}

func (f *fakeStationStore) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	station, ok := f.stations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *station
	return &copied, nil
}

func (f *fakeStationStore) List(ctx context.Context) ([]models.Station, error) {
	var out []models.Station
	for _, station := range f.stations {
		out = append(out, *station)
	}
	return out, nil
}

type fakeReportStore struct {
	summary *repository.StationSummary
}

func (f *fakeReportStore) StationSummary(ctx context.Context, stationID int64) (*repository.StationSummary, error) {
	copied := *f.summary
	copied.StationID = stationID
	return &copied, nil
}

type fakeIncidentStore struct {
	incidents []*models.Incident
}

func (f *fakeIncidentStore) Create(ctx context.Context, incident *models.Incident) error {
	incident.ID = int64(len(f.incidents) + 1)
	f.incidents = append(f.incidents, incident)
	return nil
}

type fakeSessionCache struct {
	saved   []redisstore.ActiveSession
	deleted []string
}

func (f *fakeSessionCache) Save(ctx context.Context, session redisstore.ActiveSession) error {
	f.saved = append(f.saved, session)
	return nil
}

func (f *fakeSessionCache) Delete(ctx context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return nil
}

type fakeChargerLocker struct {
	denied   bool
	acquired []int64
	released []int64
}

func (f *fakeChargerLocker) Acquire(ctx context.Context, chargerID int64) (bool, error) {
	if f.denied {
		return false, nil
	}
	f.acquired = append(f.acquired, chargerID)
	return true, nil
}

func (f *fakeChargerLocker) Release(ctx context.Context, chargerID int64) error {
	f.released = append(f.released, chargerID)
	return nil
}
