package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"chargehub/internal/models"
	"chargehub/internal/repository"
)

// StationsService manages stations and their chargers.
type StationsService struct {
	stations StationStore
	chargers ChargerStore
	logger   *zap.Logger
}

// NewStationsService builds service.
func NewStationsService(stations StationStore, chargers ChargerStore, logger *zap.Logger) *StationsService {
	return &StationsService{
		stations: stations,
		chargers: chargers,
		logger:   logger,
	}
}

// CreateStation registers a new station.
func (s *StationsService) CreateStation(ctx context.Context, name, location string) (*models.Station, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	station := &models.Station{
		Name:     name,
		Location: strings.TrimSpace(location),
		Status:   "active",
	}
	if err := s.stations.Create(ctx, station); err != nil {
		return nil, err
	}
	s.logger.Info("station created", zap.Int64("station_id", station.ID))
	return station, nil
}

// CreateCharger adds a charging point to an existing station.
func (s *StationsService) CreateCharger(ctx context.Context, stationID int64, name, connectorType string, powerKW, pricePerKWh float64) (*models.Charger, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(connectorType) == "" {
		return nil, ErrInvalidInput
	}
	if powerKW <= 0 || pricePerKWh < 0 {
		return nil, ErrInvalidInput
	}

	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	charger := &models.Charger{
		StationID:       stationID,
		Name:            strings.TrimSpace(name),
		ConnectorType:   strings.TrimSpace(connectorType),
		PowerCapacityKW: powerKW,
		PricePerKWh:     pricePerKWh,
		Status:          models.ChargerStatusAvailable,
	}
	if err := s.chargers.Create(ctx, charger); err != nil {
		return nil, err
	}
	s.logger.Info("charger created",
		zap.Int64("charger_id", charger.ID),
		zap.Int64("station_id", stationID),
	)
	return charger, nil
}

// ListStations returns all stations.
func (s *StationsService) ListStations(ctx context.Context) ([]models.Station, error) {
	return s.stations.List(ctx)
}

// GetStation returns one station.
func (s *StationsService) GetStation(ctx context.Context, id int64) (*models.Station, error) {
	station, err := s.stations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return station, nil
}

// StationChargers returns the chargers at a station with their live statuses,
// the staff monitoring view.
func (s *StationsService) StationChargers(ctx context.Context, stationID int64) ([]models.Charger, error) {
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.chargers.ListByStation(ctx, stationID)
}
