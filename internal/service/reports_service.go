package service

import (
	"context"
	"errors"

	"chargehub/internal/repository"
)

// ReportsService exposes per-station revenue and usage aggregates.
type ReportsService struct {
	reports  ReportStore
	stations StationStore
}

// NewReportsService builds service.
func NewReportsService(reports ReportStore, stations StationStore) *ReportsService {
	return &ReportsService{reports: reports, stations: stations}
}

// StationSummary returns session count, energy delivered and revenue for one
// station. Money and energy are rounded at this boundary.
func (s *ReportsService) StationSummary(ctx context.Context, stationID int64) (*repository.StationSummary, error) {
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	summary, err := s.reports.StationSummary(ctx, stationID)
	if err != nil {
		return nil, err
	}
	summary.EnergyKWh = Round2(summary.EnergyKWh)
	summary.Revenue = Round2(summary.Revenue)
	return summary, nil
}
