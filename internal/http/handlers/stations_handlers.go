package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"chargehub/internal/service"
)

// StationsHandlers exposes station and charger endpoints.
type StationsHandlers struct {
	stations *service.StationsService
	sessions *service.SessionsService
	logger   *zap.Logger
}

// NewStationsHandlers builds handler set.
func NewStationsHandlers(stations *service.StationsService, sessions *service.SessionsService, logger *zap.Logger) *StationsHandlers {
	return &StationsHandlers{stations: stations, sessions: sessions, logger: logger}
}

type stationCreateRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type chargerCreateRequest struct {
	StationID       int64   `json:"station_id"`
	Name            string  `json:"name"`
	ConnectorType   string  `json:"connector_type"`
	PowerCapacityKW float64 `json:"power_capacity_kw"`
	PricePerKWh     float64 `json:"price_per_kwh"`
}

// List handles GET /api/stations.
func (h *StationsHandlers) List(w http.ResponseWriter, r *http.Request) {
	stations, err := h.stations.ListStations(r.Context())
	if err != nil {
		h.logger.Error("failed to list stations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list stations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"stations": stations})
}

// Create handles POST /api/stations (admin).
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req stationCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	station, err := h.stations.CreateStation(r.Context(), req.Name, req.Location)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"station": station})
}

// CreateCharger handles POST /api/chargers (admin).
func (h *StationsHandlers) CreateCharger(w http.ResponseWriter, r *http.Request) {
	var req chargerCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.StationID <= 0 {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	charger, err := h.stations.CreateCharger(r.Context(), req.StationID, req.Name, req.ConnectorType, req.PowerCapacityKW, req.PricePerKWh)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"charger": charger})
}

// Chargers handles GET /api/stations/chargers?station_id=N, the staff
// monitoring view of charger statuses.
func (h *StationsHandlers) Chargers(w http.ResponseWriter, r *http.Request) {
	stationID, ok := stationIDParam(w, r)
	if !ok {
		return
	}

	chargers, err := h.stations.StationChargers(r.Context(), stationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"chargers": chargers})
}

// ActiveSessions handles GET /api/stations/sessions?station_id=N (staff).
func (h *StationsHandlers) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	stationID, ok := stationIDParam(w, r)
	if !ok {
		return
	}

	sessions, err := h.sessions.ActiveSessionsAtStation(r.Context(), stationID)
	if err != nil {
		h.logger.Error("failed to list station sessions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func stationIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	stationID, err := strconv.ParseInt(r.URL.Query().Get("station_id"), 10, 64)
	if err != nil || stationID <= 0 {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return 0, false
	}
	return stationID, true
}
