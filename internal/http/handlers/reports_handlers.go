package handlers

import (
	"net/http"
	"strconv"

	"chargehub/internal/service"
)

// ReportsHandlers exposes station reporting endpoints.
type ReportsHandlers struct {
	svc *service.ReportsService
}

// NewReportsHandlers builds handler set.
func NewReportsHandlers(svc *service.ReportsService) *ReportsHandlers {
	return &ReportsHandlers{svc: svc}
}

// StationSummary handles GET /api/reports/station?station_id=N (staff/admin).
func (h *ReportsHandlers) StationSummary(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(r.URL.Query().Get("station_id"), 10, 64)
	if err != nil || stationID <= 0 {
		writeError(w, http.StatusBadRequest, "station_id is required")
		return
	}

	summary, err := h.svc.StationSummary(r.Context(), stationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
