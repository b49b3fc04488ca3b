package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"chargehub/internal/http/middleware"
	"chargehub/internal/service"
)

// SessionsHandlers exposes the charging-session lifecycle endpoints.
type SessionsHandlers struct {
	svc    *service.SessionsService
	logger *zap.Logger
}

// NewSessionsHandlers builds handler set.
func NewSessionsHandlers(svc *service.SessionsService, logger *zap.Logger) *SessionsHandlers {
	return &SessionsHandlers{svc: svc, logger: logger}
}

type sessionStartRequest struct {
	ChargerID int64 `json:"charger_id"`
}

type sessionStopRequest struct {
	SessionID int64    `json:"session_id"`
	EnergyKWh float64  `json:"energy_kwh"`
	EndSOC    *float64 `json:"end_soc"`
}

type incidentRequest struct {
	ChargerID   int64  `json:"charger_id"`
	Description string `json:"description"`
}

// Start handles POST /api/sessions/start.
func (h *SessionsHandlers) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req sessionStartRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ChargerID <= 0 {
		writeError(w, http.StatusBadRequest, "charger_id is required")
		return
	}

	session, err := h.svc.StartSession(r.Context(), userID, req.ChargerID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"session": session})
}

// Stop handles POST /api/sessions/stop.
func (h *SessionsHandlers) Stop(w http.ResponseWriter, r *http.Request) {
	var req sessionStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID <= 0 {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	stopped, err := h.svc.StopSession(r.Context(), req.SessionID, req.EnergyKWh, req.EndSOC)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !stopped {
		writeError(w, http.StatusBadRequest, "session is not active")
		return
	}

	session, err := h.svc.GetSession(r.Context(), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"session": session})
}

// Me handles GET /api/sessions/me.
func (h *SessionsHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	sessions, err := h.svc.SessionsByUser(r.Context(), userID, 50)
	if err != nil {
		h.logger.Error("failed to fetch sessions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// Active handles GET /api/sessions/active (staff view).
func (h *SessionsHandlers) Active(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.svc.ActiveSessions(r.Context(), 200)
	if err != nil {
		h.logger.Error("failed to fetch active sessions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

// Status handles GET /api/sessions/status?session_id=N, the pull variant of
// the websocket push.
func (h *SessionsHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionID, err := strconv.ParseInt(r.URL.Query().Get("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	status, err := h.svc.LiveStatus(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ReportIncident handles POST /api/incidents (staff).
func (h *SessionsHandlers) ReportIncident(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req incidentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ChargerID <= 0 {
		writeError(w, http.StatusBadRequest, "charger_id is required")
		return
	}

	incident, err := h.svc.ReportIncident(r.Context(), req.ChargerID, userID, req.Description)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"incident": incident})
}
