package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"chargehub/internal/http/middleware"
	"chargehub/internal/service"
)

// BookingsHandlers exposes reservation endpoints.
type BookingsHandlers struct {
	svc    *service.BookingsService
	logger *zap.Logger
}

// NewBookingsHandlers builds handler set.
func NewBookingsHandlers(svc *service.BookingsService, logger *zap.Logger) *BookingsHandlers {
	return &BookingsHandlers{svc: svc, logger: logger}
}

type bookingCreateRequest struct {
	ChargerID int64     `json:"charger_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type bookingCancelRequest struct {
	BookingID int64 `json:"booking_id"`
}

// Create handles POST /api/bookings.
func (h *BookingsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req bookingCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ChargerID <= 0 {
		writeError(w, http.StatusBadRequest, "charger_id is required")
		return
	}

	booking, err := h.svc.CreateBooking(r.Context(), userID, req.ChargerID, req.StartTime, req.EndTime)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"booking": booking})
}

// Cancel handles POST /api/bookings/cancel.
func (h *BookingsHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req bookingCancelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BookingID <= 0 {
		writeError(w, http.StatusBadRequest, "booking_id is required")
		return
	}

	if err := h.svc.CancelBooking(r.Context(), userID, req.BookingID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// Me handles GET /api/bookings/me.
func (h *BookingsHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	bookings, err := h.svc.BookingsByUser(r.Context(), userID, 50)
	if err != nil {
		h.logger.Error("failed to fetch bookings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch bookings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bookings": bookings})
}
