package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"chargehub/internal/http/middleware"
	"chargehub/internal/models"
	"chargehub/internal/service"
)

// PaymentsHandlers exposes payment and wallet endpoints.
type PaymentsHandlers struct {
	svc    *service.PaymentsService
	logger *zap.Logger
}

// NewPaymentsHandlers builds handler set.
func NewPaymentsHandlers(svc *service.PaymentsService, logger *zap.Logger) *PaymentsHandlers {
	return &PaymentsHandlers{svc: svc, logger: logger}
}

type sessionPaymentRequest struct {
	SessionID int64 `json:"session_id"`
}

type refundRequest struct {
	PaymentID int64 `json:"payment_id"`
}

type topUpRequest struct {
	Amount float64 `json:"amount"`
}

// Wallet handles POST /api/payments/wallet.
func (h *PaymentsHandlers) Wallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req sessionPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID <= 0 {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	payment, err := h.svc.PayWithWallet(r.Context(), userID, req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"payment": payment})
}

// Cash handles POST /api/payments/cash (staff).
func (h *PaymentsHandlers) Cash(w http.ResponseWriter, r *http.Request) {
	h.offline(w, r, h.svc.PayCash)
}

// Card handles POST /api/payments/card (staff).
func (h *PaymentsHandlers) Card(w http.ResponseWriter, r *http.Request) {
	h.offline(w, r, h.svc.PayWithCard)
}

func (h *PaymentsHandlers) offline(w http.ResponseWriter, r *http.Request, pay func(context.Context, int64) (*models.Payment, error)) {
	var req sessionPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SessionID <= 0 {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	payment, err := pay(r.Context(), req.SessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"payment": payment})
}

// Refund handles POST /api/payments/refund (staff).
func (h *PaymentsHandlers) Refund(w http.ResponseWriter, r *http.Request) {
	var req refundRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PaymentID <= 0 {
		writeError(w, http.StatusBadRequest, "payment_id is required")
		return
	}

	refunded, err := h.svc.Refund(r.Context(), req.PaymentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !refunded {
		writeError(w, http.StatusBadRequest, "payment is not refundable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refunded"})
}

// TopUp handles POST /api/wallet/topup.
func (h *PaymentsHandlers) TopUp(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req topUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := h.svc.AddFunds(r.Context(), userID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"wallet_balance": balance})
}

// Me handles GET /api/payments/me.
func (h *PaymentsHandlers) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	payments, err := h.svc.PaymentsByUser(r.Context(), userID, 50)
	if err != nil {
		h.logger.Error("failed to fetch payments", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch payments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}
