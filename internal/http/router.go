package httpserver

import (
	"net/http"

	"chargehub/internal/http/handlers"
	"chargehub/internal/http/middleware"
	"chargehub/internal/models"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	Auth     *handlers.AuthHandlers
	Sessions *handlers.SessionsHandlers
	Payments *handlers.PaymentsHandlers
	Stations *handlers.StationsHandlers
	Bookings *handlers.BookingsHandlers
	Reports  *handlers.ReportsHandlers
	Health   http.HandlerFunc
	WS       http.HandlerFunc
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps, auth func(http.Handler) http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", method(http.MethodGet, deps.Health))

	mux.Handle("/api/auth/signup", method(http.MethodPost, http.HandlerFunc(deps.Auth.Signup)))
	mux.Handle("/api/auth/login", method(http.MethodPost, http.HandlerFunc(deps.Auth.Login)))
	mux.Handle("/api/stations", methodSplit(
		http.HandlerFunc(deps.Stations.List),
		middleware.Chain(http.HandlerFunc(deps.Stations.Create), auth, middleware.RequireRole(models.RoleAdmin)),
	))

	authed := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, auth)
	}
	staff := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, auth, middleware.RequireRole(models.RoleStaff, models.RoleAdmin))
	}

	mux.Handle("/api/me", method(http.MethodGet, authed(deps.Auth.Profile)))

	mux.Handle("/api/sessions/start", method(http.MethodPost, authed(deps.Sessions.Start)))
	mux.Handle("/api/sessions/stop", method(http.MethodPost, authed(deps.Sessions.Stop)))
	mux.Handle("/api/sessions/me", method(http.MethodGet, authed(deps.Sessions.Me)))
	mux.Handle("/api/sessions/status", method(http.MethodGet, authed(deps.Sessions.Status)))
	mux.Handle("/api/sessions/active", method(http.MethodGet, staff(deps.Sessions.Active)))

	mux.Handle("/api/payments/wallet", method(http.MethodPost, authed(deps.Payments.Wallet)))
	mux.Handle("/api/payments/cash", method(http.MethodPost, staff(deps.Payments.Cash)))
	mux.Handle("/api/payments/card", method(http.MethodPost, staff(deps.Payments.Card)))
	mux.Handle("/api/payments/refund", method(http.MethodPost, staff(deps.Payments.Refund)))
	mux.Handle("/api/payments/me", method(http.MethodGet, authed(deps.Payments.Me)))
	mux.Handle("/api/wallet/topup", method(http.MethodPost, authed(deps.Payments.TopUp)))

	mux.Handle("/api/bookings", method(http.MethodPost, authed(deps.Bookings.Create)))
	mux.Handle("/api/bookings/cancel", method(http.MethodPost, authed(deps.Bookings.Cancel)))
	mux.Handle("/api/bookings/me", method(http.MethodGet, authed(deps.Bookings.Me)))

	mux.Handle("/api/chargers", method(http.MethodPost, middleware.Chain(
		http.HandlerFunc(deps.Stations.CreateCharger), auth, middleware.RequireRole(models.RoleAdmin))))
	mux.Handle("/api/stations/chargers", method(http.MethodGet, http.HandlerFunc(deps.Stations.Chargers)))
	mux.Handle("/api/stations/sessions", method(http.MethodGet, staff(deps.Stations.ActiveSessions)))

	mux.Handle("/api/incidents", method(http.MethodPost, staff(deps.Sessions.ReportIncident)))
	mux.Handle("/api/reports/station", method(http.MethodGet, staff(deps.Reports.StationSummary)))

	if deps.WS != nil {
		mux.Handle("/ws/charging", method(http.MethodGet, deps.WS))
	}

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func methodSplit(get, post http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			get.ServeHTTP(w, r)
		case http.MethodPost:
			post.ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}
