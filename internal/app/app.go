package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chargehub/internal/broadcast"
	"chargehub/internal/config"
	"chargehub/internal/db"
	httpserver "chargehub/internal/http"
	"chargehub/internal/http/handlers"
	"chargehub/internal/http/middleware"
	"chargehub/internal/password"
	redisstore "chargehub/internal/redis"
	"chargehub/internal/repository"
	"chargehub/internal/service"
	"chargehub/internal/ws"
)

// App wires chargehub dependencies.
type App struct {
	server      *httpserver.Server
	hub         *ws.Hub
	broadcaster *broadcast.Broadcaster
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	userRepo := repository.NewUserRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	chargerRepo := repository.NewChargerRepository(sqlDB)
	sessionRepo := repository.NewSessionRepository(sqlDB)
	paymentRepo := repository.NewPaymentRepository(sqlDB)
	bookingRepo := repository.NewBookingRepository(sqlDB)
	incidentRepo := repository.NewIncidentRepository(sqlDB)
	reportRepo := repository.NewReportRepository(sqlDB)

	sessionCache := redisstore.NewSessionCache(redisClient, cfg.ActiveSessionTTL())
	chargerLock := redisstore.NewChargerLock(redisClient, 10*time.Second)

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())
	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)

	authService := service.NewAuthService(userRepo, hasher, tokens, logger)
	sessionsService := service.NewSessionsService(sessionRepo, chargerRepo, userRepo, incidentRepo, sessionCache, chargerLock, logger)
	paymentsService := service.NewPaymentsService(paymentRepo, sessionRepo, userRepo, logger)
	bookingsService := service.NewBookingsService(bookingRepo, chargerRepo, userRepo, logger)
	stationsService := service.NewStationsService(stationRepo, chargerRepo, logger)
	reportsService := service.NewReportsService(reportRepo, stationRepo)

	hub := ws.NewHub(30*time.Second, logger)
	wsServer := ws.NewServer(hub, logger)
	broadcaster := broadcast.New(sessionsService, hub, cfg.BroadcastInterval(), logger)

	deps := httpserver.RouterDeps{
		Auth:     handlers.NewAuthHandlers(authService, logger),
		Sessions: handlers.NewSessionsHandlers(sessionsService, logger),
		Payments: handlers.NewPaymentsHandlers(paymentsService, logger),
		Stations: handlers.NewStationsHandlers(stationsService, sessionsService, logger),
		Bookings: handlers.NewBookingsHandlers(bookingsService, logger),
		Reports:  handlers.NewReportsHandlers(reportsService),
		Health:   handlers.NewHealthHandler(),
		WS:       wsServer.HandleCharging,
	}

	router := httpserver.NewRouter(deps, middleware.Auth(tokens))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		hub:         hub,
		broadcaster: broadcaster,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server, the websocket keepalive loop and the status
// broadcaster, and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Start(ctx)
	go a.broadcaster.Run(ctx)
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
