package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/kevin07696/securesubmit-plugin/internal/adapters/database"
	"github.com/kevin07696/securesubmit-plugin/internal/adapters/memory"
	"github.com/kevin07696/securesubmit-plugin/internal/adapters/postgres"
	"github.com/kevin07696/securesubmit-plugin/internal/adapters/securesubmit"
	"github.com/kevin07696/securesubmit-plugin/internal/config"
	"github.com/kevin07696/securesubmit-plugin/internal/domain/ports"
	configurationHandler "github.com/kevin07696/securesubmit-plugin/internal/handlers/configuration"
	paymentHandler "github.com/kevin07696/securesubmit-plugin/internal/handlers/payment"
	paymentinfoHandler "github.com/kevin07696/securesubmit-plugin/internal/handlers/paymentinfo"
	paymentService "github.com/kevin07696/securesubmit-plugin/internal/services/payment"
	settingsService "github.com/kevin07696/securesubmit-plugin/internal/services/settings"
	"github.com/kevin07696/securesubmit-plugin/pkg/middleware"
	"github.com/kevin07696/securesubmit-plugin/pkg/observability"
	"github.com/kevin07696/securesubmit-plugin/pkg/security"
	"github.com/kevin07696/securesubmit-plugin/pkg/shutdown"
)

// stores groups the persistence backends selected at startup
type stores struct {
	settings ports.SettingsStore
	locales  ports.LocaleResourceStore
	pool     *pgxpool.Pool
}

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		panic(fmt.Sprintf("load configuration: %v", err))
	}

	logger := initLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting SecureSubmit payment plugin",
		zap.String("environment", cfg.Server.Environment),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("database_enabled", cfg.Database.Enabled),
		zap.String("secrets_backend", cfg.Secrets.Backend),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownManager := shutdown.NewManager(logger, cfg.Server.ShutdownTimeout)
	shutdownManager.RegisterNoErr("background-workers", cancel)

	st, err := initStores(ctx, cfg, logger, shutdownManager)
	if err != nil {
		logger.Fatal("Failed to initialize settings storage", zap.Error(err))
	}

	secretManager, err := initSecretManager(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize secret manager", zap.Error(err))
	}

	gatewayFactory := securesubmit.NewFactory(&securesubmit.Config{
		CertificationURL: cfg.Gateway.CertificationURL,
		ProductionURL:    cfg.Gateway.ProductionURL,
		Timeout:          cfg.Gateway.Timeout,
		CircuitBreaker: securesubmit.CircuitBreakerConfig{
			MaxFailures: cfg.Gateway.CircuitMaxFailures,
			OpenTimeout: cfg.Gateway.CircuitOpenTimeout,
			MaxProbes:   1,
		},
	}, logger)

	serviceLogger := security.NewZapLogger(logger)

	// The processor sees resolved secret:// keys; the configuration screen edits the raw values
	resolvedSettings := settingsService.NewResolvingStore(st.settings, secretManager, serviceLogger)
	adapter := paymentService.NewAdapter(gatewayFactory, serviceLogger)
	processor := paymentService.NewProcessor(resolvedSettings, st.locales, adapter, serviceLogger)
	configService := settingsService.NewService(st.settings, serviceLogger)

	hostAuth, err := middleware.NewHostAuth(middleware.HostAuthConfig{
		Secret:     cfg.HostAuth.Secret,
		AllowedIPs: cfg.HostAuth.AllowedIPs,
		MaxSkew:    cfg.HostAuth.MaxSkew,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize host authentication", zap.Error(err))
	}
	logger.Info("Host request signing enforced",
		zap.Int("allowed_sources", len(cfg.HostAuth.AllowedIPs)),
		zap.Duration("max_skew", cfg.HostAuth.MaxSkew),
	)

	// Every plugin route is called by the host; 401s still show up in request metrics
	protect := func(route string, next http.Handler) http.Handler {
		return observability.InstrumentHandler(route, hostAuth.Middleware(next))
	}

	mux := http.NewServeMux()
	mux.Handle(configurationHandler.Route,
		protect(configurationHandler.Route, configurationHandler.NewHandler(configService, logger)))
	mux.Handle(paymentinfoHandler.Route,
		protect(paymentinfoHandler.Route, paymentinfoHandler.NewHandler(configService, logger)))
	paymentHandler.NewHandler(processor, logger).Register(mux, protect)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	shutdownManager.RegisterNoErr("rate-limiter", rateLimiter.Shutdown)
	securityHeaders := middleware.NewSecurityHeaders(!cfg.Server.IsProduction())

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           securityHeaders.Middleware(rateLimiter.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Gateway.Timeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	healthChecker := observability.NewHealthChecker(st.pool, func() string {
		return gatewayFactory.CircuitState().String()
	})
	metricsServer := observability.StartMetricsServer(strconv.Itoa(cfg.Server.MetricsPort), healthChecker, logger)
	logger.Info("Metrics server listening", zap.Int("port", cfg.Server.MetricsPort))

	shutdownManager.RegisterHTTPServer("metrics-server", metricsServer)
	shutdownManager.RegisterHTTPServer("http-server", httpServer)

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	if err := shutdownManager.WaitForShutdown(); err != nil {
		logger.Error("Shutdown completed with errors", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}

// initLogger builds the zap logger for the configured environment and level
func initLogger(cfg *config.Config) *zap.Logger {
	level, err := zapcore.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Logger.Development || !cfg.Server.IsProduction() {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		panic(fmt.Sprintf("build logger: %v", err))
	}
	return logger
}

// initStores opens PostgreSQL-backed stores, or in-memory stores when the database is disabled
func initStores(ctx context.Context, cfg *config.Config, logger *zap.Logger, manager *shutdown.Manager) (*stores, error) {
	if !cfg.Database.Enabled {
		logger.Warn("Database disabled, settings are kept in memory and lost on restart")
		return &stores{
			settings: memory.NewSettingsStore(),
			locales:  memory.NewLocaleResourceStore(),
		}, nil
	}

	dbCfg := database.DefaultPostgreSQLConfig(cfg.Database.ConnectionString())
	dbCfg.MaxConns = cfg.Database.MaxConns
	dbCfg.MinConns = cfg.Database.MinConns

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	dbAdapter, err := database.NewPostgreSQLAdapter(connectCtx, dbCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	manager.RegisterNoErr("database", dbAdapter.Close)

	dbAdapter.StartPoolMonitoring(ctx, 15*time.Second)

	logger.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	db := postgres.NewDBExecutor(dbAdapter.Pool())
	return &stores{
		settings: postgres.NewSettingsStore(db),
		locales:  postgres.NewLocaleResourceStore(db),
		pool:     dbAdapter.Pool(),
	}, nil
}
