package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/couponmanager/internal/api"
	v1 "github.com/flexprice/couponmanager/internal/api/v1"
	"github.com/flexprice/couponmanager/internal/cache"
	"github.com/flexprice/couponmanager/internal/config"
	"github.com/flexprice/couponmanager/internal/domain/catalog"
	"github.com/flexprice/couponmanager/internal/httpclient"
	"github.com/flexprice/couponmanager/internal/integration/naver"
	"github.com/flexprice/couponmanager/internal/logger"
	"github.com/flexprice/couponmanager/internal/pyroscope"
	"github.com/flexprice/couponmanager/internal/repository"
	"github.com/flexprice/couponmanager/internal/s3"
	"github.com/flexprice/couponmanager/internal/sentry"
	"github.com/flexprice/couponmanager/internal/service"
	"github.com/flexprice/couponmanager/internal/types"
	"github.com/flexprice/couponmanager/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Coupon Manager API
// @version 1.0
// @description Gift coupon ledger and merchant shop search
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	// Initialize Fx application
	var opts []fx.Option

	// Validator is package level, request DTOs validate through it
	opts = append(opts, fx.Invoke(validator.NewValidator))

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.Initialize,

			// HTTP Client
			httpclient.NewDefaultClient,

			// Storage
			s3.NewService,

			// Repositories
			repository.NewCouponRepository,

			// Integrations
			naver.NewClient,
			provideSearcher,
		),
	)

	// Monitoring
	opts = append(opts, sentry.Module(), pyroscope.Module())

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewLedgerService,
			service.NewCatalogService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			registerLedgerHooks,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideSearcher(client *naver.Client) catalog.Searcher {
	return client
}

func provideHandlers(
	logger *logger.Logger,
	ledgerService service.LedgerService,
	catalogService service.CatalogService,
) api.Handlers {
	return api.Handlers{
		Health: v1.NewHealthHandler(),
		Coupon: v1.NewCouponHandler(ledgerService, logger),
		Shop:   v1.NewShopHandler(catalogService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

// registerLedgerHooks saves the ledger once more on shutdown
func registerLedgerHooks(lc fx.Lifecycle, ledgerService service.LedgerService, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := ledgerService.Persist(ctx); err != nil {
				log.Errorw("failed to save coupons on shutdown", "error", err)
			}
			return nil
		},
	})
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address, "mode", cfg.Deployment.Mode)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
