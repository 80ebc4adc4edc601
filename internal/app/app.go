package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tixgate/promo-service/internal/domain/promo"
	"github.com/tixgate/promo-service/internal/handler"
	"github.com/tixgate/promo-service/internal/repository"
	"github.com/tixgate/promo-service/pkg/health"
	"github.com/tixgate/promo-service/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Repositories.
	productRepo := repository.NewProductRepository(pool)
	apikeyRepo := repository.NewAPIKeyRepository(pool)
	tierRepo := repository.NewTierRepository(pool)

	// Warmup: the tier ladder and the known-product filter load
	// independently, so fetch them concurrently.
	var (
		policy promo.TierPolicy
		filter *repository.ProductFilter
	)
	g, warmCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		policy, err = tierRepo.Load(warmCtx)
		return errors.Wrap(err, "load tier policy")
	})
	g.Go(func() error {
		var err error
		filter, err = repository.NewProductFilter(warmCtx, productRepo)
		return errors.Wrap(err, "build product filter")
	})
	if err := g.Wait(); err != nil {
		return err
	}
	go filter.Run(zctx.Base(ctx, lg), cfg.Filter.RefreshInterval)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain service + HTTP handlers.
	rules := promo.Rules{TicketProductID: cfg.TicketProductID, Policy: policy}
	observer, err := promo.NewObserver(m.TracerProvider(), m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "build promo observer")
	}
	promoSvc := promo.NewService(rules, productRepo, filter, promo.WithObserver(observer))
	security := handler.NewSecurity(apikeyRepo, []byte(cfg.APIKeyPepper))
	h := handler.NewHandler(promoSvc, productRepo, security)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "api_key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("promo-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
