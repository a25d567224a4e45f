package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xelkar/shopcart/db"
	"github.com/xelkar/shopcart/internal/domain/product"
	"github.com/xelkar/shopcart/internal/domain/promo"
	"github.com/xelkar/shopcart/internal/engine"
	"github.com/xelkar/shopcart/internal/handler"
	"github.com/xelkar/shopcart/internal/storage"
	"github.com/xelkar/shopcart/pkg/health"
	"github.com/xelkar/shopcart/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Reference data.
	catalog, err := product.LoadCatalog(db.Products)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}
	promos, err := promo.LoadRules(db.Promos)
	if err != nil {
		return errors.Wrap(err, "load promo rules")
	}

	// Persistence: Postgres when configured, in-memory otherwise.
	var store storage.Store
	healthSvc := health.New()
	if cfg.DatabaseURL != "" {
		pool, err := storage.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()
		if err := storage.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, pool.Ping)
		store = storage.NewPostgres(pool, cfg.SessionID)
	} else {
		lg.Warn("no database configured, state will not survive restarts")
		store = storage.NewMemory()
	}
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	pricing, err := cfg.CartPricing()
	if err != nil {
		return errors.Wrap(err, "pricing config")
	}

	gateway := storage.NewGateway(store)
	eng := engine.New(ctx, catalog, promos, gateway,
		engine.WithLogger(lg.Named("engine")),
		engine.WithPricing(pricing),
		engine.WithProcessingDelay(cfg.Checkout.ProcessingDelay),
		engine.WithProcessingTimeout(cfg.Checkout.ProcessingTimeout),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	handler.New(catalog, eng).Register(mux)

	instrument, err := httpmiddleware.Instrument(m.MeterProvider().Meter("shopcart"))
	if err != nil {
		return errors.Wrap(err, "create instrumentation")
	}
	var root http.Handler = otelhttp.NewHandler(instrument(mux), "shopcart",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	)
	root = httpmiddleware.Wrap(root,
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(zctx.From(ctx)),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           root,
	}

	healthSvc.SetReady(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
