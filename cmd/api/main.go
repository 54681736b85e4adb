package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"context-summarizer/internal/app"
	"context-summarizer/internal/config"
	hhttp "context-summarizer/internal/handler/http"
	"context-summarizer/internal/handler/http/document"
	"context-summarizer/internal/handler/http/middleware"
	"context-summarizer/internal/handler/http/requestid"
	"context-summarizer/internal/observability/logging"
	"context-summarizer/internal/observability/slo"
	"context-summarizer/internal/observability/tracing"
)

func main() {
	// A missing .env is normal in containers.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg.Server.LogLevel)
	shutdownTracing := tracing.Setup(cfg.Server.Version, cfg.Server.TraceSampleRatio)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.Build(ctx, &cfg.LLM, logger)
	if err != nil {
		logger.Error("failed to initialize services", slog.Any("error", err))
		os.Exit(1)
	}

	components, err := setupServer(logger, cfg, services)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	runErr := runServer(ctx, logger, cfg.Server, components)

	if err := services.Close(); err != nil {
		logger.Error("failed to close model clients", slog.Any("error", err))
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("failed to shut down tracing", slog.Any("error", err))
	}

	if runErr != nil {
		logger.Error("server failed", slog.Any("error", runErr))
		os.Exit(1)
	}
}

// initLogger installs the JSON logger at the configured level as the default.
func initLogger(level string) *slog.Logger {
	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(level))
	slog.SetDefault(logger)
	return logger
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	RateLimiter *middleware.RateLimiter
	SLO         *slo.Tracker
}

const (
	sloWindow         = 30 * time.Minute
	sloUpdateInterval = 15 * time.Second
)

// setupServer registers the routes and wraps them in the middleware chain.
func setupServer(logger *slog.Logger, cfg *config.Config, services *app.Services) (*ServerComponents, error) {
	corsConfig, err := middleware.LoadCORSConfig(logger)
	if err != nil {
		return nil, err
	}
	logger.Info("CORS enabled",
		slog.Any("allowed_origins", corsConfig.Validator.GetAllowedOrigins()),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Any("allowed_headers", corsConfig.AllowedHeaders),
		slog.Int("max_age", corsConfig.MaxAge))

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitRequests > 0 {
		proxyConfig, err := middleware.LoadTrustedProxyConfig()
		if err != nil {
			return nil, err
		}
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow,
			middleware.NewIPExtractor(proxyConfig))
		logger.Info("rate limiting enabled",
			slog.Int("limit", cfg.Server.RateLimitRequests),
			slog.Duration("window", cfg.Server.RateLimitWindow),
			slog.Bool("trust_proxy", proxyConfig.Enabled))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	sumStatus := hhttp.StatusOf(services.Summarizer)
	ansStatus := hhttp.StatusOf(services.Answerer)

	mux := http.NewServeMux()
	health := &hhttp.HealthHandler{
		Version:    cfg.Server.Version,
		Summarizer: sumStatus,
		Answerer:   ansStatus,
		MediaTypes: services.Extract.Supported(),
	}
	if limiter != nil {
		health.RateLimiter = limiter
	}
	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Summarizer: sumStatus, Answerer: ansStatus})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	docMux := http.NewServeMux()
	document.Register(docMux, services.Summarize, services.QA, services.Extract,
		document.Config{MaxBodyBytes: cfg.Server.MaxBodyBytes, MaxUploadBytes: cfg.Server.MaxUploadBytes},
		logger, hhttp.Timeout(cfg.Server.RequestTimeout))

	tracker := slo.NewTracker(sloWindow)
	var docHandler http.Handler = tracker.Middleware(docMux)
	if limiter != nil {
		docHandler = limiter.Middleware(docHandler)
	}
	mux.Handle("/", docHandler)

	// First listed is outermost.
	handler := hhttp.Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.Recover(logger),
		hhttp.MetricsMiddleware,
		middleware.CORS(*corsConfig),
		hhttp.InputValidation(),
		// Upper bound for every route; document handlers apply tighter limits.
		hhttp.LimitRequestBody(max(cfg.Server.MaxBodyBytes, cfg.Server.MaxUploadBytes)),
	)

	return &ServerComponents{Handler: handler, RateLimiter: limiter, SLO: tracker}, nil
}

// runServer serves until ctx is canceled, then shuts down gracefully.
func runServer(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig, components *ServerComponents) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		// In-flight requests may finish during the shutdown grace period.
		BaseContext: func(_ net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if components.RateLimiter != nil {
		g.Go(func() error {
			return components.RateLimiter.RunCleanup(gctx, time.Minute)
		})
	}

	if components.SLO != nil {
		g.Go(func() error {
			return components.SLO.Run(gctx, sloUpdateInterval)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
