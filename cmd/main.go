package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/devportal/internal/adapters/http/api"
	"github.com/okian/devportal/internal/adapters/http/site"
	"github.com/okian/devportal/internal/adapters/http/swagger"
	app "github.com/okian/devportal/internal/app"
	"github.com/okian/devportal/internal/client"
	"github.com/okian/devportal/internal/config"
	"github.com/okian/devportal/internal/sidebar"
	"github.com/okian/devportal/pkg/logger"
	"github.com/okian/devportal/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	initMetrics(cfg)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, cfg, loggerInstance),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("api_base_url", cfg.APIBaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// initMetrics rebuilds the portal registry from cfg. Runtime collectors live
// on it so /healthz reports them.
func initMetrics(cfg *config.Config) {
	metrics.Init(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithSubsystem(cfg.MetricsSubsystem),
		metrics.WithHistogramBuckets(cfg.MetricsBucketsMS),
		metrics.WithMetricsEnabled(cfg.MetricsEnabled),
	)
	metrics.GetRegistry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// newMux wires the client, view service and every HTTP surface from cfg.
func newMux(ctx context.Context, cfg *config.Config, log logger.Logger) *http.ServeMux {
	apiClient := client.New(cfg.APIBaseURL,
		client.WithTimeout(time.Duration(cfg.RequestTimeoutMS)*time.Millisecond),
		client.WithLogger(log.Named("client")),
	)

	views := app.New(
		app.WithClient(apiClient),
		app.WithLogger(log.Named("views")),
		app.WithLanguageColors(cfg.LanguageColors),
		app.WithActivityLimit(cfg.ActivityLimit),
	)

	nav := sidebar.New(
		sidebar.WithUser(sidebar.User{
			Initials: cfg.UserInitials,
			Name:     cfg.UserName,
			Role:     cfg.UserRole,
		}),
		sidebar.WithBadge(sidebar.PageActivity, cfg.ActivityBadge),
	)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux, nav)
	api.NewServer(views, api.WithSidebar(nav), api.WithLogger(log.Named("api"))).Register(ctx, mux)
	return mux
}
