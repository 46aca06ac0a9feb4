package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/ember/internal/adapters/http/api"
	"github.com/okian/ember/internal/adapters/http/docs"
	"github.com/okian/ember/internal/adapters/mq/kafka"
	"github.com/okian/ember/internal/adapters/repository"
	service "github.com/okian/ember/internal/app"
	"github.com/okian/ember/internal/config"
	"github.com/okian/ember/pkg/logger"
	"github.com/okian/ember/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	systemMetricsInterval  = 10 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.Init(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	opts := []service.Option{
		service.WithLogger(log),
		service.WithAlertQueueSize(cfg.AlertQueueSize),
		service.WithDispatcherCount(cfg.DispatcherCount),
		service.WithAlertDedupeSize(cfg.AlertDedupeSize),
	}

	// Postgres when a database URL is configured, in-memory otherwise.
	if cfg.DatabaseURL != "" {
		store, err := repository.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error(ctx, "failed to open database", logger.Error(err))
			return
		}
		opts = append(opts, service.WithStore(store))
		log.Info(ctx, "connected to database")
	}

	// Kafka alert publishing when brokers are configured.
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaAlertTopic, log.Named("kafka"))
		opts = append(opts, service.WithAlertPublisher(kp))
		log.Info(ctx, "kafka alert publishing enabled",
			logger.Int("brokers", len(cfg.KafkaBrokers)),
			logger.String("topic", cfg.KafkaAlertTopic),
		)
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// Background metrics updaters
	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)

	// Router and routes.
	router := mux.NewRouter()
	docs.Register(ctx, router)
	apiServer := api.NewServer(svc, svc, cfg.MaxPageLimit)
	apiServer.Register(ctx, router)

	// CORS for browser clients.
	cors := ghandlers.CORS(
		ghandlers.AllowedOrigins(cfg.AllowedOrigins),
		ghandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		ghandlers.AllowedHeaders([]string{"Content-Type"}),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           cors(router),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that refreshes service gauges.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates process-level gauges.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}

// updateServiceMetrics refreshes gauges from a service stats snapshot.
func updateServiceMetrics(svc *service.Service) {
	stats := svc.GetStats()

	if queueLen, ok := stats["alertQueueLength"].(int); ok {
		metrics.UpdateAlertQueueSize(queueLen)
	}
	if dispatchers, ok := stats["dispatcherCount"].(int); ok {
		metrics.UpdateDispatcherCount(dispatchers)
	}
}
