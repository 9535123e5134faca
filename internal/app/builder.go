package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/patchstream/rollout-server/internal/adminapi"
	"github.com/patchstream/rollout-server/internal/api"
	"github.com/patchstream/rollout-server/internal/app/storage"
	"github.com/patchstream/rollout-server/internal/config"
	"github.com/patchstream/rollout-server/internal/httpclient"
	"github.com/patchstream/rollout-server/internal/rollout"
	"github.com/patchstream/rollout-server/internal/rollout/coordinator"
	"github.com/patchstream/rollout-server/internal/service"
	"github.com/patchstream/rollout-server/internal/status"
	"github.com/patchstream/rollout-server/internal/telemetry"
	"github.com/patchstream/rollout-server/internal/tracking"
)

const (
	defaultDataDir        = "./data"
	defaultHTTPAddress    = ":8080"
	defaultRequestTimeout = 10 * time.Second
	defaultReadTimeout    = 10 * time.Second
	defaultWriteTimeout   = 15 * time.Second
	defaultIdleTimeout    = 60 * time.Second
)

// RolloutAppOptions is a function that configures the rollout app builder
type RolloutAppOptions func(*rolloutAppConfig) error

// rolloutAppConfig builds a RolloutApp using the builder pattern
// It supports dependency injection for testing while providing sensible defaults for production
type rolloutAppConfig struct {
	config *config.Config

	// Optional component overrides (primarily for testing)
	adminClient    adminapi.Client
	storageFactory storage.Factory

	// HTTP server options
	address        string
	middlewares    []func(http.Handler) http.Handler
	requestTimeout time.Duration
	readTimeout    time.Duration
	writeTimeout   time.Duration
	idleTimeout    time.Duration

	// Data directory for file-backed storage
	dataDir string

	// Telemetry components
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

func baseConfig(opts ...RolloutAppOptions) (*rolloutAppConfig, error) {
	cfg := &rolloutAppConfig{
		address:        defaultHTTPAddress,
		requestTimeout: defaultRequestTimeout,
		readTimeout:    defaultReadTimeout,
		writeTimeout:   defaultWriteTimeout,
		idleTimeout:    defaultIdleTimeout,
		dataDir:        defaultDataDir,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewRolloutApp creates a new builder with the given configuration
func NewRolloutApp(
	ctx context.Context,
	opts ...RolloutAppOptions,
) (*RolloutApp, error) {
	cfg, err := baseConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build base configuration: %w", err)
	}

	// Create storage factory (single decision point for DB vs File)
	// This factory creates all storage-dependent components
	if cfg.storageFactory == nil {
		cfg.storageFactory, err = storage.NewStorageFactory(ctx, cfg.config, cfg.dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage factory: %w", err)
		}
	}

	// Ensure cleanup happens on error
	var cleanupNeeded = true
	defer func() {
		if cleanupNeeded && cfg.storageFactory != nil {
			cfg.storageFactory.Cleanup()
		}
	}()

	trackingStore, err := cfg.storageFactory.CreateTrackingStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking store: %w", err)
	}

	statusPersistence, err := cfg.storageFactory.CreateStatusPersistence(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create status persistence: %w", err)
	}

	// Build rollout components (admin client, engine, coordinator)
	rolloutCoordinator, err := buildRolloutComponents(ctx, cfg, trackingStore, statusPersistence)
	if err != nil {
		return nil, fmt.Errorf("failed to build rollout components: %w", err)
	}

	// Build service components
	rolloutService, err := buildServiceComponents(ctx, cfg, trackingStore, statusPersistence)
	if err != nil {
		return nil, fmt.Errorf("failed to build service components: %w", err)
	}

	// Build HTTP server
	httpServer, err := buildHTTPServer(ctx, cfg, rolloutService)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP server: %w", err)
	}

	// Create application context
	appCtx, cancel := context.WithCancel(ctx)

	// Cleanup is now handled by the app, not in defer
	cleanupNeeded = false

	cancelFunc := func() {
		if cfg.storageFactory != nil {
			cfg.storageFactory.Cleanup()
		}
		cancel()
	}

	return &RolloutApp{
		config: cfg.config,
		components: &AppComponents{
			Coordinator:    rolloutCoordinator,
			RolloutService: rolloutService,
		},
		httpServer: httpServer,
		ctx:        appCtx,
		cancelFunc: cancelFunc,
	}, nil
}

// WithConfig sets the configuration
func WithConfig(c *config.Config) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		cfg.config = c
		return nil
	}
}

// WithAddress sets the HTTP server address
func WithAddress(addr string) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		if addr == "" {
			return fmt.Errorf("address cannot be empty")
		}

		parts := strings.SplitN(addr, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("address is not a valid host:port pair: %s", addr)
		}
		host := parts[0]
		port := parts[1]

		if port == "" {
			return fmt.Errorf("address is not a valid port: %s", addr)
		}
		if host == "localhost" {
			host = "127.0.0.1"
		}
		if host == "" {
			host = "0.0.0.0"
		}

		if _, err := netip.ParseAddrPort(host + ":" + port); err != nil {
			return fmt.Errorf("address is not a valid port: %w", err)
		}

		cfg.address = addr
		return nil
	}
}

// WithMiddlewares sets custom HTTP middlewares
func WithMiddlewares(mw ...func(http.Handler) http.Handler) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		cfg.middlewares = mw
		return nil
	}
}

// WithDataDirectory sets the data directory for file-backed storage
func WithDataDirectory(dir string) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		cfg.dataDir = dir
		return nil
	}
}

// WithAdminClient allows injecting a custom administration server client (for testing)
func WithAdminClient(c adminapi.Client) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		cfg.adminClient = c
		return nil
	}
}

// WithStorageFactory allows injecting a custom storage factory (for testing)
func WithStorageFactory(f storage.Factory) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		cfg.storageFactory = f
		return nil
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider for HTTP and rollout metrics
func WithMeterProvider(mp metric.MeterProvider) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		cfg.meterProvider = mp
		return nil
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider for HTTP and service tracing
func WithTracerProvider(tp trace.TracerProvider) RolloutAppOptions {
	return func(cfg *rolloutAppConfig) error {
		cfg.tracerProvider = tp
		return nil
	}
}

// NewAdminClient builds the administration server client from the config.
// When a minimum server version is configured, the server is verified before
// the client is handed out so a misconfigured endpoint fails at startup.
func NewAdminClient(ctx context.Context, cfg *config.Config) (adminapi.Client, error) {
	token, err := cfg.Server.GetAPIToken()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve administration server token: %w", err)
	}

	var clientOpts []httpclient.ClientOption
	if token != "" {
		clientOpts = append(clientOpts, httpclient.WithAuthToken(token))
	}

	httpClient := httpclient.NewDefaultClient(cfg.Server.GetTimeout(), clientOpts...)
	client := adminapi.NewHTTPClient(cfg.Server.Endpoint, httpClient)

	if cfg.Server.MinVersion != "" {
		if err := client.VerifyServer(ctx, cfg.Server.MinVersion); err != nil {
			return nil, fmt.Errorf("administration server verification failed: %w", err)
		}
		slog.Info("Administration server verified",
			"endpoint", cfg.Server.Endpoint,
			"min_version", cfg.Server.MinVersion,
		)
	}

	return client, nil
}

// buildRolloutComponents builds the admin client, rollout engine, coordinator, and related components
func buildRolloutComponents(
	ctx context.Context,
	b *rolloutAppConfig,
	trackingStore tracking.Store,
	statusPersistence status.StatusPersistence,
) (coordinator.Coordinator, error) {
	slog.Info("Initializing rollout components")

	if b.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Build administration server client (storage-agnostic)
	if b.adminClient == nil {
		client, err := NewAdminClient(ctx, b.config)
		if err != nil {
			return nil, fmt.Errorf("failed to build administration server client: %w", err)
		}
		b.adminClient = client
	}

	engine := rollout.NewEngine(b.adminClient, trackingStore)

	// Create coordinator options for metrics
	var coordOpts []coordinator.Option

	// Create rollout metrics if meter provider is configured
	if b.meterProvider != nil {
		rolloutMetrics, err := telemetry.NewRolloutMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create rollout metrics: %w", err)
		}
		if rolloutMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithRolloutMetrics(rolloutMetrics))
			slog.Info("Rollout metrics enabled")
		}

		taskMetrics, err := telemetry.NewTaskMetrics(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create task metrics: %w", err)
		}
		if taskMetrics != nil {
			coordOpts = append(coordOpts, coordinator.WithTaskMetrics(taskMetrics))
			slog.Info("Task metrics enabled")
		}
	}

	// Create coordinator (storage-agnostic)
	rolloutCoordinator := coordinator.New(engine, statusPersistence, b.config, coordOpts...)
	slog.Info("Rollout components initialized successfully")

	return rolloutCoordinator, nil
}

// buildServiceComponents builds the rollout status service
func buildServiceComponents(
	_ context.Context,
	b *rolloutAppConfig,
	trackingStore tracking.Store,
	statusPersistence status.StatusPersistence,
) (service.RolloutService, error) {
	slog.Info("Initializing service components")

	if b.config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var svcOpts []service.ServiceOption
	if b.tracerProvider != nil {
		svcOpts = append(svcOpts, service.WithTracer(b.tracerProvider.Tracer(service.TracerName)))
		slog.Info("Service tracing enabled")
	}

	svc, err := service.New(b.config, trackingStore, statusPersistence, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create rollout service: %w", err)
	}

	slog.Info("Service components initialized successfully")
	return svc, nil
}

// buildHTTPServer builds the HTTP server with router and middleware
func buildHTTPServer(
	_ context.Context,
	b *rolloutAppConfig,
	svc service.RolloutService,
) (*http.Server, error) {
	slog.Info("Initializing HTTP server")

	// Use default middlewares if not provided
	if b.middlewares == nil {
		b.middlewares = []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(b.requestTimeout),
			api.LoggingMiddleware,
		}
	}

	// Add metrics middleware if meter provider is configured
	// This should be added early in the chain to capture all requests
	if b.meterProvider != nil {
		metricsMiddleware, err := telemetry.MetricsMiddleware(b.meterProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics middleware: %w", err)
		}
		if metricsMiddleware != nil {
			b.middlewares = append([]func(http.Handler) http.Handler{metricsMiddleware}, b.middlewares...)
			slog.Info("HTTP metrics middleware enabled")
		}
	}

	// Tracing wraps the whole chain so spans cover every request
	if b.tracerProvider != nil {
		tracingMiddleware := telemetry.TracingMiddleware(b.tracerProvider)
		b.middlewares = append([]func(http.Handler) http.Handler{tracingMiddleware}, b.middlewares...)
		slog.Info("HTTP tracing middleware enabled")
	}

	// Create router with middlewares
	router := api.NewServer(svc, api.WithMiddlewares(b.middlewares...))

	// Create HTTP server
	server := &http.Server{
		Addr:         b.address,
		Handler:      router,
		ReadTimeout:  b.readTimeout,
		WriteTimeout: b.writeTimeout,
		IdleTimeout:  b.idleTimeout,
	}

	slog.Info("HTTP server configured", "address", b.address)
	return server, nil
}
