package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/ProductGallery/backend/internal/api/http"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/api/middleware"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/api/ws"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/registry"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/domain/theme"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/gallery"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/providers/catalog"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/providers/storage"
	"github.com/GriffinCanCode/ProductGallery/backend/internal/shared/utils"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router      *gin.Engine
	handler     nethttp.Handler
	registry    *registry.Registry
	hub         *ws.Hub
	tracer      *tracing.Tracer
	store       storage.KV
	logger      *logging.Logger
	config      *config.Config
	metrics     *monitoring.Metrics
	unsubscribe []func()
}

// New creates a server and loads the initial product list
func New(ctx context.Context, cfg *config.Config, version string) (*Server, error) {
	logger := logging.NewFromSettings(cfg.Logging.Level, cfg.Logging.Development)

	logger.Info("Initializing product gallery",
		zap.String("addr", cfg.Server.Addr()),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("catalog", cfg.Catalog.URL),
	)

	// Metrics first; other components report into them
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(promRegistry)

	tracer := tracing.New("gallery", logger.Logger)

	kv, err := openStore(ctx, cfg.Storage)
	if err != nil {
		tracer.Close()
		return nil, err
	}
	logger.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	status := catalog.NewStatus()
	source := catalog.NewClient(catalog.Config{
		URL:       cfg.Catalog.URL,
		Timeout:   cfg.Catalog.Timeout.Std(),
		Retries:   cfg.Catalog.Retries,
		RateLimit: cfg.Catalog.RateLimit,
		UserAgent: cfg.Catalog.UserAgent,
	},
		catalog.WithLogger(logger.Logger),
		catalog.WithRecorder(metrics),
		catalog.WithStatus(status),
	)

	reg := registry.New(storage.NewProductStore(kv, logger.Logger), source, registry.WithLogger(logger.Logger))
	hub := ws.NewHub(metrics, logger.Logger)
	unsubscribe := []func(){
		reg.Subscribe(func(ev registry.Event) { metrics.SetProducts(ev.Count) }),
		reg.Subscribe(hub.Publish),
	}

	origin, err := reg.Initialize(ctx)
	if err != nil {
		logger.Warn("Initial product list not persisted", zap.Error(err))
	}
	if origin == registry.OriginLocal {
		status.Set(catalog.StateLocal, 0)
	}
	logger.Info("Products loaded", zap.String("origin", string(origin)), zap.Int("count", reg.Len()))

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	templates, err := gallery.Templates()
	if err != nil {
		hub.Close()
		tracer.Close()
		closeStore(kv)
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	router.SetHTMLTemplate(templates)

	// Middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(logging.RequestLogger(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.CORS.AllowOrigins)))
	router.Use(middleware.BodyLimit(utils.MaxBodySize))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := http.NewHandlers(http.Deps{
		Registry: reg,
		Theme:    theme.NewController(kv, logger.Logger),
		Status:   status,
		Metrics:  metrics,
		Logger:   logger.Logger,
		Version:  version,
	})
	http.RegisterRoutes(router, handlers)

	// WebSocket
	router.GET("/stream", hub.HandleConnection)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	logger.Info("Server initialized successfully")

	return &Server{
		router:      router,
		handler:     compress(router, cfg.Server.Compress),
		registry:    reg,
		hub:         hub,
		tracer:      tracer,
		store:       kv,
		logger:      logger,
		config:      cfg,
		metrics:     metrics,
		unsubscribe: unsubscribe,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() nethttp.Handler {
	return s.handler
}

// Registry returns the product registry
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &nethttp.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout.Std())
	defer cancel()

	s.hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return <-errCh
}

// Close releases the store and background workers
func (s *Server) Close() error {
	for _, unsubscribe := range s.unsubscribe {
		unsubscribe()
	}
	s.hub.Close()
	s.tracer.Close()

	err := closeStore(s.store)
	if err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return err
}

func openStore(ctx context.Context, cfg config.StorageConfig) (storage.KV, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := storage.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		return db, nil
	default:
		return storage.NewMemory(), nil
	}
}

func closeStore(kv storage.KV) error {
	if c, ok := kv.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// compress gzips responses except the WebSocket upgrade, which needs the
// raw connection.
func compress(h nethttp.Handler, enabled bool) nethttp.Handler {
	if !enabled {
		return h
	}
	gz := gzhttp.GzipHandler(h)
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/stream" {
			h.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}
