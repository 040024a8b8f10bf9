package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/guidle/guidle/backend/internal/api/http"
	"github.com/guidle/guidle/backend/internal/api/middleware"
	"github.com/guidle/guidle/backend/internal/api/ws"
	"github.com/guidle/guidle/backend/internal/catalog"
	"github.com/guidle/guidle/backend/internal/guidance"
	"github.com/guidle/guidle/backend/internal/infrastructure/config"
	"github.com/guidle/guidle/backend/internal/infrastructure/logging"
	"github.com/guidle/guidle/backend/internal/infrastructure/monitoring"
	"github.com/guidle/guidle/backend/internal/infrastructure/tracing"
	"github.com/guidle/guidle/backend/internal/matcher"
	"github.com/guidle/guidle/backend/internal/planner"
	"github.com/guidle/guidle/backend/internal/session"
	"github.com/guidle/guidle/backend/internal/vision"
)

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	srv      *http.Server
	registry *catalog.Registry
	sessions *session.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	// Initialize logger
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewFromLevel(cfg.Logging.Level, false)
	}

	logger.Info("Initializing Guidle server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.Bool("vision_configured", cfg.Vision.APIKey != ""),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	// Initialize request tracing
	tracer := tracing.New("backend", logger.Logger)

	// Initialize the selector catalog and seed schemas from disk
	registry := catalog.NewRegistry()
	seeder := catalog.NewSeeder(registry, cfg.Catalog.SchemaDir, logger.Logger)
	if err := seeder.Seed(); err != nil {
		logger.Warn("Failed to seed schemas", zap.Error(err))
	}
	metrics.SetSchemasRegistered(registry.Count())

	// Initialize the query pipeline
	analyzer := vision.New(vision.Config{
		APIKey:  cfg.Vision.APIKey,
		BaseURL: cfg.Vision.BaseURL,
		Model:   cfg.Vision.Model,
		Timeout: cfg.Vision.Timeout,
	}, logger.Logger)
	if !analyzer.Configured() {
		logger.Warn("Vision analysis not configured, vision queries fall back to selectors")
	}

	svc := guidance.New(planner.New(matcher.New(registry)), analyzer, metrics, logger.Logger)
	sessions := session.NewManager(metrics, logger.Logger)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	// Create handlers
	handlers := apihttp.NewHandlers(svc, registry, sessions, analyzer, metrics, logger.Logger)
	wsHandler := ws.NewHandler(svc, registry, sessions, metrics, logger.Logger, cfg.Vision.Timeout)

	// Register routes
	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/stats", handlers.Stats)

	// Intent pipeline
	router.POST("/intent/parse", handlers.ParseIntent)
	router.POST("/intent/resolve", handlers.ResolveIntent)

	// Schema catalog
	router.POST("/schemas", handlers.RegisterSchema)
	router.GET("/schemas", handlers.ListSchemas)
	router.GET("/schemas/:appId", handlers.GetSchema)

	// Feedback sink
	router.GET("/feedback", handlers.ListFeedback)

	// WebSocket sessions
	router.GET("/stream", wsHandler.HandleConnection)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized",
		zap.Int("schemas", registry.Count()))

	return &Server{
		router:   router,
		registry: registry,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Router exposes the gin engine, used by tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Shutdown failed", zap.Error(err))
		return err
	}
	s.logger.Info("Server stopped")
	_ = s.logger.Sync() // stdout sync errors are expected on some platforms
	return nil
}
