// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"

	"user_access_backend/internal/auth"
	"user_access_backend/internal/config"
	"user_access_backend/internal/jobs"
	"user_access_backend/internal/middleware"
	"user_access_backend/internal/registration"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Jobs
	retentionJob *jobs.LedgerRetentionJob
}

// NewServer creates a new instance of our application server.
// retentionJob may be nil when no ledger database is configured.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authHandler *auth.Handler,
	registrationHandler *registration.Handler,
	retentionJob *jobs.LedgerRetentionJob,
) *Server {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	registrationHandler.RegisterRoutes(v1)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ServerTimeout,
		WriteTimeout: cfg.ServerTimeout,
		IdleTimeout:  2 * cfg.ServerTimeout,
	}

	return &Server{
		httpServer:   httpServer,
		router:       router,
		cfg:          cfg,
		logger:       logger,
		retentionJob: retentionJob,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start() error {
	if s.retentionJob != nil {
		if err := s.retentionJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start ledger retention job", zap.Error(err))
		}
	} else {
		s.logger.Info("Registration ledger is not configured, skipping retention job.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.retentionJob != nil {
		s.retentionJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
