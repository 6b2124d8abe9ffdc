package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driven"
	"github.com/nexlink-labs/nexlink-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	connectionService driving.ConnectionService
	credentialService driving.CredentialService
	tokenService      driving.TokenService

	// Infrastructure
	authAdapter driven.AuthAdapter
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	connectionService driving.ConnectionService,
	credentialService driving.CredentialService,
	tokenService driving.TokenService,
	authAdapter driven.AuthAdapter,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		connectionService: connectionService,
		credentialService: credentialService,
		tokenService:      tokenService,
		authAdapter:       authAdapter,
		db:                db,
		redisClient:       redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.authAdapter)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Credential endpoints (mutations and reads of secrets are admin-only)
	s.router.Handle("POST /api/v1/credentials",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleSaveCredentials))))
	s.router.Handle("GET /api/v1/credentials",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListCredentials)))
	s.router.Handle("GET /api/v1/credentials/{provider}",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleGetCredentials))))

	// Connection endpoints (authenticated)
	s.router.Handle("GET /api/v1/connections",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListConnections)))
	s.router.Handle("POST /api/v1/connections/{provider}/authorize",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleAuthorize)))
	s.router.Handle("GET /api/v1/connections/{provider}/callback",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCallbackRedirect)))
	s.router.Handle("POST /api/v1/connections/{provider}/callback",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCallback)))
	s.router.Handle("POST /api/v1/connections/{provider}/selection",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCompleteSelection)))
	s.router.Handle("POST /api/v1/connections/{provider}/test",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleTestConnection)))
	s.router.Handle("GET /api/v1/connections/{provider}/token",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetToken)))

	// Disconnect removes stored tokens and cached data (admin-only)
	s.router.Handle("DELETE /api/v1/connections/{provider}",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleDisconnect))))

	// Managed account endpoints (authenticated)
	s.router.Handle("POST /api/v1/connections/{provider}/accounts/sync",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSyncAccount)))
	s.router.Handle("GET /api/v1/accounts/{external_id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetAccount)))
}

// Handler exposes the configured router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
