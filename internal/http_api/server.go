package http_api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TeaDudePro/AOSNFTTMAtest/internal/metrics"
	"github.com/TeaDudePro/AOSNFTTMAtest/internal/models"
	"github.com/TeaDudePro/AOSNFTTMAtest/pkg/logger"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second

	// readHeaderTimeout bounds slow clients
	readHeaderTimeout = 10 * time.Second
)

// HTTPServer is the HTTP server struct that will serve the API
type HTTPServer struct {
	// logger is the logger instance
	logger *logger.Logger
	// metrics may be nil
	metrics *metrics.Metrics

	// router is the HTTP router
	router *gin.Engine
	// development adds error details to responses
	development bool

	// server is the underlying HTTP server
	server *http.Server

	marketplace  models.MarketplaceI
	transactions models.TransactionService
}

// Options holds the optional settings of the server.
type Options struct {
	Port        int
	CORSOrigin  string
	Development bool
	Metrics     *metrics.Metrics
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestMiddleware logs every request and records its metrics.
func (s *HTTPServer) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		s.metrics.RecordHTTP(c.Request.Method, route, fmt.Sprint(status), elapsed)
		s.logger.Debug("HTTP request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", status, "duration", elapsed)
	}
}

// NewHTTPServer creates a new HTTP server instance
func NewHTTPServer(marketplace models.MarketplaceI, transactions models.TransactionService, opts Options, logger *logger.Logger) *HTTPServer {
	router := gin.New()

	server := &HTTPServer{
		router:       router,
		development:  opts.Development,
		metrics:      opts.Metrics,
		marketplace:  marketplace,
		transactions: transactions,
		logger:       logger,
	}

	router.Use(gin.Recovery(), server.requestMiddleware(), corsMiddleware(opts.CORSOrigin))

	// Define routes
	server.routes()

	server.server = &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%v", opts.Port),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return server
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it stops
func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP server", "address", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start the HTTP server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server shut down successfully")
	return nil
}
