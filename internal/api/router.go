package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nontonhub/nontonhub/internal/aggregate"
	"github.com/nontonhub/nontonhub/internal/history"
	"github.com/nontonhub/nontonhub/internal/metrics"
)

// Server represents the REST API server
type Server struct {
	router     *gin.Engine
	aggregator *aggregate.Aggregator
	history    history.Store
	metrics    *metrics.Metrics // Optional: nil disables instrumentation
}

// NewServer creates a new API server
func NewServer(aggregator *aggregate.Aggregator, historyStore history.Store, m *metrics.Metrics) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		router:     gin.New(),
		aggregator: aggregator,
		history:    historyStore,
		metrics:    m,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	// Recovery middleware
	s.router.Use(gin.Recovery())

	// Logging and duration middleware
	s.router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(c.FullPath(), elapsed.Seconds())
		slog.Info("API request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", elapsed,
		)
	})

	// CORS for the browsing frontend
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")

	// Catalog
	api.GET("/movies/:category", s.listCategory)
	api.GET("/search", s.search)
	api.GET("/detail", s.detail)

	// Watch history
	api.GET("/history", s.listHistory)
	api.POST("/history", s.addHistory)

	s.router.NoRoute(func(c *gin.Context) {
		errorResponse(c, http.StatusNotFound, "not found")
	})
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Error response helper
func errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
