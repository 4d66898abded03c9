package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsawler/slidetext/internal/server/middleware"
)

// ExtractHandler defines the interface for the extraction handler.
type ExtractHandler interface {
	HandleExtract(c *gin.Context)
	HandleReady(c *gin.Context)
}

// New wires up handlers to the Gin engine.
func New(apiKey string, h ExtractHandler, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if logger != nil {
		r.Use(middleware.WithRequestLog(logger))
	}

	// Probes (no middleware)
	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", h.HandleReady)

	// API v1 group
	v1 := r.Group("/api/v1")
	v1.Use(middleware.WithAPIKey(apiKey))
	{
		v1.POST("/extract", h.HandleExtract)
	}

	return r
}
