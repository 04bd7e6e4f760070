package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agropricing/waitlist-api/pkg/config"
	"github.com/agropricing/waitlist-api/pkg/middleware"
)

// NewRouter wires middleware and routes onto a fresh gin engine.
func NewRouter(cfg *config.Config, handlers *Handlers, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.CORS(&cfg.Server))

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	newsletter := r.Group("/api/newsletter")
	{
		newsletter.POST("", handlers.Subscribe)
		newsletter.GET("", handlers.NewsletterHealth)
	}

	return r
}
