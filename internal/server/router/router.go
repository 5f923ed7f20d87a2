package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/branchpulse/branchpulse/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(analyticsHandler *handlers.AnalyticsHandler, visitHandler *handlers.VisitHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	api := r.Group("/api")
	{
		api.POST("/visits", visitHandler.Submit)
		api.POST("/visits/:id/status", visitHandler.UpdateStatus)
		api.POST("/locations/import", visitHandler.ImportRoster)

		analyticsGroup := api.Group("/analytics")
		{
			analyticsGroup.GET("/dashboard", analyticsHandler.Dashboard)
			analyticsGroup.GET("/trend", analyticsHandler.Trend)
			analyticsGroup.GET("/top-performers", analyticsHandler.TopPerformers)
			analyticsGroup.GET("/categories", analyticsHandler.Categories)
			analyticsGroup.GET("/heatmap", analyticsHandler.Heatmap)
		}
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
