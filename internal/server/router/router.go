package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmbook/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. A nil
// metrics handler leaves /metrics unregistered.
func New(dashboard *handlers.MetricsHandler, records *handlers.EntriesHandler, metrics http.Handler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")
	api.GET("/dashboard", dashboard.Dashboard)
	api.GET("/summary", dashboard.Summary)
	api.GET("/eggs", dashboard.Eggs)
	api.GET("/chickens", dashboard.Chickens)
	api.GET("/ponds/occupancy", dashboard.PondOccupancy)
	api.GET("/flocks/summary", dashboard.FlockSummaries)

	api.GET("/settings", records.Settings)
	api.POST("/settings", records.SaveSettings)
	api.GET("/transactions", records.Transactions)
	api.POST("/transactions", records.CreateTransaction)
	api.GET("/products", records.Products)

	api.GET("/ponds", records.Ponds)
	api.GET("/ponds/:id", records.Pond)
	api.POST("/ponds/:id", records.UpdatePond)
	api.POST("/ponds/:id/events", records.CreateFishEvent)

	api.GET("/flocks", records.Flocks)
	api.GET("/flocks/:id", records.Flock)
	api.POST("/flocks/:id", records.UpdateFlock)
	api.POST("/flocks/:id/logs", records.CreateChickenLog)

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
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
