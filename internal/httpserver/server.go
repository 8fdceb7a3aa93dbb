package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/habit-analytics-service/internal/auth"
	"github.com/PratikDhanave/habit-analytics-service/internal/config"
	"github.com/PratikDhanave/habit-analytics-service/internal/handlers"
	"github.com/PratikDhanave/habit-analytics-service/internal/progress"
	"github.com/PratikDhanave/habit-analytics-service/internal/store"
)

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready
// Authenticated: /checkins, /progress
func NewRouter(cfg config.Config, st store.Store, logger *zap.Logger, now func() time.Time) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(RequestID(), AccessLog(logger), gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	// Auth group resolves the user via X-API-Key.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	handlers.RegisterCheckinRoutes(authGroup, st, now)
	handlers.RegisterProgressRoutes(authGroup, progress.NewService(st, logger), now)

	return r
}
