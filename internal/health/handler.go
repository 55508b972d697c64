// Package health provides health check endpoint handler.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jwwei/user-center/internal/cache"
	"github.com/jwwei/user-center/internal/database"
)

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.SugaredLogger
}

// New creates a new health handler instance.
func New(db *gorm.DB, redisClient *redis.Client, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		db:     db,
		redis:  redisClient,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Check handles GET /health request. The service is healthy only when
// both the database and redis respond.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "component", "database", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{
			Status: "unhealthy",
			Detail: "database",
		})
		return
	}

	if err := cache.HealthCheck(ctx, h.redis); err != nil {
		h.logger.Warnw("health check failed", "component", "redis", "error", err)
		c.JSON(http.StatusServiceUnavailable, Response{
			Status: "unhealthy",
			Detail: "redis",
		})
		return
	}

	c.JSON(http.StatusOK, Response{Status: "ok"})
}
