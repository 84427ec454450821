package api

import (
	"net/http"

	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/auth"
	"hatch_egg_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type meRoutes struct {
	ss service.StatsServiceI
}

// NewMeRoutes exposes the caller's own stats to the mini-app, with the
// identity taken from validated init data instead of a query parameter.
func NewMeRoutes(handler *gin.RouterGroup, ss service.StatsServiceI, a *auth.TelegramAuth) {
	r := &meRoutes{ss: ss}
	h := handler.Group("/me")
	h.Use(a.TelegramAuthMiddleware())
	h.GET("/stats", r.getMyStats)
}

func (r *meRoutes) getMyStats(c *gin.Context) {
	log := logger.Logger()

	user, ok := auth.UserFromContext(c)
	if !ok {
		log.Error("telegram user data not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	stats, err := r.ss.Stats(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to get stats", zap.Int64("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
