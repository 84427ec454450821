package api

import (
	"net/http"
	"strconv"

	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type statsRoutes struct {
	ss   service.StatsServiceI
	subs service.SubscriptionServiceI
}

func NewStatsRoutes(handler *gin.RouterGroup, ss service.StatsServiceI, subs service.SubscriptionServiceI) {
	r := &statsRoutes{ss: ss, subs: subs}
	handler.GET("/stats", r.getStats)
	handler.POST("/stats/check_subscription", r.checkSubscription)
}

func userIDQuery(c *gin.Context) (int64, bool) {
	raw := c.Query("user_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return 0, false
	}
	return id, true
}

func (r *statsRoutes) getStats(c *gin.Context) {
	log := logger.Logger()

	id, ok := userIDQuery(c)
	if !ok {
		return
	}

	stats, err := r.ss.Stats(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get stats", zap.Int64("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hatched_by_me":     stats.HatchedByMe,
		"my_eggs_hatched":   stats.MyEggsHatched,
		"eggs_sent":         stats.EggsSent,
		"egg_points":        stats.EggPoints,
		"hatch_points":      stats.HatchPoints,
		"available_eggs":    stats.AvailableEggs,
		"tasks":             stats.Tasks,
		"referral_earned":   stats.ReferralEarned,
		"referral_earnings": stats.ReferralEarned, // kept for older clients
		"referrals_count":   stats.ReferralsCount,
		"has_referrer":      stats.HasReferrer,
	})
}

func (r *statsRoutes) checkSubscription(c *gin.Context) {
	log := logger.Logger()

	id, ok := userIDQuery(c)
	if !ok {
		return
	}

	subscribed, err := r.subs.CheckSubscription(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to check subscription", zap.Int64("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscribed": subscribed})
}
