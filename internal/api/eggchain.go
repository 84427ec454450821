package api

import (
	"errors"
	"net/http"
	"strconv"

	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type eggchainRoutes struct {
	ss service.StatsServiceI
}

// NewEggchainRoutes serves the explorer lookups. The username lookup lives
// under /username/ rather than /user/username/ because the router cannot mix
// a static segment with the :user_id wildcard.
func NewEggchainRoutes(handler *gin.RouterGroup, ss service.StatsServiceI) {
	r := &eggchainRoutes{ss: ss}
	handler.GET("/egg/:egg_id", r.getEgg)
	handler.GET("/user/:user_id/eggs", r.getUserEggs)
	handler.GET("/username/:username", r.getUserByUsername)
}

func (r *eggchainRoutes) getEgg(c *gin.Context) {
	log := logger.Logger()

	eggID := c.Param("egg_id")
	if eggID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "egg_id required"})
		return
	}

	egg, err := r.ss.EggByID(c.Request.Context(), eggID)
	if errors.Is(err, service.ErrEggNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "egg not found"})
		return
	}
	if err != nil {
		log.Error("failed to get egg", zap.String("egg_id", eggID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get egg"})
		return
	}

	c.JSON(http.StatusOK, egg)
}

func (r *eggchainRoutes) getUserEggs(c *gin.Context) {
	log := logger.Logger()

	raw := c.Param("user_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Error("failed to parse user_id", zap.String("user_id", raw), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	eggs, err := r.ss.UserEggs(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get user eggs", zap.Int64("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user eggs"})
		return
	}
	if eggs == nil {
		eggs = []*service.EggView{}
	}

	c.JSON(http.StatusOK, gin.H{"eggs": eggs})
}

func (r *eggchainRoutes) getUserByUsername(c *gin.Context) {
	log := logger.Logger()

	username := c.Param("username")
	profile, err := r.ss.UserByUsername(c.Request.Context(), username)
	if errors.Is(err, service.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		log.Error("failed to look up username", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
