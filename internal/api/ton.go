package api

import (
	"errors"
	"fmt"
	"net/http"

	"hatch_egg_bot/internal/service"
	"hatch_egg_bot/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type paymentRoutes struct {
	ps service.PaymentServiceI
}

func NewPaymentRoutes(handler *gin.RouterGroup, ps service.PaymentServiceI) {
	r := &paymentRoutes{ps: ps}
	h := handler.Group("/ton")
	h.POST("/verify_payment", r.verifyPayment)
	h.GET("/payment_info", r.paymentInfo)
}

type VerifyPaymentRequest struct {
	UserID int64   `json:"user_id"`
	TxHash string  `json:"tx_hash"`
	Amount float64 `json:"amount"`
}

func (r *paymentRoutes) verifyPayment(c *gin.Context) {
	log := logger.Logger()

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind payment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == 0 || req.TxHash == "" || req.Amount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, tx_hash, and amount required"})
		return
	}

	eggs, err := r.ps.VerifyPayment(c.Request.Context(), req.UserID, req.TxHash, req.Amount)
	switch {
	case errors.Is(err, service.ErrAmountTooLow):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "insufficient amount",
			"required": service.TonPricePerPack,
			"message":  fmt.Sprintf("Minimum purchase is %d eggs (%g TON)", service.MinPurchaseEggs, service.TonPricePerPack),
		})
		return
	case errors.Is(err, service.ErrAmountTooHigh):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "too many eggs",
			"max":     service.MaxPurchaseEggs,
			"message": fmt.Sprintf("Maximum purchase is %d eggs", service.MaxPurchaseEggs),
		})
		return
	case errors.Is(err, service.ErrDuplicatePayment):
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment already processed"})
		return
	case err != nil:
		log.Error("failed to verify payment", zap.Int64("user_id", req.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    fmt.Sprintf("Payment verified! You can now send %d more eggs.", eggs),
		"eggs_added": eggs,
	})
}

func (r *paymentRoutes) paymentInfo(c *gin.Context) {
	log := logger.Logger()

	id, ok := userIDQuery(c)
	if !ok {
		return
	}

	info, err := r.ps.PaymentInfo(c.Request.Context(), id)
	if err != nil {
		log.Error("failed to get payment info", zap.Int64("user_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get payment info"})
		return
	}

	c.JSON(http.StatusOK, info)
}
