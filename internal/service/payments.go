package service

import (
	"context"

	"go.uber.org/zap"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
	"hatch_egg_bot/pkg/logger"
)

const (
	EggPackSize     = 10
	TonPricePerPack = 0.15
	MinPurchaseEggs = 10
	MaxPurchaseEggs = 1000
)

type PaymentService struct {
	store     *repository.Store
	tonWallet string
}

func NewPaymentService(store *repository.Store, tonWallet string) *PaymentService {
	return &PaymentService{store: store, tonWallet: tonWallet}
}

// EggsForAmount converts a TON amount into purchased eggs at the fixed pack
// rate, truncating partial packs.
func EggsForAmount(amount float64) int {
	return int(amount / TonPricePerPack * float64(EggPackSize))
}

// VerifyPayment credits a purchase after shape and bounds checks. Each
// tx hash is accepted once per user. On-chain verification is out of scope;
// the ledger records what the client claims.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID int64, txHash string, amount float64) (int, error) {
	eggs := EggsForAmount(amount)
	if eggs < MinPurchaseEggs {
		return 0, ErrAmountTooLow
	}
	if eggs > MaxPurchaseEggs {
		return 0, ErrAmountTooHigh
	}

	today := todayISO()
	err := s.store.Update(func(st *repository.State) error {
		for _, p := range st.TonPayments[userID] {
			if p.TxHash == txHash {
				return ErrDuplicatePayment
			}
		}
		st.TonPayments[userID] = append(st.TonPayments[userID], model.Payment{
			Date:   today,
			Amount: amount,
			TxHash: txHash,
			Eggs:   eggs,
		})
		allowanceFor(st, userID, today).PaidEggs += eggs
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Logger().Info("ton payment verified",
		zap.Int64("user_id", userID),
		zap.Float64("amount", amount),
		zap.Int("eggs", eggs),
		zap.String("tx_hash", txHash))
	return eggs, nil
}

// PaymentInfo returns the pricing constants plus the caller's current limit
// so the client can decide whether to offer a purchase.
func (s *PaymentService) PaymentInfo(ctx context.Context, userID int64) (*model.PaymentInfo, error) {
	var limit model.DailyLimit
	err := s.store.View(func(st *repository.State) error {
		limit = dailyLimitOf(st, userID, todayISO())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &model.PaymentInfo{
		NeedsPayment: !limit.Allowed,
		DailyCount:   limit.SentToday,
		TotalLimit:   limit.TotalAllowed,
		FreeEggs:     FreeEggsPerDay,
		TonPrice:     TonPricePerPack,
		TonWallet:    s.tonWallet,
		EggsPerPack:  EggPackSize,
	}, nil
}
