package service

import (
	"context"
	"time"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
)

// FreeEggsPerDay is the free sending quota per calendar day. Purchased eggs
// extend it and never expire.
const FreeEggsPerDay = 10

type LimitService struct {
	store *repository.Store
}

func NewLimitService(store *repository.Store) *LimitService {
	return &LimitService{store: store}
}

func todayISO() string {
	return time.Now().Format("2006-01-02")
}

// allowanceFor returns the user's allowance for today, rolling the record
// over to a fresh date if needed. Count resets, PaidEggs carries forward.
// Must be called inside a store Update.
func allowanceFor(st *repository.State, userID int64, today string) *model.DailyAllowance {
	a := st.DailyEggsSent[userID]
	if a == nil || a.Date != today {
		paid := 0
		if a != nil {
			paid = a.PaidEggs
		}
		a = &model.DailyAllowance{Date: today, Count: 0, PaidEggs: paid}
		st.DailyEggsSent[userID] = a
	}
	return a
}

// dailyLimitOf computes today's limit without mutating anything, treating a
// stale record as already rolled over.
func dailyLimitOf(st *repository.State, userID int64, today string) model.DailyLimit {
	sent, paid := 0, 0
	if a := st.DailyEggsSent[userID]; a != nil {
		paid = a.PaidEggs
		if a.Date == today {
			sent = a.Count
		}
	}
	total := FreeEggsPerDay + paid
	return model.DailyLimit{
		Allowed:      sent < total,
		SentToday:    sent,
		TotalAllowed: total,
	}
}

func availableEggs(st *repository.State, userID int64, today string) int {
	limit := dailyLimitOf(st, userID, today)
	if avail := limit.TotalAllowed - limit.SentToday; avail > 0 {
		return avail
	}
	return 0
}

// CheckDailyLimit is advisory: sending is never blocked, the result only
// feeds stats and pricing displays.
func (s *LimitService) CheckDailyLimit(ctx context.Context, userID int64) (model.DailyLimit, error) {
	var limit model.DailyLimit
	err := s.store.View(func(st *repository.State) error {
		limit = dailyLimitOf(st, userID, todayISO())
		return nil
	})
	return limit, err
}

func (s *LimitService) AddPaidEggs(ctx context.Context, userID int64, amount int) error {
	return s.store.Update(func(st *repository.State) error {
		a := allowanceFor(st, userID, todayISO())
		a.PaidEggs += amount
		return nil
	})
}
