package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
	"hatch_egg_bot/pkg/logger"
)

// Point values are domain constants, not tunables: the referral payout
// truncates, so the 1- and 2-point awards below never produce a bonus.
const (
	HatchReward  = 1
	GiftReward   = 2
	ReferralRate = 0.25

	SendTaskThreshold = 100
	SendTaskReward    = 500

	HatchTaskThreshold = 333
	HatchTaskReward    = 100

	SubscribeBonusEggs = 20
)

type PointsService struct {
	store    *repository.Store
	checker  MembershipChecker
	notifier Notifier
}

func NewPointsService(store *repository.Store, checker MembershipChecker, notifier Notifier) *PointsService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &PointsService{store: store, checker: checker, notifier: notifier}
}

// creditReferrer pays the referrer of userID a truncated share of points the
// user just earned. Earnings accrue both to the balance and to the separate
// referral counter.
func creditReferrer(st *repository.State, userID int64, pointsAwarded int) {
	referrer, ok := st.Referrers[userID]
	if !ok || referrer == userID {
		return
	}
	bonus := int(float64(pointsAwarded) * ReferralRate)
	if bonus <= 0 {
		return
	}
	st.ReferralEarnings[referrer] += bonus
	st.EggPoints[referrer] += bonus
	logger.Logger().Info("referral bonus paid",
		zap.Int64("referrer", referrer),
		zap.Int64("referral", userID),
		zap.Int("bonus", bonus))
}

// awardHatch applies the full point flow for one successful hatch and
// returns the one-time tasks that fired. Must run inside the same Update
// that marked the egg hatched.
func awardHatch(st *repository.State, senderID, hatcherID int64) []string {
	// The hatcher's first hatch binds them to the sender permanently.
	if _, ok := st.Referrers[hatcherID]; !ok && senderID != hatcherID {
		st.Referrers[hatcherID] = senderID
	}

	st.EggsHatchedByUser[hatcherID]++
	st.UserEggsHatchedByOthers[senderID]++

	st.EggPoints[hatcherID] += HatchReward
	st.EggPoints[senderID] += GiftReward

	creditReferrer(st, hatcherID, HatchReward)
	creditReferrer(st, senderID, GiftReward)

	var completed []string
	if st.EggsHatchedByUser[hatcherID] >= HatchTaskThreshold && !st.TaskDone(hatcherID, model.TaskHatch333Eggs) {
		st.EggPoints[hatcherID] += HatchTaskReward
		st.MarkTaskDone(hatcherID, model.TaskHatch333Eggs)
		completed = append(completed, model.TaskHatch333Eggs)
	}
	return completed
}

// checkSendTask fires the one-time send milestone if it was just crossed.
func checkSendTask(st *repository.State, senderID int64) bool {
	if st.EggsSentByUser[senderID] < SendTaskThreshold || st.TaskDone(senderID, model.TaskSend100Eggs) {
		return false
	}
	st.EggPoints[senderID] += SendTaskReward
	st.MarkTaskDone(senderID, model.TaskSend100Eggs)
	return true
}

// grantSubscriptionBonus credits the one-time channel bonus. Returns false
// when the completed flag already blocks a re-grant.
func grantSubscriptionBonus(st *repository.State, userID int64, today string) bool {
	if st.TaskDone(userID, model.TaskSubscribedHatch) {
		return false
	}
	a := allowanceFor(st, userID, today)
	a.PaidEggs += SubscribeBonusEggs
	st.MarkTaskDone(userID, model.TaskSubscribedHatch)
	return true
}

// HandleMembershipChange reacts to a channel membership update. Only the
// first transition to an active member grants the bonus.
func (s *PointsService) HandleMembershipChange(ctx context.Context, userID int64) (bool, error) {
	granted := false
	err := s.store.Update(func(st *repository.State) error {
		granted = grantSubscriptionBonus(st, userID, todayISO())
		return nil
	})
	if err != nil {
		return false, err
	}
	if granted {
		logger.Logger().Info("subscription bonus granted", zap.Int64("user_id", userID))
		s.notifier.Notify(userID, fmt.Sprintf("🎉 Congratulations! You earned %d Eggs for subscribing to the channel!", SubscribeBonusEggs))
	}
	return granted, nil
}

// CheckSubscription reports whether the user holds the subscription bonus,
// consulting the live channel membership when the flag is not yet set.
// Repeated calls after the grant are no-ops.
func (s *PointsService) CheckSubscription(ctx context.Context, userID int64) (bool, error) {
	subscribed := false
	err := s.store.View(func(st *repository.State) error {
		subscribed = st.TaskDone(userID, model.TaskSubscribedHatch)
		return nil
	})
	if err != nil || subscribed {
		return subscribed, err
	}
	if s.checker == nil {
		return false, nil
	}

	member, err := s.checker.IsChannelMember(ctx, userID)
	if err != nil {
		// Unknown users resolve as not subscribed, same as a negative answer.
		logger.Logger().Error("failed to check channel membership",
			zap.Int64("user_id", userID), zap.Error(err))
		return false, nil
	}
	if !member {
		return false, nil
	}

	if _, err := s.HandleMembershipChange(ctx, userID); err != nil {
		return false, err
	}
	return true, nil
}
