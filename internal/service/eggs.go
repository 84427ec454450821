package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
	"hatch_egg_bot/pkg/logger"
)

type EggService struct {
	store    *repository.Store
	notifier Notifier
	events   EventSink
}

func NewEggService(store *repository.Store, notifier Notifier, events EventSink) *EggService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if events == nil {
		events = NopSink{}
	}
	return &EggService{store: store, notifier: notifier, events: events}
}

// Issue records a fresh pending egg for the sender and returns it together
// with the encoded hatch payload. Sending is unlimited: the daily counter is
// bookkeeping only and never blocks issuance.
func (s *EggService) Issue(ctx context.Context, senderID int64) (*model.Egg, string, error) {
	now := time.Now()
	eggID, callbackData := newEggID(senderID, now)

	egg := &model.Egg{
		SenderID:      senderID,
		EggID:         eggID,
		TimestampSent: &now,
	}

	taskFired := false
	err := s.store.Update(func(st *repository.State) error {
		// The store keeps its own record; the returned egg never aliases it.
		rec := *egg
		st.EggsDetail[egg.Key()] = &rec
		st.EggsSentByUser[senderID]++
		allowanceFor(st, senderID, todayISO()).Count++
		taskFired = checkSendTask(st, senderID)
		return nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue egg: %w", err)
	}

	if taskFired {
		logger.Logger().Info("send milestone reached",
			zap.Int64("user_id", senderID), zap.Int("reward", SendTaskReward))
		s.notifier.Notify(senderID, fmt.Sprintf("🎉 Congratulations! You earned %d Egg points for sending %d eggs!", SendTaskReward, SendTaskThreshold))
	}
	s.events.Publish(EggEvent{
		Type:      EventEggIssued,
		EggID:     egg.EggID,
		EggKey:    egg.Key(),
		SenderID:  senderID,
		Timestamp: now,
	})
	return egg, callbackData, nil
}

// Hatch transitions an egg from pending to hatched exactly once. The
// double-tap and self-hatch guards run before any mutation; everything after
// them happens inside one locked update.
func (s *EggService) Hatch(ctx context.Context, senderID int64, eggID string, hatcherID int64) (*model.Egg, error) {
	key := model.EggKey(senderID, eggID)
	now := time.Now()

	var egg *model.Egg
	var tasks []string
	err := s.store.Update(func(st *repository.State) error {
		if st.HatchedEggs.Has(key) {
			return ErrAlreadyHatched
		}
		if hatcherID == senderID {
			return ErrSelfHatch
		}

		st.HatchedEggs.Add(key)
		rec := st.EggsDetail[key]
		if rec == nil {
			// Eggs issued before the detail log existed only live in the
			// hatched set; reconstruct a record on first touch.
			rec = &model.Egg{SenderID: senderID, EggID: eggID, TimestampSent: &now}
			st.EggsDetail[key] = rec
		}
		rec.HatchedBy = &hatcherID
		rec.TimestampHatched = &now

		tasks = awardHatch(st, senderID, hatcherID)
		cp := *rec
		egg = &cp
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Logger().Info("egg hatched",
		zap.String("egg_key", key),
		zap.Int64("sender_id", senderID),
		zap.Int64("hatcher_id", hatcherID))

	for _, task := range tasks {
		if task == model.TaskHatch333Eggs {
			s.notifier.Notify(hatcherID, fmt.Sprintf("🎉 Congratulations! You earned %d Egg points for hatching %d eggs!", HatchTaskReward, HatchTaskThreshold))
		}
	}
	s.events.Publish(EggEvent{
		Type:      EventEggHatched,
		EggID:     eggID,
		EggKey:    key,
		SenderID:  senderID,
		HatchedBy: &hatcherID,
		Timestamp: now,
	})
	return egg, nil
}
