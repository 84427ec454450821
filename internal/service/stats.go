package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
)

type StatsService struct {
	store *repository.Store
	users UserInfoProvider
}

func NewStatsService(store *repository.Store, users UserInfoProvider) *StatsService {
	return &StatsService{store: store, users: users}
}

// Stats is a pure read projection over the ledger; nothing here mutates,
// including the date rollover, which is computed on the fly.
func (s *StatsService) Stats(ctx context.Context, userID int64) (*model.UserStats, error) {
	stats := &model.UserStats{Tasks: map[string]bool{}}
	err := s.store.View(func(st *repository.State) error {
		stats.HatchedByMe = st.EggsHatchedByUser[userID]
		stats.MyEggsHatched = st.UserEggsHatchedByOthers[userID]
		stats.EggsSent = st.EggsSentByUser[userID]
		stats.EggPoints = st.EggPoints[userID]
		stats.HatchPoints = stats.HatchedByMe
		stats.AvailableEggs = availableEggs(st, userID, todayISO())
		stats.ReferralEarned = st.ReferralEarnings[userID]
		_, stats.HasReferrer = st.Referrers[userID]

		for task, done := range st.CompletedTasks[userID] {
			stats.Tasks[task] = done
		}
		for _, referrer := range st.Referrers {
			if referrer == userID {
				stats.ReferralsCount++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// EggView is an explorer response: the raw egg record enriched with
// best-effort display data for both parties.
type EggView struct {
	EggID             string          `json:"egg_id"`
	SenderID          int64           `json:"sender_id"`
	SenderUsername    string          `json:"sender_username,omitempty"`
	SenderAvatar      string          `json:"sender_avatar,omitempty"`
	HatchedBy         *int64          `json:"hatched_by"`
	HatchedByUsername string          `json:"hatched_by_username,omitempty"`
	HatchedByAvatar   string          `json:"hatched_by_avatar,omitempty"`
	TimestampSent     *time.Time      `json:"timestamp_sent"`
	TimestampHatched  *time.Time      `json:"timestamp_hatched"`
	Status            model.EggStatus `json:"status"`
}

type UserProfile struct {
	UserID       int64      `json:"user_id"`
	Username     string     `json:"username"`
	Avatar       string     `json:"avatar,omitempty"`
	EggsSent     []*EggView `json:"eggs_sent"`
	EggsHatched  []*EggView `json:"eggs_hatched"`
	TotalSent    int        `json:"total_sent"`
	TotalHatched int        `json:"total_hatched"`
}

func (s *StatsService) userInfo(ctx context.Context, userID int64) (string, string) {
	if s.users == nil || userID == 0 {
		return "", ""
	}
	username, avatar, err := s.users.UserInfo(ctx, userID)
	if err != nil {
		return "", ""
	}
	return username, avatar
}

func (s *StatsService) view(ctx context.Context, egg *model.Egg, hatched bool) *EggView {
	v := &EggView{
		EggID:            egg.EggID,
		SenderID:         egg.SenderID,
		HatchedBy:        egg.HatchedBy,
		TimestampSent:    egg.TimestampSent,
		TimestampHatched: egg.TimestampHatched,
		Status:           model.EggStatusPending,
	}
	if hatched {
		v.Status = model.EggStatusHatched
	}
	v.SenderUsername, v.SenderAvatar = s.userInfo(ctx, egg.SenderID)
	if egg.HatchedBy != nil {
		v.HatchedByUsername, v.HatchedByAvatar = s.userInfo(ctx, *egg.HatchedBy)
	}
	return v
}

// EggByID looks an egg up by its composite key, by its bare short id, and
// finally by reconstructing a bare record from the hatched set. Bare-id
// lookups are ambiguous by design and return the first match.
func (s *StatsService) EggByID(ctx context.Context, eggIDParam string) (*EggView, error) {
	var egg *model.Egg
	var hatched bool
	err := s.store.View(func(st *repository.State) error {
		// Detail records are copied out before the lock is released; Hatch
		// mutates them in place under the write lock.
		if found, ok := st.EggsDetail[eggIDParam]; ok {
			cp := *found
			egg, hatched = &cp, st.HatchedEggs.Has(eggIDParam)
			return nil
		}
		for key, info := range st.EggsDetail {
			if info.EggID == eggIDParam {
				cp := *info
				egg, hatched = &cp, st.HatchedEggs.Has(key)
				return nil
			}
		}
		for key := range st.HatchedEggs {
			if key != eggIDParam && !strings.HasSuffix(key, "_"+eggIDParam) {
				continue
			}
			if senderID, eggID, ok := model.SplitEggKey(key); ok {
				egg = &model.Egg{SenderID: senderID, EggID: eggID}
				hatched = true
				return nil
			}
		}
		return ErrEggNotFound
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, egg, hatched), nil
}

// UserEggs lists every egg the user has issued, newest first. Hatched-set
// entries without a detail record are included as bare hatched eggs.
func (s *StatsService) UserEggs(ctx context.Context, userID int64) ([]*EggView, error) {
	type entry struct {
		egg     *model.Egg
		hatched bool
	}
	var entries []entry
	err := s.store.View(func(st *repository.State) error {
		seen := make(map[string]struct{})
		for key, egg := range st.EggsDetail {
			if egg.SenderID != userID {
				continue
			}
			cp := *egg
			entries = append(entries, entry{egg: &cp, hatched: st.HatchedEggs.Has(key)})
			seen[cp.EggID] = struct{}{}
		}
		for key := range st.HatchedEggs {
			senderID, eggID, ok := model.SplitEggKey(key)
			if !ok || senderID != userID {
				continue
			}
			if _, dup := seen[eggID]; dup {
				continue
			}
			entries = append(entries, entry{
				egg:     &model.Egg{SenderID: userID, EggID: eggID},
				hatched: true,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return sentAfter(entries[i].egg.TimestampSent, entries[j].egg.TimestampSent)
	})

	views := make([]*EggView, len(entries))
	for i, e := range entries {
		views[i] = s.view(ctx, e.egg, e.hatched)
	}
	return views, nil
}

// UserByUsername resolves a username against every egg participant and
// returns their profile. The bot API has no username lookup, so this is an
// O(participants) scan with a display-data probe per candidate.
func (s *StatsService) UserByUsername(ctx context.Context, username string) (*UserProfile, error) {
	username = strings.TrimPrefix(username, "@")
	if username == "" || s.users == nil {
		return nil, ErrUserNotFound
	}

	participants := make(map[int64]struct{})
	if err := s.store.View(func(st *repository.State) error {
		for _, egg := range st.EggsDetail {
			participants[egg.SenderID] = struct{}{}
			if egg.HatchedBy != nil {
				participants[*egg.HatchedBy] = struct{}{}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	var targetID int64
	var targetName, targetAvatar string
	for userID := range participants {
		name, avatar, err := s.users.UserInfo(ctx, userID)
		if err != nil || name == "" {
			continue
		}
		if strings.EqualFold(name, username) {
			targetID, targetName, targetAvatar = userID, name, avatar
			break
		}
	}
	if targetID == 0 {
		return nil, ErrUserNotFound
	}

	profile := &UserProfile{UserID: targetID, Username: targetName, Avatar: targetAvatar}

	type entry struct {
		egg     *model.Egg
		hatched bool
	}
	var sent, hatchedBy []entry
	if err := s.store.View(func(st *repository.State) error {
		for key, egg := range st.EggsDetail {
			isHatched := st.HatchedEggs.Has(key)
			if egg.SenderID == targetID {
				cp := *egg
				sent = append(sent, entry{egg: &cp, hatched: isHatched})
			}
			if egg.HatchedBy != nil && *egg.HatchedBy == targetID {
				cp := *egg
				hatchedBy = append(hatchedBy, entry{egg: &cp, hatched: isHatched})
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	sort.Slice(sent, func(i, j int) bool {
		return sentAfter(sent[i].egg.TimestampSent, sent[j].egg.TimestampSent)
	})
	sort.Slice(hatchedBy, func(i, j int) bool {
		return sentAfter(hatchedBy[i].egg.TimestampHatched, hatchedBy[j].egg.TimestampHatched)
	})

	for _, e := range sent {
		profile.EggsSent = append(profile.EggsSent, s.view(ctx, e.egg, e.hatched))
	}
	for _, e := range hatchedBy {
		profile.EggsHatched = append(profile.EggsHatched, s.view(ctx, e.egg, e.hatched))
	}
	profile.TotalSent = len(profile.EggsSent)
	profile.TotalHatched = len(profile.EggsHatched)
	return profile, nil
}

// sentAfter orders timestamps newest first with nils last.
func sentAfter(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	default:
		return a.After(*b)
	}
}
