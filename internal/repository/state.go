package repository

import (
	"sort"

	json "github.com/goccy/go-json"

	"hatch_egg_bot/internal/model"
)

// StringSet persists as a JSON array with no order guarantee.
type StringSet map[string]struct{}

func (s StringSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s StringSet) Add(key string) {
	s[key] = struct{}{}
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return json.Marshal(keys)
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	set := make(StringSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	*s = set
	return nil
}

// State is the whole persisted document. Every field maps to one top-level
// key of the state file; maps are keyed by telegram user id except EggsDetail,
// which is keyed by the composite egg key.
type State struct {
	HatchedEggs             StringSet                       `json:"hatched_eggs"`
	EggsHatchedByUser       map[int64]int                   `json:"eggs_hatched_by_user"`
	UserEggsHatchedByOthers map[int64]int                   `json:"user_eggs_hatched_by_others"`
	EggsSentByUser          map[int64]int                   `json:"eggs_sent_by_user"`
	DailyEggsSent           map[int64]*model.DailyAllowance `json:"daily_eggs_sent"`
	EggPoints               map[int64]int                   `json:"egg_points"`
	CompletedTasks          map[int64]map[string]bool       `json:"completed_tasks"`
	Referrers               map[int64]int64                 `json:"referrers"`
	ReferralEarnings        map[int64]int                   `json:"referral_earnings"`
	TonPayments             map[int64][]model.Payment       `json:"ton_payments"`
	EggsDetail              map[string]*model.Egg           `json:"eggs_detail"`
}

func NewState() *State {
	return &State{
		HatchedEggs:             make(StringSet),
		EggsHatchedByUser:       make(map[int64]int),
		UserEggsHatchedByOthers: make(map[int64]int),
		EggsSentByUser:          make(map[int64]int),
		DailyEggsSent:           make(map[int64]*model.DailyAllowance),
		EggPoints:               make(map[int64]int),
		CompletedTasks:          make(map[int64]map[string]bool),
		Referrers:               make(map[int64]int64),
		ReferralEarnings:        make(map[int64]int),
		TonPayments:             make(map[int64][]model.Payment),
		EggsDetail:              make(map[string]*model.Egg),
	}
}

// normalize fills in maps that are missing from an older state file so
// callers never see nil containers.
func (s *State) normalize() {
	if s.HatchedEggs == nil {
		s.HatchedEggs = make(StringSet)
	}
	if s.EggsHatchedByUser == nil {
		s.EggsHatchedByUser = make(map[int64]int)
	}
	if s.UserEggsHatchedByOthers == nil {
		s.UserEggsHatchedByOthers = make(map[int64]int)
	}
	if s.EggsSentByUser == nil {
		s.EggsSentByUser = make(map[int64]int)
	}
	if s.DailyEggsSent == nil {
		s.DailyEggsSent = make(map[int64]*model.DailyAllowance)
	}
	if s.EggPoints == nil {
		s.EggPoints = make(map[int64]int)
	}
	if s.CompletedTasks == nil {
		s.CompletedTasks = make(map[int64]map[string]bool)
	}
	if s.Referrers == nil {
		s.Referrers = make(map[int64]int64)
	}
	if s.ReferralEarnings == nil {
		s.ReferralEarnings = make(map[int64]int)
	}
	if s.TonPayments == nil {
		s.TonPayments = make(map[int64][]model.Payment)
	}
	if s.EggsDetail == nil {
		s.EggsDetail = make(map[string]*model.Egg)
	}
}

// TaskDone reports whether a one-time task has already fired for the user.
func (s *State) TaskDone(userID int64, task string) bool {
	return s.CompletedTasks[userID][task]
}

// MarkTaskDone sets the completed flag for a one-time task.
func (s *State) MarkTaskDone(userID int64, task string) {
	tasks, ok := s.CompletedTasks[userID]
	if !ok {
		tasks = make(map[string]bool)
		s.CompletedTasks[userID] = tasks
	}
	tasks[task] = true
}
