package model

// Task names are persisted as keys of completed_tasks, so they are part of
// the state-file format.
const (
	TaskSend100Eggs     = "send_100_eggs"
	TaskHatch333Eggs    = "hatch_333_eggs"
	TaskSubscribedHatch = "subscribed_to_hatch_egg"
)

// UserStats is the read-only projection served to the mini-app.
type UserStats struct {
	HatchedByMe     int             `json:"hatched_by_me"`
	MyEggsHatched   int             `json:"my_eggs_hatched"`
	EggsSent        int             `json:"eggs_sent"`
	EggPoints       int             `json:"egg_points"`
	HatchPoints     int             `json:"hatch_points"`
	AvailableEggs   int             `json:"available_eggs"`
	Tasks           map[string]bool `json:"tasks"`
	ReferralEarned  int             `json:"referral_earned"`
	ReferralsCount  int             `json:"referrals_count"`
	HasReferrer     bool            `json:"has_referrer"`
}

// DailyAllowance tracks one user's sending capacity for a calendar date.
// Count resets on date rollover, PaidEggs carries over.
type DailyAllowance struct {
	Date     string `json:"date"`
	Count    int    `json:"count"`
	PaidEggs int    `json:"paid_eggs"`
}

type DailyLimit struct {
	Allowed      bool
	SentToday    int
	TotalAllowed int
}
