package service

import "time"

const (
	EventEggIssued  = "egg_issued"
	EventEggHatched = "egg_hatched"
)

// EggEvent is pushed to live explorer clients on every lifecycle transition.
type EggEvent struct {
	Type      string    `json:"type"`
	EggID     string    `json:"egg_id"`
	EggKey    string    `json:"egg_key"`
	SenderID  int64     `json:"sender_id"`
	HatchedBy *int64    `json:"hatched_by,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
