package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type EggStatus string

const (
	EggStatusPending EggStatus = "pending"
	EggStatusHatched EggStatus = "hatched"
)

// Egg is one issued egg. Eggs are identified system-wide by the composite
// (sender, egg id) key; the short egg id alone is not unique.
type Egg struct {
	SenderID         int64      `json:"sender_id"`
	EggID            string     `json:"egg_id"`
	HatchedBy        *int64     `json:"hatched_by"`
	TimestampSent    *time.Time `json:"timestamp_sent"`
	TimestampHatched *time.Time `json:"timestamp_hatched"`
}

func (e *Egg) Key() string {
	return EggKey(e.SenderID, e.EggID)
}

func EggKey(senderID int64, eggID string) string {
	return fmt.Sprintf("%d_%s", senderID, eggID)
}

// SplitEggKey splits a composite key back into its parts. The egg id itself
// may contain underscores, so only the first separator counts.
func SplitEggKey(key string) (senderID int64, eggID string, ok bool) {
	idx := strings.Index(key, "_")
	if idx <= 0 || idx == len(key)-1 {
		return 0, "", false
	}
	senderID, err := strconv.ParseInt(key[:idx], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return senderID, key[idx+1:], true
}
