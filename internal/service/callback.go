package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The hatch button carries "hatch_<senderID>|<eggID>" and must fit the
// transport's 64-byte payload limit. Eggs are always issued in this format;
// decoding additionally accepts the legacy "hatch_<eggID>_<senderID>" shape
// still present on old messages.
const (
	hatchCallbackPrefix = "hatch_"
	maxCallbackBytes    = 64
	shortEggIDLen       = 16
)

// HatchCallbackData encodes the hatch payload for an issued egg.
func HatchCallbackData(senderID int64, eggID string) string {
	return fmt.Sprintf("%s%d|%s", hatchCallbackPrefix, senderID, eggID)
}

// newEggID produces an identifier unique within the sender's namespace whose
// encoded payload fits the byte limit. The normal case is 16 hex chars of a
// random UUID; a pathological sender id forces progressively shorter
// fallbacks ending at a timestamp-derived identifier.
func newEggID(senderID int64, now time.Time) (string, string) {
	eggID := strings.ReplaceAll(uuid.New().String(), "-", "")[:shortEggIDLen]
	data := HatchCallbackData(senderID, eggID)
	if len(data) <= maxCallbackBytes {
		return eggID, data
	}

	overhead := len(fmt.Sprintf("%s%d|", hatchCallbackPrefix, senderID))
	if maxLen := maxCallbackBytes - overhead; maxLen > 0 {
		eggID = eggID[:maxLen]
	} else {
		ts := strconv.FormatInt(now.Unix(), 10)
		eggID = ts[len(ts)-8:]
	}
	return eggID, HatchCallbackData(senderID, eggID)
}

// ParseHatchCallback decodes a hatch payload, trying the pipe format first
// and the legacy trailing-underscore format second. Malformed payloads never
// reach the state.
func ParseHatchCallback(data string) (senderID int64, eggID string, err error) {
	if !strings.HasPrefix(data, hatchCallbackPrefix) {
		return 0, "", ErrInvalidCallback
	}
	rest := data[len(hatchCallbackPrefix):]

	if i := strings.IndexByte(rest, '|'); i >= 0 {
		senderID, err = strconv.ParseInt(rest[:i], 10, 64)
		eggID = rest[i+1:]
		if err != nil || eggID == "" {
			return 0, "", ErrInvalidCallback
		}
		return senderID, eggID, nil
	}

	// Legacy: the egg id may itself contain underscores, the sender id is
	// whatever follows the last one.
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 || i == len(rest)-1 {
		return 0, "", ErrInvalidCallback
	}
	senderID, err = strconv.ParseInt(rest[i+1:], 10, 64)
	if err != nil {
		return 0, "", ErrInvalidCallback
	}
	return senderID, rest[:i], nil
}
