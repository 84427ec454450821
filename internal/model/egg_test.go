package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEggKeyRoundTrip(t *testing.T) {
	key := EggKey(123456789, "deadbeefcafe0123")
	assert.Equal(t, "123456789_deadbeefcafe0123", key)

	senderID, eggID, ok := SplitEggKey(key)
	require.True(t, ok)
	assert.Equal(t, int64(123456789), senderID)
	assert.Equal(t, "deadbeefcafe0123", eggID)
}

func TestSplitEggKey(t *testing.T) {
	tests := []struct {
		key        string
		wantSender int64
		wantEgg    string
		wantOK     bool
	}{
		{"42_abc", 42, "abc", true},
		{"42_abc_def", 42, "abc_def", true},
		{"_abc", 0, "", false},
		{"42_", 0, "", false},
		{"noseparator", 0, "", false},
		{"abc_def", 0, "", false},
	}

	for _, tt := range tests {
		senderID, eggID, ok := SplitEggKey(tt.key)
		assert.Equal(t, tt.wantOK, ok, "key %q", tt.key)
		assert.Equal(t, tt.wantSender, senderID, "key %q", tt.key)
		assert.Equal(t, tt.wantEgg, eggID, "key %q", tt.key)
	}
}
