package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHatchCallbackRoundTrip(t *testing.T) {
	eggID, data := newEggID(123456789, time.Now())

	assert.Len(t, eggID, 16)
	assert.LessOrEqual(t, len(data), maxCallbackBytes)

	senderID, parsedEgg, err := ParseHatchCallback(data)
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), senderID)
	assert.Equal(t, eggID, parsedEgg)
}

func TestParseHatchCallback_LegacyFormat(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantSender int64
		wantEgg    string
	}{
		{
			name:       "plain legacy",
			data:       "hatch_deadbeef_42",
			wantSender: 42,
			wantEgg:    "deadbeef",
		},
		{
			name:       "egg id with underscores",
			data:       "hatch_abc_def_123456",
			wantSender: 123456,
			wantEgg:    "abc_def",
		},
		{
			name:       "egg id with dashes",
			data:       "hatch_550e8400-e29b-41d4_777",
			wantSender: 777,
			wantEgg:    "550e8400-e29b-41d4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			senderID, eggID, err := ParseHatchCallback(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSender, senderID)
			assert.Equal(t, tt.wantEgg, eggID)
		})
	}
}

func TestParseHatchCallback_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"wrong prefix", "open_123|abc"},
		{"empty payload", "hatch_"},
		{"pipe without egg id", "hatch_123|"},
		{"pipe without sender", "hatch_|abc"},
		{"non-numeric sender in pipe format", "hatch_abc|def"},
		{"no separator at all", "hatch_abcdef"},
		{"legacy without sender", "hatch_abcdef_"},
		{"legacy non-numeric sender", "hatch_abc_def"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseHatchCallback(tt.data)
			assert.ErrorIs(t, err, ErrInvalidCallback)
		})
	}
}

func TestNewEggID_PayloadFitsLimit(t *testing.T) {
	// Even an absurdly long sender id must produce a payload within the
	// transport limit via the truncation fallbacks.
	ids := []int64{1, 123456789, 9223372036854775807}
	for _, senderID := range ids {
		eggID, data := newEggID(senderID, time.Now())
		assert.NotEmpty(t, eggID)
		assert.LessOrEqual(t, len(data), maxCallbackBytes)

		parsedSender, parsedEgg, err := ParseHatchCallback(data)
		require.NoError(t, err)
		assert.Equal(t, senderID, parsedSender)
		assert.Equal(t, eggID, parsedEgg)
	}
}
