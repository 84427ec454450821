package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatch_egg_bot/internal/model"
)

func TestStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	store, err := New(Config{DataFile: path})
	require.NoError(t, err)

	require.NoError(t, store.View(func(st *State) error {
		assert.Empty(t, st.HatchedEggs)
		assert.Empty(t, st.EggPoints)
		assert.NotNil(t, st.EggsDetail)
		return nil
	}))

	// Nothing is written until the first update.
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_EmptyFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	store, err := New(Config{DataFile: path})
	require.NoError(t, err)
	require.NoError(t, store.View(func(st *State) error {
		assert.NotNil(t, st.Referrers)
		return nil
	}))
}

func TestStore_CorruptFileFailsLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := New(Config{DataFile: path})
	assert.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	store, err := New(Config{DataFile: path})
	require.NoError(t, err)

	hatcher := int64(222)
	require.NoError(t, store.Update(func(st *State) error {
		st.HatchedEggs.Add("111_aaaa")
		st.HatchedEggs.Add("111_bbbb")
		st.EggsHatchedByUser[222] = 3
		st.UserEggsHatchedByOthers[111] = 3
		st.EggsSentByUser[111] = 5
		st.DailyEggsSent[111] = &model.DailyAllowance{Date: "2026-08-28", Count: 5, PaidEggs: 20}
		st.EggPoints[111] = 7
		st.MarkTaskDone(111, model.TaskSend100Eggs)
		st.Referrers[222] = 111
		st.ReferralEarnings[111] = 2
		st.TonPayments[111] = []model.Payment{{Date: "2026-08-28", Amount: 0.15, TxHash: "tx-1", Eggs: 10}}
		st.EggsDetail["111_aaaa"] = &model.Egg{SenderID: 111, EggID: "aaaa", HatchedBy: &hatcher}
		return nil
	}))

	// A fresh store over the same file must reproduce every counter, flag
	// and edge exactly.
	reloaded, err := New(Config{DataFile: path})
	require.NoError(t, err)
	require.NoError(t, reloaded.View(func(st *State) error {
		assert.True(t, st.HatchedEggs.Has("111_aaaa"))
		assert.True(t, st.HatchedEggs.Has("111_bbbb"))
		assert.Equal(t, 3, st.EggsHatchedByUser[222])
		assert.Equal(t, 3, st.UserEggsHatchedByOthers[111])
		assert.Equal(t, 5, st.EggsSentByUser[111])
		assert.Equal(t, &model.DailyAllowance{Date: "2026-08-28", Count: 5, PaidEggs: 20}, st.DailyEggsSent[111])
		assert.Equal(t, 7, st.EggPoints[111])
		assert.True(t, st.TaskDone(111, model.TaskSend100Eggs))
		assert.Equal(t, int64(111), st.Referrers[222])
		assert.Equal(t, 2, st.ReferralEarnings[111])
		require.Len(t, st.TonPayments[111], 1)
		assert.Equal(t, "tx-1", st.TonPayments[111][0].TxHash)
		egg := st.EggsDetail["111_aaaa"]
		require.NotNil(t, egg)
		require.NotNil(t, egg.HatchedBy)
		assert.Equal(t, hatcher, *egg.HatchedBy)
		return nil
	}))

	// The temp file never outlives a successful flush.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_UpdateErrorSkipsFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	store, err := New(Config{DataFile: path})
	require.NoError(t, err)

	require.NoError(t, store.Update(func(st *State) error {
		st.EggPoints[111] = 1
		return nil
	}))

	err = store.Update(func(st *State) error {
		return ErrNotFound
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_OlderFileGetsNormalized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"egg_points": {"111": 4}}`), 0o644))

	store, err := New(Config{DataFile: path})
	require.NoError(t, err)
	require.NoError(t, store.Update(func(st *State) error {
		assert.Equal(t, 4, st.EggPoints[111])
		// Missing sections arrive as usable empty containers.
		st.HatchedEggs.Add("111_cccc")
		st.Referrers[222] = 111
		return nil
	}))
}

func TestStringSet_MarshalsAsSortedArray(t *testing.T) {
	set := StringSet{}
	set.Add("b")
	set.Add("a")
	set.Add("c")

	data, err := set.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b","c"]`, string(data))

	var decoded StringSet
	require.NoError(t, decoded.UnmarshalJSON([]byte(`["x","y"]`)))
	assert.True(t, decoded.Has("x"))
	assert.True(t, decoded.Has("y"))
	assert.False(t, decoded.Has("z"))
}
