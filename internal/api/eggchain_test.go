package api

import (
	"net/http"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hatch_egg_bot/internal/model"
	"hatch_egg_bot/internal/repository"
)

func TestGetEgg(t *testing.T) {
	srv := newTestServer(t)

	sentAt := time.Now().Add(-time.Hour)
	hatcher := int64(222)
	srv.seed(t, func(st *repository.State) {
		key := model.EggKey(111, "aaaa000011112222")
		st.EggsDetail[key] = &model.Egg{
			SenderID:      111,
			EggID:         "aaaa000011112222",
			HatchedBy:     &hatcher,
			TimestampSent: &sentAt,
		}
		st.HatchedEggs.Add(key)
	})

	w := srv.request(t, http.MethodGet, "/api/egg/aaaa000011112222", "")
	assertStatus(t, w, http.StatusOK)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "aaaa000011112222", resp["egg_id"])
	assert.EqualValues(t, 111, resp["sender_id"])
	assert.EqualValues(t, 222, resp["hatched_by"])
	assert.Equal(t, string(model.EggStatusHatched), resp["status"])
}

func TestGetEgg_NotFound(t *testing.T) {
	srv := newTestServer(t)

	w := srv.request(t, http.MethodGet, "/api/egg/missing", "")
	assertStatus(t, w, http.StatusNotFound)
	assert.Contains(t, w.Body.String(), "egg not found")
}

func TestGetUserEggs(t *testing.T) {
	srv := newTestServer(t)

	sentAt := time.Now()
	srv.seed(t, func(st *repository.State) {
		st.EggsDetail[model.EggKey(111, "aaaa000011112222")] = &model.Egg{
			SenderID: 111, EggID: "aaaa000011112222", TimestampSent: &sentAt,
		}
	})

	w := srv.request(t, http.MethodGet, "/api/user/111/eggs", "")
	assertStatus(t, w, http.StatusOK)

	var resp struct {
		Eggs []map[string]any `json:"eggs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Eggs, 1)
	assert.Equal(t, "aaaa000011112222", resp.Eggs[0]["egg_id"])
	assert.Equal(t, string(model.EggStatusPending), resp.Eggs[0]["status"])
}

func TestGetUserEggs_EmptyAndInvalid(t *testing.T) {
	srv := newTestServer(t)

	w := srv.request(t, http.MethodGet, "/api/user/999/eggs", "")
	assertStatus(t, w, http.StatusOK)
	assert.JSONEq(t, `{"eggs": []}`, w.Body.String())

	w = srv.request(t, http.MethodGet, "/api/user/abc/eggs", "")
	assertStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, w.Body.String(), "invalid user_id")
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	// No user info provider is wired in the test server, so every lookup
	// resolves to not found.
	srv := newTestServer(t)

	w := srv.request(t, http.MethodGet, "/api/username/alice", "")
	assertStatus(t, w, http.StatusNotFound)
	assert.Contains(t, w.Body.String(), "user not found")
}
