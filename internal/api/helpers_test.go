package api

import (
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"hatch_egg_bot/internal/repository"
	"hatch_egg_bot/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer wires the real services over a throwaway store so handler tests
// exercise the full request path.
type testServer struct {
	router *gin.Engine
	store  *repository.Store
	svc    *service.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := repository.New(repository.Config{
		DataFile: filepath.Join(t.TempDir(), "bot_data.json"),
	})
	require.NoError(t, err)

	svc := service.NewService(
		service.NewLimitService(store),
		service.NewEggService(store, nil, nil),
		service.NewPointsService(store, nil, nil),
		service.NewPaymentService(store, "UQtest-wallet"),
		service.NewStatsService(store, nil),
		store,
	)

	router := gin.New()
	api := router.Group("/api")
	NewStatsRoutes(api, svc, svc)
	NewPaymentRoutes(api, svc)
	NewEggchainRoutes(api, svc)

	return &testServer{router: router, store: store, svc: svc}
}

func (s *testServer) request(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seed(t *testing.T, fn func(st *repository.State)) {
	t.Helper()
	require.NoError(t, s.store.Update(func(st *repository.State) error {
		fn(st)
		return nil
	}))
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
