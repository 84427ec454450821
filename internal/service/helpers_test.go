package service

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"hatch_egg_bot/internal/repository"
)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	store, err := repository.New(repository.Config{
		DataFile: filepath.Join(t.TempDir(), "bot_data.json"),
	})
	require.NoError(t, err)
	return store
}

type sentNotification struct {
	UserID int64
	Text   string
}

// recordingNotifier captures best-effort messages for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) Notify(userID int64, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{UserID: userID, Text: text})
}

func (n *recordingNotifier) messages() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}

// recordingSink captures published egg events.
type recordingSink struct {
	mu     sync.Mutex
	events []EggEvent
}

func (s *recordingSink) Publish(ev EggEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) all() []EggEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EggEvent(nil), s.events...)
}

func seedState(t *testing.T, store *repository.Store, fn func(st *repository.State)) {
	t.Helper()
	require.NoError(t, store.Update(func(st *repository.State) error {
		fn(st)
		return nil
	}))
}

func readState(t *testing.T, store *repository.Store, fn func(st *repository.State)) {
	t.Helper()
	require.NoError(t, store.View(func(st *repository.State) error {
		fn(st)
		return nil
	}))
}
