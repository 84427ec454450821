package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hatch_egg_bot/pkg/logger"
)

var (
	ErrNotFound = errors.New("not found")
)

// Store owns the whole in-memory state and the backing file. Both the bot
// update loop and the HTTP handlers mutate through Update, so the mutex is
// the only ordering guarantee in the system.
type Store struct {
	mu    sync.RWMutex
	state *State
	path  string
}

type Config struct {
	DataFile string `yaml:"dataFile"`
}

func New(cfg Config) (*Store, error) {
	path := cfg.DataFile
	if path == "" {
		path = "bot_data.json"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Logger().Info("data file does not exist, starting empty",
				zap.String("path", s.path))
			s.state = NewState()
			return nil
		}
		return fmt.Errorf("failed to read data file: %w", err)
	}

	state := NewState()
	if len(data) > 0 {
		if err := json.Unmarshal(data, state); err != nil {
			return fmt.Errorf("failed to parse data file %s: %w", s.path, err)
		}
		state.normalize()
	}
	s.state = state

	logger.Logger().Info("state loaded",
		zap.String("path", s.path),
		zap.Int("users_with_points", len(state.EggPoints)),
		zap.Int("referrers", len(state.Referrers)),
		zap.Int("eggs", len(state.EggsDetail)))
	return nil
}

// Update runs fn with exclusive access and flushes the whole document
// afterwards. A flush failure is logged but not returned: the in-memory
// state stays authoritative until the next successful flush.
func (s *Store) Update(fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		return err
	}
	if err := s.flushLocked(); err != nil {
		logger.Logger().Error("failed to persist state", zap.Error(err))
	}
	return nil
}

// View runs fn with shared read access. fn must not mutate the state.
func (s *Store) View(fn func(st *State) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.state)
}

// flushLocked serializes the document to a temp file and renames it over the
// old one, so the file replacement itself is crash-atomic.
func (s *Store) flushLocked() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "replace data file")
	}
	return nil
}
