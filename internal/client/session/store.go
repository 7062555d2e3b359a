// Package session holds the back-office client session: persisted
// credentials, the inactivity watchdog and the session lifecycle.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"apexdrive/internal/core/domain"
)

// ErrNoSession is returned by Load when no session file exists.
var ErrNoSession = errors.New("no stored session")

// State is the persisted session: token, identity and token expiry.
type State struct {
	AccessToken string          `json:"access_token"`
	User        domain.Identity `json:"user"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

// Store persists the session state as a JSON file readable only by the
// owning user.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is ~/.apexdrive/session.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".apexdrive", "session.json"), nil
}

func (s *Store) Save(state *State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	// Write-and-rename so a crash never leaves a truncated session file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Load() (*State, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}
	var state State
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if state.AccessToken == "" {
		return nil, ErrNoSession
	}
	return &state, nil
}

// Clear removes the session file. Missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
