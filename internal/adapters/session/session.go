// Package session persists auth state to disk between runs, standing
// in for the browser local storage the web client uses.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HeatedDotCom/heated/internal/domain/model"
)

const (
	fileMode = 0o600
	dirMode  = 0o700
)

// State is the serialized session: a bearer token plus the user record.
// Anonymous identities have no token.
type State struct {
	AccessToken string     `json:"access_token,omitempty"`
	User        model.User `json:"user"`
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a store at path. An empty path selects the default
// location under the user config dir.
func NewStore(path string) (*Store, error) {
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		path = filepath.Join(base, "heated", "session.json")
	}
	return &Store{path: path}, nil
}

// Save writes the session state, creating parent directories as needed.
func (s *Store) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.WriteFile(s.path, data, fileMode); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Load reads the session state. The second return is false when no
// session file exists.
func (s *Store) Load() (State, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("read session: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, false, fmt.Errorf("decode session: %w", err)
	}
	return st, true, nil
}

// Clear removes the session file. Clearing a missing session is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
