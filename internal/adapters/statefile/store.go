// Package statefile persists the browser session state as a JSON file,
// by default storage_state.json.
package statefile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Save(ctx context.Context, state domain.SessionState) error {
	b, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	// Cookies are credentials: keep the file owner-only.
	return os.WriteFile(s.path, b, 0o600)
}

func (s *Store) Load(ctx context.Context) (domain.SessionState, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.SessionState{}, ports.ErrNotFound
		}
		return domain.SessionState{}, err
	}
	var state domain.SessionState
	if err := json.Unmarshal(b, &state); err != nil {
		return domain.SessionState{}, err
	}
	return state, nil
}

var _ ports.SessionStore = (*Store)(nil)
