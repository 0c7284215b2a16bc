package app

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

type SessionService struct {
	logger zerolog.Logger
	store  ports.SessionStore
}

func NewSessionService(logger zerolog.Logger, store ports.SessionStore) *SessionService {
	return &SessionService{logger: logger, store: store}
}

// Login points the browser at baseURL, blocks on wait until the operator has
// finished authenticating, then snapshots the session and persists it,
// overwriting any previous state.
func (s *SessionService) Login(ctx context.Context, browser ports.Browser, baseURL string, wait func() error) (domain.SessionState, error) {
	if err := browser.Navigate(ctx, baseURL); err != nil {
		return domain.SessionState{}, NewCodedError(CodeNavigation, "failed to open "+baseURL, err)
	}
	if err := wait(); err != nil {
		return domain.SessionState{}, err
	}

	state, err := browser.SessionState(ctx)
	if err != nil {
		return domain.SessionState{}, err
	}
	state.SavedAt = time.Now().UTC()

	if err := s.store.Save(ctx, state); err != nil {
		return domain.SessionState{}, err
	}
	s.logger.Info().Int("cookies", len(state.Cookies)).Msg("session saved")
	return state, nil
}

// Restore hands a saved session to the browser before any navigation, so
// cookie- and localStorage-based logins both survive across runs. A nil
// session is a no-op: the run proceeds unauthenticated.
func (s *SessionService) Restore(ctx context.Context, browser ports.Browser, session *domain.SessionState) error {
	if session == nil {
		return nil
	}
	if err := browser.RestoreSession(ctx, *session); err != nil {
		return NewCodedError(CodeNavigation, "failed to restore saved session", err)
	}
	s.logger.Debug().
		Int("cookies", len(session.Cookies)).
		Int("origins", len(session.Origins)).
		Msg("session restored")
	return nil
}

// Load restores the persisted session. A missing state file is a valid
// outcome (some listing pages are public): it returns nil, nil.
func (s *SessionService) Load(ctx context.Context) (*domain.SessionState, error) {
	state, err := s.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.logger.Warn().Msg("no saved session, proceeding unauthenticated")
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}
