package ports

import (
	"context"

	"myreplays/internal/domain"
)

// SessionStore persists one authentication context at a fixed path.
type SessionStore interface {
	// Save overwrites any previously stored state.
	Save(ctx context.Context, state domain.SessionState) error
	// Load returns ErrNotFound when no state has been saved yet; callers
	// treat that as "proceed unauthenticated", not as a failure.
	Load(ctx context.Context) (domain.SessionState, error)
}
