package ports

import (
	"context"

	"myreplays/internal/domain"
)

// DataAttrSelector is the second collection pass shared by LinkSource
// implementations: attributes dynamic pages use to stash link targets.
const DataAttrSelector = "[data-href], [data-url], [data-src]"

// LinkSource hides the page-fetching engine (real browser or plain HTTP)
// behind the one operation link extraction needs.
type LinkSource interface {
	// CandidateTargets navigates to pageURL, lets it settle, and returns the
	// raw link targets of every element matched by selector, plus targets
	// stashed in data-href/data-url/data-src attributes (dynamic pages often
	// carry the real link there instead of an href).
	CandidateTargets(ctx context.Context, pageURL, selector string) ([]string, error)
}

// Browser is a LinkSource that also owns an interactive session: it can
// navigate on demand and snapshot or restore the authentication context.
type Browser interface {
	LinkSource

	Navigate(ctx context.Context, pageURL string) error
	SessionState(ctx context.Context) (domain.SessionState, error)
	// RestoreSession applies a previously saved state, cookies and per-origin
	// storage both, before any listing page is opened.
	RestoreSession(ctx context.Context, state domain.SessionState) error
	Close() error
}
