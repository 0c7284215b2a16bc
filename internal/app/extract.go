package app

import (
	"context"
	"regexp"

	"github.com/andybalholm/cascadia"
	"github.com/rs/zerolog"

	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

type LinkExtractor struct {
	logger zerolog.Logger
	source ports.LinkSource
}

func NewLinkExtractor(logger zerolog.Logger, source ports.LinkSource) *LinkExtractor {
	return &LinkExtractor{logger: logger, source: source}
}

// Extract collects every target matched by listing.Selector on listing.URL,
// resolves them to absolute URLs, and keeps only those matching
// listing.Filter (case-insensitive), deduplicated in first-seen order.
// Zero matches is a successful empty result.
func (e *LinkExtractor) Extract(ctx context.Context, listing domain.Listing) ([]string, error) {
	candidates, pattern, err := e.collect(ctx, listing)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(candidates))
	for _, u := range candidates {
		if pattern.MatchString(u) {
			out = append(out, u)
		}
	}
	e.logger.Info().Int("candidates", len(candidates)).Int("matched", len(out)).Str("list_url", listing.URL).Msg("links extracted")
	return out, nil
}

// Candidates returns every resolved target before filtering, plus the number
// that the filter would keep. Backs the -debug-links mode.
func (e *LinkExtractor) Candidates(ctx context.Context, listing domain.Listing) (all []string, matched []string, err error) {
	candidates, pattern, err := e.collect(ctx, listing)
	if err != nil {
		return nil, nil, err
	}
	for _, u := range candidates {
		if pattern.MatchString(u) {
			matched = append(matched, u)
		}
	}
	return candidates, matched, nil
}

func (e *LinkExtractor) collect(ctx context.Context, listing domain.Listing) ([]string, *regexp.Regexp, error) {
	selector := listing.Selector
	if selector == "" {
		selector = domain.DefaultLinkSelector
	}
	filter := listing.Filter
	if filter == "" {
		filter = domain.DefaultLinkFilter
	}

	if _, err := cascadia.Parse(selector); err != nil {
		return nil, nil, NewCodedError(CodeSelector, "invalid css selector "+selector, err)
	}
	pattern, err := regexp.Compile("(?i)" + filter)
	if err != nil {
		return nil, nil, NewCodedError(CodePattern, "invalid filter regex", err)
	}

	targets, err := e.source.CandidateTargets(ctx, listing.URL, selector)
	if err != nil {
		return nil, nil, NewCodedError(CodeNavigation, "failed to load "+listing.URL, err)
	}

	return NormalizeTargets(listing.URL, targets), pattern, nil
}
