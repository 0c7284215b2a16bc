// Package staticfetch collects link targets from server-rendered pages with
// a plain HTTP GET, no browser engine involved. Enough for listings that do
// not need JavaScript.
package staticfetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"myreplays/internal/ports"
)

type Fetcher struct {
	client *http.Client
}

// New builds a Fetcher around client; pass the session-aware client so
// authenticated listings keep working.
func New(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client}
}

func (f *Fetcher) CandidateTargets(ctx context.Context, pageURL, selector string) ([]string, error) {
	// goquery panics on a bad selector, so validate up front.
	if _, err := cascadia.Parse(selector); err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("http %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var out []string
	doc.Find(selector).Each(func(_ int, el *goquery.Selection) {
		if target := elementTarget(el); target != "" {
			out = append(out, target)
		}
	})
	doc.Find(ports.DataAttrSelector).Each(func(_ int, el *goquery.Selection) {
		if target := elementTarget(el); target != "" {
			out = append(out, target)
		}
	})
	return out, nil
}

// elementTarget prefers href, then the data attributes SPAs use instead.
func elementTarget(el *goquery.Selection) string {
	for _, attr := range []string{"href", "data-href", "data-url", "data-src"} {
		if v, ok := el.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}

var _ ports.LinkSource = (*Fetcher)(nil)
