// Package browser drives a real Chromium page through the DevTools protocol.
// It backs both the interactive login (headful) and dynamic listing pages
// that render their links with JavaScript.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

type Options struct {
	// Headless should stay false for login: the operator needs the window.
	Headless bool
	// SettleWait is the pause after navigation so SPA listings finish
	// rendering. Bounded, never an open-ended block.
	SettleWait time.Duration
}

type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
	opts    Options
}

// New launches a Chromium instance. Close must be called on every path.
func New(parent context.Context, opts Options) (*Browser, error) {
	if opts.SettleWait <= 0 {
		opts.SettleWait = 4 * time.Second
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	allocOpts = append(allocOpts, chromedp.Flag("headless", opts.Headless))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	b := &Browser{ctx: ctx, cancels: []context.CancelFunc{cancelCtx, cancelAlloc}, opts: opts}

	// Start the browser process now so launch failures surface here.
	if err := chromedp.Run(ctx, chromedp.ActionFunc(func(context.Context) error { return nil })); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

// RestoreSession injects the saved cookies and seeds localStorage for every
// saved origin. Each origin is visited once, since a page at the origin is
// the only place its storage can be written.
func (b *Browser) RestoreSession(ctx context.Context, state domain.SessionState) error {
	var actions []chromedp.Action
	if len(state.Cookies) > 0 {
		actions = append(actions, restoreCookiesAction(state.Cookies))
	}
	for _, o := range state.Origins {
		if o.Origin == "" || len(o.LocalStorage) == 0 {
			continue
		}
		actions = append(actions, seedLocalStorageAction(o))
	}
	if len(actions) == 0 {
		return nil
	}
	return b.run(ctx, actions...)
}

func (b *Browser) Close() error {
	for _, cancel := range b.cancels {
		cancel()
	}
	return nil
}

func (b *Browser) Navigate(ctx context.Context, pageURL string) error {
	return b.run(ctx, chromedp.Navigate(pageURL))
}

func (b *Browser) CandidateTargets(ctx context.Context, pageURL, selector string) ([]string, error) {
	var primary, data []map[string]string
	var framed []string
	err := b.run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.Sleep(b.opts.SettleWait),
		chromedp.AttributesAll(selector, &primary, chromedp.ByQueryAll, chromedp.AtLeast(0)),
		chromedp.AttributesAll(ports.DataAttrSelector, &data, chromedp.ByQueryAll, chromedp.AtLeast(0)),
		chromedp.Evaluate(frameCollectScript(selector), &framed),
	)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, attrs := range primary {
		if t := attrTarget(attrs); t != "" {
			out = append(out, t)
		}
	}
	for _, attrs := range data {
		if t := attrTarget(attrs); t != "" {
			out = append(out, t)
		}
	}
	out = append(out, framed...)
	return out, nil
}

// frameCollectScript walks nested same-origin iframes, which the top-level
// query passes cannot reach. Cross-origin frames throw on contentDocument and
// are skipped.
func frameCollectScript(selector string) string {
	return fmt.Sprintf(frameCollectJS, strconv.Quote(selector), strconv.Quote(ports.DataAttrSelector))
}

const frameCollectJS = `(() => {
	const take = (doc, sel) => Array.from(doc.querySelectorAll(sel), el =>
		el.getAttribute('href') || el.getAttribute('data-href') ||
		el.getAttribute('data-url') || el.getAttribute('data-src') || '');
	const out = [];
	const walk = (doc) => {
		for (const frame of doc.querySelectorAll('iframe')) {
			let inner = null;
			try { inner = frame.contentDocument; } catch (e) { continue; }
			if (!inner) continue;
			out.push(...take(inner, %s), ...take(inner, %s));
			walk(inner);
		}
	};
	walk(document);
	return out.filter(t => t !== '');
})()`

func attrTarget(attrs map[string]string) string {
	for _, name := range []string{"href", "data-href", "data-url", "data-src"} {
		if v := attrs[name]; v != "" {
			return v
		}
	}
	return ""
}

// SessionState snapshots cookies plus the current origin's localStorage.
func (b *Browser) SessionState(ctx context.Context) (domain.SessionState, error) {
	var state domain.SessionState
	err := b.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			cookies, err := storage.GetCookies().Do(ctx)
			if err != nil {
				return err
			}
			for _, c := range cookies {
				state.Cookies = append(state.Cookies, domain.Cookie{
					Name:     c.Name,
					Value:    c.Value,
					Domain:   c.Domain,
					Path:     c.Path,
					Expires:  c.Expires,
					HTTPOnly: c.HTTPOnly,
					Secure:   c.Secure,
					SameSite: string(c.SameSite),
				})
			}
			return nil
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var origin string
			if err := chromedp.Evaluate(`window.location.origin`, &origin).Do(ctx); err != nil {
				return nil // about:blank etc, nothing to capture
			}
			local := map[string]string{}
			if err := chromedp.Evaluate(`Object.fromEntries(Object.entries(localStorage))`, &local).Do(ctx); err != nil || len(local) == 0 {
				return nil
			}
			state.Origins = append(state.Origins, domain.OriginStorage{Origin: origin, LocalStorage: local})
			return nil
		}),
	)
	if err != nil {
		return domain.SessionState{}, err
	}
	return state, nil
}

func seedLocalStorageAction(o domain.OriginStorage) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := chromedp.Navigate(o.Origin).Do(ctx); err != nil {
			return err
		}
		payload, err := json.Marshal(o.LocalStorage)
		if err != nil {
			return err
		}
		script := fmt.Sprintf(`Object.entries(%s).forEach(([k, v]) => localStorage.setItem(k, v))`, payload)
		return chromedp.Evaluate(script, nil).Do(ctx)
	})
}

func restoreCookiesAction(cookies []domain.Cookie) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		params := make([]*network.CookieParam, 0, len(cookies))
		for _, c := range cookies {
			p := &network.CookieParam{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Secure:   c.Secure,
				HTTPOnly: c.HTTPOnly,
			}
			if c.Expires > 0 {
				exp := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
				p.Expires = &exp
			}
			params = append(params, p)
		}
		return network.SetCookies(params).Do(ctx)
	})
}

// run executes actions in the browser context but honors the caller's
// deadline and cancellation.
func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() { done <- chromedp.Run(b.ctx, actions...) }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

var _ ports.Browser = (*Browser)(nil)
