package app

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"myreplays/internal/domain"
)

func TestNewHTTPClient_CarriesSessionCookies(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("auth")
		if err != nil || c.Value != "tok" {
			http.Error(w, "unauthenticated", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer ts.Close()

	host := mustHost(t, ts.URL)
	session := &domain.SessionState{Cookies: []domain.Cookie{
		{Name: "auth", Value: "tok", Domain: host, Path: "/"},
	}}

	client, err := NewHTTPClient(session, 5*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	// The jar is keyed by host, not scheme, for non-Secure cookies, so the
	// session cookie applies to the test server's http URL too.
	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestNewHTTPClient_SlowBodyOutlivesHeaderTimeout(t *testing.T) {
	const chunks = 4
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fl, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer is not a flusher")
			return
		}
		for i := 0; i < chunks; i++ {
			_, _ = w.Write(bytes.Repeat([]byte("x"), 1024))
			fl.Flush()
			time.Sleep(60 * time.Millisecond)
		}
	}))
	defer ts.Close()

	// Headers arrive immediately; the body alone takes longer than the
	// timeout. The transfer must still complete.
	client, err := NewHTTPClient(nil, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	resp, err := client.Get(ts.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading slow body: %v", err)
	}
	if len(body) != chunks*1024 {
		t.Fatalf("body truncated: got %d bytes, want %d", len(body), chunks*1024)
	}
}

func TestNewHTTPClient_NilSession(t *testing.T) {
	client, err := NewHTTPClient(nil, time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	if client.Jar == nil {
		t.Fatalf("expected a cookie jar")
	}
}

func mustHost(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u.Hostname()
}
