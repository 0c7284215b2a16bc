package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"myreplays/internal/domain"
)

type stubHistory struct {
	rows []domain.Download
}

func (s *stubHistory) Record(ctx context.Context, d domain.Download) (domain.Download, error) {
	s.rows = append(s.rows, d)
	return d, nil
}

func (s *stubHistory) List(ctx context.Context, limit int) ([]domain.Download, error) {
	return s.rows, nil
}

func TestServer_Downloads(t *testing.T) {
	hist := &stubHistory{rows: []domain.Download{{
		ID:        "h1",
		URL:       "https://x/r/1.mp4",
		FilePath:  "replays/2026_02_25/1.mp4",
		Bytes:     42,
		Status:    domain.DownloadOK,
		CreatedAt: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
	}}}
	srv := NewServer(zerolog.Nop(), hist, "")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/downloads", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d, body: %s", rec.Code, rec.Body.String())
	}
	var out []DownloadDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 1 || out[0].ID != "h1" || out[0].Status != "ok" || out[0].Bytes != 42 {
		t.Fatalf("unexpected payload: %+v", out)
	}
}

func TestServer_Health(t *testing.T) {
	srv := NewServer(zerolog.Nop(), &stubHistory{}, "")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestServer_ServesDownloadedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "2026_02_25"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "2026_02_25", "clip.mp4"), []byte("video"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	srv := NewServer(zerolog.Nop(), &stubHistory{}, dir)
	req := httptest.NewRequest(http.MethodGet, "/files/2026_02_25/clip.mp4", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	if rec.Body.String() != "video" {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}
