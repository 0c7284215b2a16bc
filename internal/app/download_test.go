package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"myreplays/internal/domain"
)

type memHistory struct {
	mu   sync.Mutex
	rows []domain.Download
}

func (m *memHistory) Record(ctx context.Context, d domain.Download) (domain.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, d)
	return d, nil
}

func (m *memHistory) List(ctx context.Context, limit int) ([]domain.Download, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Download(nil), m.rows...), nil
}

func newFileServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/r/1.mp4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video-one"))
	})
	mux.HandleFunc("/r/2.mp4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("video-two"))
	})
	mux.HandleFunc("/r/missing.mp4", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestDownloader_DateFolderFromListURL(t *testing.T) {
	ts := newFileServer(t)
	out := t.TempDir()
	d := NewDownloader(zerolog.Nop(), ts.Client(), nil, DownloaderOptions{})

	summary := d.DownloadAll(context.Background(),
		[]string{ts.URL + "/r/1.mp4"}, out, ts.URL+"/list?day=2026-02-25")
	if summary.Succeeded != 1 || len(summary.Failures) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	b, err := os.ReadFile(filepath.Join(out, "2026_02_25", "1.mp4"))
	if err != nil {
		t.Fatalf("expected file under date folder: %v", err)
	}
	if string(b) != "video-one" {
		t.Fatalf("unexpected content: %q", b)
	}
}

func TestDownloader_NoDateTokenLandsInRoot(t *testing.T) {
	ts := newFileServer(t)
	out := t.TempDir()
	d := NewDownloader(zerolog.Nop(), ts.Client(), nil, DownloaderOptions{})

	summary := d.DownloadAll(context.Background(), []string{ts.URL + "/r/2.mp4"}, out, ts.URL+"/list")
	if summary.Succeeded != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(out, "2.mp4")); err != nil {
		t.Fatalf("expected file in output root: %v", err)
	}
}

func TestDownloader_SkipOnCollisionIsIdempotent(t *testing.T) {
	ts := newFileServer(t)
	out := t.TempDir()
	d := NewDownloader(zerolog.Nop(), ts.Client(), nil, DownloaderOptions{})
	links := []string{ts.URL + "/r/1.mp4", ts.URL + "/r/2.mp4"}

	first := d.DownloadAll(context.Background(), links, out, ts.URL+"/list")
	if first.Succeeded != 2 {
		t.Fatalf("first run: %+v", first)
	}

	// Tamper with one file: skip policy must leave it alone on the re-run.
	marker := filepath.Join(out, "1.mp4")
	if err := os.WriteFile(marker, []byte("local edit"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	second := d.DownloadAll(context.Background(), links, out, ts.URL+"/list")
	if second.Succeeded != 0 || second.Skipped != 2 || len(second.Failures) != 0 {
		t.Fatalf("second run: %+v", second)
	}
	b, err := os.ReadFile(marker)
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if string(b) != "local edit" {
		t.Fatalf("existing file was overwritten: %q", b)
	}
}

func TestDownloader_PerLinkFailureDoesNotAbortBatch(t *testing.T) {
	ts := newFileServer(t)
	out := t.TempDir()
	hist := &memHistory{}
	d := NewDownloader(zerolog.Nop(), ts.Client(), hist, DownloaderOptions{})

	summary := d.DownloadAll(context.Background(),
		[]string{ts.URL + "/r/missing.mp4", ts.URL + "/r/2.mp4"}, out, ts.URL+"/list")
	if summary.Succeeded != 1 || len(summary.Failures) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Failures[0].Item != ts.URL+"/r/missing.mp4" {
		t.Fatalf("unexpected failure item: %+v", summary.Failures[0])
	}
	// The failed fetch must not leave a partial file behind.
	if _, err := os.Stat(filepath.Join(out, "missing.mp4")); !os.IsNotExist(err) {
		t.Fatalf("expected no file for failed download, stat err: %v", err)
	}

	if len(hist.rows) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(hist.rows))
	}
	statuses := map[domain.DownloadStatus]int{}
	for _, r := range hist.rows {
		statuses[r.Status]++
	}
	if statuses[domain.DownloadOK] != 1 || statuses[domain.DownloadFailed] != 1 {
		t.Fatalf("unexpected history statuses: %v", statuses)
	}
}

func TestDownloader_MediaOnlySkipsPages(t *testing.T) {
	ts := newFileServer(t)
	out := t.TempDir()
	d := NewDownloader(zerolog.Nop(), ts.Client(), nil, DownloaderOptions{MediaOnly: true})

	summary := d.DownloadAll(context.Background(),
		[]string{ts.URL + "/videoPage?id=3", ts.URL + "/r/1.mp4"}, out, ts.URL+"/list")
	if summary.Succeeded != 1 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestDownloader_DateFolderFromFilenameFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/2026_02_25_final.mp4", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("dated"))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	out := t.TempDir()
	d := NewDownloader(zerolog.Nop(), ts.Client(), nil, DownloaderOptions{})

	summary := d.DownloadAll(context.Background(),
		[]string{ts.URL + "/files/2026_02_25_final.mp4"}, out, ts.URL+"/list")
	if summary.Succeeded != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(out, "2026_02_25", "2026_02_25_final.mp4")); err != nil {
		t.Fatalf("expected date folder from filename: %v", err)
	}
}
