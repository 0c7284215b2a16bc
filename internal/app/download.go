package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

type DownloaderOptions struct {
	// MediaOnly skips links that do not look like direct media/download URLs
	// instead of fetching them.
	MediaOnly bool
}

type Downloader struct {
	logger  zerolog.Logger
	client  *http.Client
	history ports.DownloadHistory // optional
	opts    DownloaderOptions
}

func NewDownloader(logger zerolog.Logger, client *http.Client, history ports.DownloadHistory, opts DownloaderOptions) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &Downloader{logger: logger, client: client, history: history, opts: opts}
}

// DownloadAll fetches every link sequentially into outputDir. A failure on
// one link is recorded and the batch continues; the returned summary always
// covers the whole batch.
//
// Collision policy: an existing destination file is treated as already
// downloaded and skipped, so re-running the same batch leaves the filesystem
// unchanged.
func (d *Downloader) DownloadAll(ctx context.Context, links []string, outputDir, listURL string) domain.BatchSummary {
	summary := domain.BatchSummary{}
	dateDir := DeriveDateFolder(listURL)

	for idx, link := range links {
		n := idx + 1
		if d.opts.MediaOnly && !IsMediaURL(link) {
			d.logger.Info().Str("url", link).Msgf("[%d/%d] skipped, not a media url", n, len(links))
			summary.Skipped++
			d.record(ctx, link, "", listURL, 0, domain.DownloadSkipped, "not a media url")
			continue
		}

		dest, written, err := d.downloadOne(ctx, link, outputDir, dateDir, n)
		switch {
		case err != nil:
			d.logger.Error().Err(err).Str("url", link).Msgf("[%d/%d] failed", n, len(links))
			summary.Failures = append(summary.Failures, domain.Failure{Item: link, Reason: err.Error()})
			d.record(ctx, link, dest, listURL, 0, domain.DownloadFailed, err.Error())
		case written < 0:
			d.logger.Info().Str("path", dest).Msgf("[%d/%d] already downloaded", n, len(links))
			summary.Skipped++
			d.record(ctx, link, dest, listURL, 0, domain.DownloadSkipped, "")
		default:
			d.logger.Info().Str("path", dest).Int64("bytes", written).Msgf("[%d/%d] ok", n, len(links))
			summary.Succeeded++
			d.record(ctx, link, dest, listURL, written, domain.DownloadOK, "")
		}
	}

	d.logger.Info().
		Int("succeeded", summary.Succeeded).
		Int("skipped", summary.Skipped).
		Int("failed", len(summary.Failures)).
		Msg("download batch finished")
	return summary
}

// downloadOne returns written == -1 when the destination already exists.
func (d *Downloader) downloadOne(ctx context.Context, link, outputDir, dateDir string, idx int) (string, int64, error) {
	name := FilenameFromURL(link, fmt.Sprintf("replay_%d.bin", idx))

	dir := outputDir
	if dateDir != "" {
		dir = filepath.Join(outputDir, dateDir)
	} else if fromName := dateFolderFromName(name); fromName != "" {
		dir = filepath.Join(outputDir, fromName)
	}
	dest := filepath.Join(dir, name)

	if _, err := os.Stat(dest); err == nil {
		return dest, -1, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return dest, 0, NewCodedError(CodeDownload, "create "+dir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return dest, 0, NewCodedError(CodeDownload, "bad url", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return dest, 0, NewCodedError(CodeDownload, "fetch failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return dest, 0, NewCodedError(CodeDownload, "http "+resp.Status, nil)
	}

	f, err := os.Create(dest)
	if err != nil {
		return dest, 0, NewCodedError(CodeDownload, "create file", err)
	}
	written, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// Never leave a truncated file behind: the skip policy would treat
		// it as complete on the next run.
		_ = os.Remove(dest)
		return dest, 0, NewCodedError(CodeDownload, "write failed", err)
	}
	return dest, written, nil
}

func (d *Downloader) record(ctx context.Context, url, path, listURL string, bytes int64, status domain.DownloadStatus, reason string) {
	if d.history == nil {
		return
	}
	_, err := d.history.Record(ctx, domain.Download{
		ID:        xid.New().String(),
		URL:       url,
		FilePath:  path,
		ListURL:   listURL,
		Bytes:     bytes,
		Status:    status,
		Error:     reason,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		d.logger.Warn().Err(err).Str("url", url).Msg("failed to record download")
	}
}
