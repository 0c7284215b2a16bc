package domain

import "time"

// Listing identifies one extraction pass: where to look and how to pick links.
// Built per invocation, never persisted.
type Listing struct {
	URL      string
	Selector string
	Filter   string
}

// DefaultLinkSelector matches any anchor carrying a target.
const DefaultLinkSelector = "a[href]"

// DefaultLinkFilter is deliberately permissive; operators are expected to
// tighten it per site with -filter-regex.
const DefaultLinkFilter = `(replay|download|video|videoPage|stream|play|\.mp4|\.dem|\.zip|\.rar|\.7z|/api/)`

type DownloadStatus string

const (
	DownloadOK      DownloadStatus = "ok"
	DownloadSkipped DownloadStatus = "skipped"
	DownloadFailed  DownloadStatus = "failed"
)

// Download is one recorded download outcome, persisted in the history store.
type Download struct {
	ID        string
	URL       string
	FilePath  string
	ListURL   string
	Bytes     int64
	Status    DownloadStatus
	Error     string
	CreatedAt time.Time
}

// Failure pairs a source item with the reason it was not processed.
type Failure struct {
	Item   string
	Reason string
}

// BatchSummary reports how a sequential batch ended. Per-item failures never
// abort a batch; they end up here.
type BatchSummary struct {
	Succeeded int
	Skipped   int
	Failures  []Failure
}

func (s BatchSummary) Total() int {
	return s.Succeeded + s.Skipped + len(s.Failures)
}
