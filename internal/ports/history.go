package ports

import (
	"context"

	"myreplays/internal/domain"
)

// DownloadHistory records download outcomes so re-runs and the serve UI can
// see what already landed on disk.
type DownloadHistory interface {
	Record(ctx context.Context, d domain.Download) (domain.Download, error)
	List(ctx context.Context, limit int) ([]domain.Download, error)
}
