package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"myreplays/internal/domain"
	"myreplays/internal/ports"
)

type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Record(ctx context.Context, d domain.Download) (domain.Download, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO downloads(id, url, file_path, list_url, bytes, status, error, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.URL, d.FilePath, d.ListURL, d.Bytes, string(d.Status), d.Error,
		d.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return domain.Download{}, err
	}
	return r.Get(ctx, d.ID)
}

func (r *HistoryRepository) Get(ctx context.Context, id string) (domain.Download, error) {
	var d domain.Download
	var createdAt string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, url, file_path, list_url, bytes, status, error, created_at
		FROM downloads WHERE id = ?
	`, id).Scan(&d.ID, &d.URL, &d.FilePath, &d.ListURL, &d.Bytes, &d.Status, &d.Error, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Download{}, ports.ErrNotFound
		}
		return domain.Download{}, err
	}
	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return d, nil
}

func (r *HistoryRepository) List(ctx context.Context, limit int) ([]domain.Download, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, url, file_path, list_url, bytes, status, error, created_at
		FROM downloads ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Download{}
	for rows.Next() {
		var d domain.Download
		var createdAt string
		if err := rows.Scan(&d.ID, &d.URL, &d.FilePath, &d.ListURL, &d.Bytes, &d.Status, &d.Error, &createdAt); err != nil {
			return nil, err
		}
		d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, d)
	}
	return out, rows.Err()
}

var _ ports.DownloadHistory = (*HistoryRepository)(nil)
