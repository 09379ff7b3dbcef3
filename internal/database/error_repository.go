package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
)

// ErrorRepository manages the archive_errors table. One row per post id;
// the last error wins.
type ErrorRepository struct {
	db *sqlx.DB
}

// NewErrorRepository creates a new repository.
func NewErrorRepository(db *sqlx.DB) *ErrorRepository {
	return &ErrorRepository{db: db}
}

// Upsert records the latest archival error for a post.
func (r *ErrorRepository) Upsert(ctx context.Context, rec domain.ErrorRecord) error {
	query := `
		INSERT INTO archive_errors (id, permalink, table_name, error, link)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			permalink = excluded.permalink,
			table_name = excluded.table_name,
			error = excluded.error,
			link = excluded.link`

	_, err := r.db.ExecContext(ctx, query, rec.ID, rec.Permalink, rec.Table, rec.Error, rec.Link)
	if err != nil {
		return fmt.Errorf("upsert archive error: %w", err)
	}
	return nil
}

// Clear removes the error row of a post that later archived successfully.
// Clearing a post with no recorded error is a no-op.
func (r *ErrorRepository) Clear(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM archive_errors WHERE id = ?`, id); err != nil {
		return fmt.Errorf("clear archive error: %w", err)
	}
	return nil
}

// List returns all recorded archival errors.
func (r *ErrorRepository) List(ctx context.Context) ([]domain.ErrorRecord, error) {
	records := make([]domain.ErrorRecord, 0)
	query := `SELECT id, permalink, table_name, error, link FROM archive_errors ORDER BY id`
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list archive errors: %w", err)
	}
	return records, nil
}
