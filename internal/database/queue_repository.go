package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
)

// QueueRepository reads and updates the archival work queues.
type QueueRepository struct {
	db *sqlx.DB
}

// NewQueueRepository creates a new repository.
func NewQueueRepository(db *sqlx.DB) *QueueRepository {
	return &QueueRepository{db: db}
}

// Pending returns the unprocessed entries of a queue in stable (rowid)
// order. With includeRecheck, entries previously parked as needs-recheck are
// re-enqueued as well.
//
// Table names come from the closed domain.Queue set, never from user input.
func (r *QueueRepository) Pending(ctx context.Context, q domain.Queue, includeRecheck bool) ([]domain.PendingEntry, error) {
	query := fmt.Sprintf(`SELECT id, permalink FROM %s WHERE archived = ?`, q.Table)
	args := []any{domain.StatusPending}
	if includeRecheck {
		query = fmt.Sprintf(`SELECT id, permalink FROM %s WHERE archived IN (?, ?)`, q.Table)
		args = append(args, domain.StatusRecheck)
	}
	if q.Direction != "" {
		query += ` AND direction = ?`
		args = append(args, q.Direction)
	}
	query += ` ORDER BY rowid`

	entries := make([]domain.PendingEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("select pending from %s: %w", q.Table, err)
	}
	return entries, nil
}

// SetStatus records the archival outcome of one queue entry. The write is
// committed before the call returns, so a crash mid-run loses at most the
// in-flight post.
func (r *QueueRepository) SetStatus(ctx context.Context, q domain.Queue, id string, status domain.Status) error {
	query := fmt.Sprintf(`UPDATE %s SET archived = ? WHERE id = ?`, q.Table)
	res, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("set status on %s: %w", q.Table, err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("no %s entry with id %s", q.Table, id)
	}
	return nil
}

// CountByStatus returns how many entries of a queue sit in each status.
func (r *QueueRepository) CountByStatus(ctx context.Context, q domain.Queue) (map[domain.Status]int, error) {
	query := fmt.Sprintf(`SELECT archived, COUNT(*) AS n FROM %s GROUP BY archived`, q.Table)

	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count %s by status: %w", q.Table, err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
