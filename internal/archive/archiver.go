package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/logger"
)

// QueueStore reads and updates the archival work queues.
type QueueStore interface {
	Pending(ctx context.Context, q domain.Queue, includeRecheck bool) ([]domain.PendingEntry, error)
	SetStatus(ctx context.Context, q domain.Queue, id string, status domain.Status) error
}

// ErrorStore persists per-post archival errors.
type ErrorStore interface {
	Upsert(ctx context.Context, rec domain.ErrorRecord) error
	Clear(ctx context.Context, id string) error
}

// PostResolver archives a single post.
type PostResolver interface {
	Resolve(ctx context.Context, id string, q domain.Queue) error
}

// Archiver walks the pending entries of a queue, resolves each post in
// sequence and records the outcome. Posts are processed one at a time; the
// submission fetcher's rate limiter is respected naturally by the single
// sequential caller.
type Archiver struct {
	queues   QueueStore
	errStore ErrorStore
	resolver PostResolver
	recheck  bool
	logger   logger.Interface
}

// NewArchiver creates a new archiver. With recheck, entries previously
// parked as needs-recheck are processed again.
func NewArchiver(
	queues QueueStore,
	errStore ErrorStore,
	resolver PostResolver,
	recheck bool,
	log logger.Interface,
) *Archiver {
	return &Archiver{
		queues:   queues,
		errStore: errStore,
		resolver: resolver,
		recheck:  recheck,
		logger:   log,
	}
}

// RunAll processes every queue in order.
func (a *Archiver) RunAll(ctx context.Context) error {
	for _, q := range domain.Queues() {
		if err := a.Run(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// Run processes all pending entries of one queue. Each entry ends in
// exactly one settled status (or needs-recheck when re-enqueued work fails
// the same way); modeled failures are persisted and the run continues,
// while unmodeled errors halt the run immediately so an unknown failure
// mode is never recorded as a known one.
func (a *Archiver) Run(ctx context.Context, q domain.Queue) error {
	entries, err := a.queues.Pending(ctx, q, a.recheck)
	if err != nil {
		return err
	}

	a.logger.Info("archiving queue", "table", q.Table, "pending", len(entries))

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		a.logger.Info("processing post", "table", q.Table, "id", entry.ID)

		err := a.resolver.Resolve(ctx, entry.ID, q)
		if err == nil {
			if err := a.queues.SetStatus(ctx, q, entry.ID, domain.StatusSuccess); err != nil {
				return err
			}
			if err := a.errStore.Clear(ctx, entry.ID); err != nil {
				return err
			}
			continue
		}

		var archErr *domain.ArchiveError
		if !errors.As(err, &archErr) {
			return fmt.Errorf("post %s: %w", entry.ID, err)
		}

		a.logger.Warn("archival failed",
			"table", q.Table,
			"id", entry.ID,
			"error", archErr.Message(),
			"url", archErr.URL)

		if err := a.queues.SetStatus(ctx, q, entry.ID, archErr.Status()); err != nil {
			return err
		}
		record := domain.ErrorRecord{
			ID:        entry.ID,
			Permalink: entry.Permalink,
			Table:     q.Table,
			Error:     archErr.Message(),
			Link:      archErr.URL,
		}
		if err := a.errStore.Upsert(ctx, record); err != nil {
			return err
		}
	}
	return nil
}
