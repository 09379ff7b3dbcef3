package archive_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/reddit-archiver/internal/archive"
	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/logger"
)

// memQueueStore is an in-memory QueueStore.
type memQueueStore struct {
	entries  map[string][]domain.PendingEntry
	statuses map[string]domain.Status
	recheck  bool
}

func newMemQueueStore() *memQueueStore {
	return &memQueueStore{
		entries:  map[string][]domain.PendingEntry{},
		statuses: map[string]domain.Status{},
	}
}

func (s *memQueueStore) Pending(ctx context.Context, q domain.Queue, includeRecheck bool) ([]domain.PendingEntry, error) {
	s.recheck = includeRecheck
	return s.entries[q.Table], nil
}

func (s *memQueueStore) SetStatus(ctx context.Context, q domain.Queue, id string, status domain.Status) error {
	s.statuses[id] = status
	return nil
}

// memErrorStore is an in-memory ErrorStore.
type memErrorStore struct {
	records map[string]domain.ErrorRecord
	cleared []string
}

func newMemErrorStore() *memErrorStore {
	return &memErrorStore{records: map[string]domain.ErrorRecord{}}
}

func (s *memErrorStore) Upsert(ctx context.Context, rec domain.ErrorRecord) error {
	s.records[rec.ID] = rec
	return nil
}

func (s *memErrorStore) Clear(ctx context.Context, id string) error {
	s.cleared = append(s.cleared, id)
	delete(s.records, id)
	return nil
}

// scriptedResolver returns a preset outcome per post id.
type scriptedResolver struct {
	outcomes map[string]error
	resolved []string
}

func (r *scriptedResolver) Resolve(ctx context.Context, id string, q domain.Queue) error {
	r.resolved = append(r.resolved, id)
	return r.outcomes[id]
}

func TestArchiverRun(t *testing.T) {
	ctx := context.Background()

	t.Run("every entry settles in exactly one status", func(t *testing.T) {
		queues := newMemQueueStore()
		queues.entries["saved_posts"] = []domain.PendingEntry{
			{ID: "ok1", Permalink: "/p/ok1"},
			{ID: "del2", Permalink: "/p/del2"},
			{ID: "odd3", Permalink: "/p/odd3"},
		}
		errStore := newMemErrorStore()
		resolver := &scriptedResolver{outcomes: map[string]error{
			"ok1":  nil,
			"del2": domain.NewDeletedPostError(),
			"odd3": domain.NewNotMediaError("https://example.com/page"),
		}}

		a := archive.NewArchiver(queues, errStore, resolver, false, logger.NewNoOp())
		require.NoError(t, a.Run(ctx, domain.QueueSavedPosts))

		assert.Equal(t, domain.StatusSuccess, queues.statuses["ok1"])
		assert.Equal(t, domain.StatusFailed, queues.statuses["del2"])
		assert.Equal(t, domain.StatusNotMedia, queues.statuses["odd3"])
	})

	t.Run("success clears any stale error row", func(t *testing.T) {
		queues := newMemQueueStore()
		queues.entries["saved_posts"] = []domain.PendingEntry{{ID: "ok1", Permalink: "/p/ok1"}}
		errStore := newMemErrorStore()
		errStore.records["ok1"] = domain.ErrorRecord{ID: "ok1", Error: "Missing link"}
		resolver := &scriptedResolver{outcomes: map[string]error{"ok1": nil}}

		a := archive.NewArchiver(queues, errStore, resolver, false, logger.NewNoOp())
		require.NoError(t, a.Run(ctx, domain.QueueSavedPosts))

		assert.Empty(t, errStore.records)
		assert.Equal(t, []string{"ok1"}, errStore.cleared)
	})

	t.Run("failure records the error row", func(t *testing.T) {
		queues := newMemQueueStore()
		queues.entries["post_votes"] = []domain.PendingEntry{{ID: "bad1", Permalink: "/p/bad1"}}
		errStore := newMemErrorStore()
		resolver := &scriptedResolver{outcomes: map[string]error{
			"bad1": domain.NewFetchFailedError("https://example.com/a.jpg", 404),
		}}

		a := archive.NewArchiver(queues, errStore, resolver, false, logger.NewNoOp())
		require.NoError(t, a.Run(ctx, domain.QueueUpvotedPosts))

		rec := errStore.records["bad1"]
		assert.Equal(t, "/p/bad1", rec.Permalink)
		assert.Equal(t, "post_votes", rec.Table)
		assert.Equal(t, "404 - Failed to retrieve URL", rec.Error)
		assert.Equal(t, "https://example.com/a.jpg", rec.Link)
	})

	t.Run("unmodeled error halts the run before later entries", func(t *testing.T) {
		queues := newMemQueueStore()
		queues.entries["saved_posts"] = []domain.PendingEntry{
			{ID: "boom1"},
			{ID: "never2"},
		}
		errStore := newMemErrorStore()
		cause := errors.New("database is on fire")
		resolver := &scriptedResolver{outcomes: map[string]error{"boom1": cause}}

		a := archive.NewArchiver(queues, errStore, resolver, false, logger.NewNoOp())
		err := a.Run(ctx, domain.QueueSavedPosts)

		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, []string{"boom1"}, resolver.resolved)
		// The halted entry keeps its pending status and gets no error row.
		assert.NotContains(t, queues.statuses, "boom1")
		assert.Empty(t, errStore.records)
	})

	t.Run("cancellation stops between entries", func(t *testing.T) {
		queues := newMemQueueStore()
		queues.entries["saved_posts"] = []domain.PendingEntry{{ID: "a"}, {ID: "b"}}
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		a := archive.NewArchiver(queues, newMemErrorStore(), &scriptedResolver{}, false, logger.NewNoOp())
		err := a.Run(cancelled, domain.QueueSavedPosts)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("recheck flag reaches the store", func(t *testing.T) {
		queues := newMemQueueStore()
		a := archive.NewArchiver(queues, newMemErrorStore(), &scriptedResolver{}, true, logger.NewNoOp())
		require.NoError(t, a.Run(ctx, domain.QueueSavedPosts))
		assert.True(t, queues.recheck)
	})
}

func TestArchiverRunAll(t *testing.T) {
	queues := newMemQueueStore()
	queues.entries["saved_posts"] = []domain.PendingEntry{{ID: "s1"}}
	queues.entries["post_votes"] = []domain.PendingEntry{{ID: "u1"}}
	resolver := &scriptedResolver{outcomes: map[string]error{}}

	a := archive.NewArchiver(queues, newMemErrorStore(), resolver, false, logger.NewNoOp())
	require.NoError(t, a.RunAll(context.Background()))

	assert.ElementsMatch(t, []string{"s1", "u1"}, resolver.resolved)
	assert.Equal(t, domain.StatusSuccess, queues.statuses["s1"])
	assert.Equal(t, domain.StatusSuccess, queues.statuses["u1"])
}
