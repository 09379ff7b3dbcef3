package domain

import "path/filepath"

// Queue describes one source table of archival work and where its posts are
// written under the data root.
type Queue struct {
	// Table is the queue table name in the export database.
	Table string
	// Direction filters rows on the direction column when non-empty.
	Direction string
	// Subdir is the destination subtree under the data root.
	Subdir string
}

// The queue tables produced by the reddit export import.
var (
	QueueUpvotedPosts = Queue{
		Table:     "post_votes",
		Direction: "up",
		Subdir:    filepath.Join("upvoted", "posts"),
	}
	QueueSavedPosts = Queue{
		Table:  "saved_posts",
		Subdir: filepath.Join("saved", "posts"),
	}
)

// Queues returns all queues in processing order.
func Queues() []Queue {
	return []Queue{QueueSavedPosts, QueueUpvotedPosts}
}

// QueueByName returns the queue whose destination category matches name
// ("saved" or "upvoted").
func QueueByName(name string) (Queue, bool) {
	switch name {
	case "saved":
		return QueueSavedPosts, true
	case "upvoted":
		return QueueUpvotedPosts, true
	default:
		return Queue{}, false
	}
}

// PendingEntry is one row of archival work pulled from a queue table.
type PendingEntry struct {
	ID        string `db:"id"`
	Permalink string `db:"permalink"`
}

// ErrorRecord is one row of the archive_errors table. One row per post id,
// last error wins.
type ErrorRecord struct {
	ID        string `db:"id"`
	Permalink string `db:"permalink"`
	Table     string `db:"table_name"`
	Error     string `db:"error"`
	Link      string `db:"link"`
}
