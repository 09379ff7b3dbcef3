// Package media implements the per-kind retrievers that fetch a classified
// link and persist it under the destination directory. Every retriever is
// idempotent: when the destination already exists the network operation is
// skipped and the call reports success.
package media

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jonesrussell/reddit-archiver/internal/logger"
)

// Downloader retrieves raw bytes from a URL into a destination file.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

// Extractor drives the external media extractor for video links.
type Extractor interface {
	Download(ctx context.Context, url, template string, trim int) error
}

// Saver persists classified links to disk.
type Saver struct {
	files  Downloader
	videos Extractor
	logger logger.Interface
}

// NewSaver creates a new saver.
func NewSaver(files Downloader, videos Extractor, log logger.Interface) *Saver {
	return &Saver{files: files, videos: videos, logger: log}
}

// fileExists reports whether path exists as a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// dirHasEntries reports whether path is a directory with at least one entry.
func dirHasEntries(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) > 0
}

// writeFile writes data to dest through a temporary .part file renamed into
// place, creating parent directories as needed. A crash mid-write never
// leaves a truncated dest behind.
func writeFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	part := dest + ".part"
	if err := os.WriteFile(part, data, 0o644); err != nil {
		return err
	}
	return os.Rename(part, dest)
}
