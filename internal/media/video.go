package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/pathutil"
)

// playlistNameSlack reserves room in the per-file budget for the extractor's
// index prefix and extension suffix.
const playlistNameSlack = 10

// Video hands a video link to the extractor, which picks the container.
// The output template is derived from {dir}/{base}.mp4; an existing mp4 at
// that path marks the post as already archived.
func (s *Saver) Video(ctx context.Context, url, dir, base string) error {
	full := pathutil.ClampPath(filepath.Join(dir, base+".mp4"))
	if fileExists(full) {
		s.logger.Info("video already archived", "dest", full)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.NewRetrievalError(url, err)
	}

	template := strings.TrimSuffix(full, ".mp4") + ".%(ext)s"
	if err := s.videos.Download(ctx, url, template, 0); err != nil {
		return domain.NewVideoDownloadError(url, err)
	}
	return nil
}

// Playlist fetches a video playlist into a subdirectory named after the
// post, one numbered, title-suffixed file per entry. The per-file name
// budget is precomputed so that generated names never push the total path
// past the maximum.
func (s *Saver) Playlist(ctx context.Context, url, dir, base string) error {
	sub := filepath.Join(dir, base)
	if dirHasEntries(sub) {
		s.logger.Info("playlist already archived", "dest", sub)
		return nil
	}

	// The path maximum applies to resolved paths, so the per-file budget is
	// measured from the absolute directory.
	abs, err := filepath.Abs(sub)
	if err != nil {
		return domain.NewRetrievalError(url, err)
	}
	trim := pathutil.MaxPathLen - len(abs) - playlistNameSlack
	template := filepath.Join(sub, "%(playlist_index)s - %(title)s.%(ext)s")
	if err := s.videos.Download(ctx, url, template, trim); err != nil {
		return domain.NewVideoDownloadError(url, err)
	}
	return nil
}
