package media

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/fetch"
	"github.com/jonesrussell/reddit-archiver/internal/pathutil"
)

// fileExt extracts the extension from a direct image URL.
var fileExt = regexp.MustCompile(`.*\.(\w+)$`)

// mimeExt extracts the subtype of a MIME type (image/png -> png).
var mimeExt = regexp.MustCompile(`\w+/(\w+)`)

// galleryImageURL locates a reddit gallery item by media id and extension.
const galleryImageURL = "https://i.redd.it/%s.%s"

// Image fetches a single image into {dir}/{base}.{ext}. When ext is empty
// it is resolved from the URL suffix; a URL with no usable suffix is
// recorded as unrecognized media, marker file included.
func (s *Saver) Image(ctx context.Context, url, dir, base, ext string) error {
	if ext == "" {
		m := fileExt.FindStringSubmatch(url)
		if m == nil {
			return s.Unrecognized(url, dir, base)
		}
		ext = m[1]
	}

	dest := pathutil.ClampPath(filepath.Join(dir, base+"."+ext))
	if fileExists(dest) {
		s.logger.Info("image already archived", "dest", dest)
		return nil
	}

	if err := s.files.Download(ctx, url, dest); err != nil {
		var statusErr *fetch.StatusError
		if errors.As(err, &statusErr) {
			return domain.NewFetchFailedError(url, statusErr.Code)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return domain.NewRetrievalError(url, err)
	}
	return nil
}

// Gallery fetches every image of a reddit gallery post into a subdirectory
// named after the post, numbering files from 1 in gallery order. The first
// failing item aborts the whole retrieval; the post is retried as a unit.
func (s *Saver) Gallery(ctx context.Context, post *domain.PostMetadata, dir, base string) error {
	sub := filepath.Join(dir, base)
	for i, item := range post.Gallery {
		m := mimeExt.FindStringSubmatch(item.MIME)
		if m == nil {
			// A malformed MIME type is an unmodeled condition; let it halt
			// the run rather than mis-record the post.
			return fmt.Errorf("gallery %s: invalid media type %q for item %s", post.ID, item.MIME, item.MediaID)
		}
		ext := m[1]
		url := fmt.Sprintf(galleryImageURL, item.MediaID, ext)
		if err := s.Image(ctx, url, sub, strconv.Itoa(i+1), ext); err != nil {
			return err
		}
	}
	return nil
}
