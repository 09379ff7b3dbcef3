// Package archive contains the post resolver and the orchestrator that
// drives the archival queues.
package archive

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jonesrussell/reddit-archiver/internal/classifier"
	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/logger"
	"github.com/jonesrussell/reddit-archiver/internal/media"
	"github.com/jonesrussell/reddit-archiver/internal/pathutil"
	"github.com/jonesrussell/reddit-archiver/internal/reddit"
)

// removedBody is reddit's marker for a removed self post.
const removedBody = "[removed]"

// SubmissionFetcher obtains canonical post metadata by id.
type SubmissionFetcher interface {
	Submission(ctx context.Context, id string) (*domain.PostMetadata, error)
}

// ImgurRetriever archives an imgur link.
type ImgurRetriever interface {
	Retrieve(ctx context.Context, link, dir, base string) error
}

// Resolver turns a post id into an archived file on disk, classifying the
// post's link and dispatching to the matching retriever.
type Resolver struct {
	fetcher SubmissionFetcher
	saver   *media.Saver
	imgur   ImgurRetriever
	dataDir string
	logger  logger.Interface
}

// NewResolver creates a new post resolver rooted at dataDir.
func NewResolver(
	fetcher SubmissionFetcher,
	saver *media.Saver,
	imgurClient ImgurRetriever,
	dataDir string,
	log logger.Interface,
) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		saver:   saver,
		imgur:   imgurClient,
		dataDir: dataDir,
		logger:  log,
	}
}

// Resolve archives the post with the given queue id. Failures of a modeled
// kind come back as *domain.ArchiveError; anything else is unexpected and
// propagates as-is.
func (r *Resolver) Resolve(ctx context.Context, id string, queue domain.Queue) error {
	post, err := r.fetcher.Submission(ctx, id)
	if err != nil {
		if errors.Is(err, reddit.ErrForbidden) {
			return domain.NewPrivatePostError()
		}
		return err
	}

	if post.CrosspostParent != "" {
		original, err := r.fetcher.Submission(ctx, post.CrosspostParent)
		switch {
		case err == nil:
			post = original
		case errors.Is(err, reddit.ErrNotFound):
			// The original is gone; archive the crosspost itself.
		case errors.Is(err, reddit.ErrForbidden):
			return domain.NewPrivatePostError()
		default:
			return err
		}
	}

	// The base name keeps the queue id, not the crosspost original's id,
	// so files remain traceable to their queue entry.
	dir := filepath.Join(r.dataDir, queue.Subdir, post.Subreddit)
	base := fmt.Sprintf("[%s] - %s", id, pathutil.Slugify(post.Title))

	if post.IsSelf {
		if post.Body == removedBody {
			return domain.NewDeletedPostError()
		}
		return r.saver.Text(post.Body, dir, base)
	}

	if post.URL == "" {
		return domain.NewMissingLinkError()
	}

	c := classifier.Classify(post.URL)
	r.logger.Debug("classified link", "id", id, "url", post.URL, "kind", c.Kind.String())

	switch c.Kind {
	case classifier.KindLoginWalled:
		return domain.NewLoginRequiredError(post.URL)
	case classifier.KindImgur:
		return r.imgur.Retrieve(ctx, post.URL, dir, base)
	case classifier.KindRedditImage:
		return r.saver.Image(ctx, post.URL, dir, base, "")
	case classifier.KindRedditGallery:
		return r.saver.Gallery(ctx, post, dir, base)
	case classifier.KindPlaylist:
		return r.saver.Playlist(ctx, post.URL, dir, base)
	case classifier.KindVideo:
		return r.saver.Video(ctx, post.URL, dir, base)
	case classifier.KindDirectImage:
		return r.saver.Image(ctx, post.URL, dir, base, c.Ext)
	default:
		return r.saver.Unrecognized(post.URL, dir, base)
	}
}
