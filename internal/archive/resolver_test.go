package archive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/reddit-archiver/internal/archive"
	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/logger"
	"github.com/jonesrussell/reddit-archiver/internal/media"
	"github.com/jonesrussell/reddit-archiver/internal/reddit"
)

// fakeFetcher serves canned submissions by id.
type fakeFetcher struct {
	posts map[string]*domain.PostMetadata
	errs  map[string]error
}

func (f *fakeFetcher) Submission(ctx context.Context, id string) (*domain.PostMetadata, error) {
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	post, ok := f.posts[id]
	if !ok {
		return nil, reddit.ErrNotFound
	}
	return post, nil
}

// fakeImgur records imgur retrievals.
type fakeImgur struct {
	links []string
	dirs  []string
	bases []string
}

func (f *fakeImgur) Retrieve(ctx context.Context, link, dir, base string) error {
	f.links = append(f.links, link)
	f.dirs = append(f.dirs, dir)
	f.bases = append(f.bases, base)
	return nil
}

// fakeDownloader writes a stub file at dest.
type fakeDownloader struct {
	urls []string
}

func (f *fakeDownloader) Download(ctx context.Context, url, dest string) error {
	f.urls = append(f.urls, url)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("data"), 0o644)
}

// fakeExtractor records extractor runs.
type fakeExtractor struct {
	urls []string
}

func (f *fakeExtractor) Download(ctx context.Context, url, template string, trim int) error {
	f.urls = append(f.urls, url)
	return nil
}

type resolverFixture struct {
	resolver *archive.Resolver
	fetcher  *fakeFetcher
	imgur    *fakeImgur
	files    *fakeDownloader
	videos   *fakeExtractor
	dataDir  string
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	fx := &resolverFixture{
		fetcher: &fakeFetcher{posts: map[string]*domain.PostMetadata{}, errs: map[string]error{}},
		imgur:   &fakeImgur{},
		files:   &fakeDownloader{},
		videos:  &fakeExtractor{},
		dataDir: t.TempDir(),
	}
	saver := media.NewSaver(fx.files, fx.videos, logger.NewNoOp())
	fx.resolver = archive.NewResolver(fx.fetcher, saver, fx.imgur, fx.dataDir, logger.NewNoOp())
	return fx
}

func TestResolveSelfPost(t *testing.T) {
	ctx := context.Background()

	t.Run("body saved under subreddit with id and slug", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID:        "abc123",
			Title:     "note: a/b",
			Body:      "hello world",
			Subreddit: "golang",
			IsSelf:    true,
		}

		require.NoError(t, fx.resolver.Resolve(ctx, "abc123", domain.QueueSavedPosts))

		dest := filepath.Join(fx.dataDir, "saved", "posts", "golang", "[abc123] - note - a-b.txt")
		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "hello world", string(data))
	})

	t.Run("removed body is a deleted post", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID: "abc123", Title: "t", Body: "[removed]", Subreddit: "golang", IsSelf: true,
		}

		err := fx.resolver.Resolve(ctx, "abc123", domain.QueueSavedPosts)

		var archErr *domain.ArchiveError
		require.ErrorAs(t, err, &archErr)
		assert.Equal(t, "Deleted selftext post", archErr.Message())
	})
}

func TestResolveLinkPost(t *testing.T) {
	ctx := context.Background()

	t.Run("empty url is a missing link", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID: "abc123", Title: "t", Subreddit: "pics",
		}

		err := fx.resolver.Resolve(ctx, "abc123", domain.QueueSavedPosts)

		var archErr *domain.ArchiveError
		require.ErrorAs(t, err, &archErr)
		assert.Equal(t, "Missing link", archErr.Message())
	})

	t.Run("imgur link goes to the imgur retriever", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID: "abc123", Title: "cat", Subreddit: "pics", URL: "https://imgur.com/a/xyz",
		}

		require.NoError(t, fx.resolver.Resolve(ctx, "abc123", domain.QueueUpvotedPosts))
		require.Len(t, fx.imgur.links, 1)
		assert.Equal(t, "https://imgur.com/a/xyz", fx.imgur.links[0])
		assert.Equal(t, filepath.Join(fx.dataDir, "upvoted", "posts", "pics"), fx.imgur.dirs[0])
		assert.Equal(t, "[abc123] - cat", fx.imgur.bases[0])
	})

	t.Run("direct image is downloaded", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID: "abc123", Title: "cat", Subreddit: "pics", URL: "https://example.com/cat.jpg",
		}

		require.NoError(t, fx.resolver.Resolve(ctx, "abc123", domain.QueueSavedPosts))
		assert.Equal(t, []string{"https://example.com/cat.jpg"}, fx.files.urls)
		assert.FileExists(t, filepath.Join(fx.dataDir, "saved", "posts", "pics", "[abc123] - cat.jpg"))
	})

	t.Run("video host goes to the extractor", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID: "abc123", Title: "clip", Subreddit: "videos", URL: "https://v.redd.it/xyz",
		}

		require.NoError(t, fx.resolver.Resolve(ctx, "abc123", domain.QueueSavedPosts))
		assert.Equal(t, []string{"https://v.redd.it/xyz"}, fx.videos.urls)
	})

	t.Run("login-walled host fails without fetching", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID: "abc123", Title: "art", Subreddit: "art", URL: "https://www.pixiv.net/en/artworks/1",
		}

		err := fx.resolver.Resolve(ctx, "abc123", domain.QueueSavedPosts)

		var archErr *domain.ArchiveError
		require.ErrorAs(t, err, &archErr)
		assert.Equal(t, "Pixiv login required", archErr.Message())
		assert.Empty(t, fx.files.urls)
	})

	t.Run("unmatched link leaves a marker and fails as not media", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["abc123"] = &domain.PostMetadata{
			ID: "abc123", Title: "odd", Subreddit: "misc", URL: "https://example.com/page",
		}

		err := fx.resolver.Resolve(ctx, "abc123", domain.QueueSavedPosts)

		var archErr *domain.ArchiveError
		require.ErrorAs(t, err, &archErr)
		assert.Equal(t, domain.StatusNotMedia, archErr.Status())

		marker := filepath.Join(fx.dataDir, "saved", "posts", "misc", "[abc123] - odd.txt")
		data, readErr := os.ReadFile(marker)
		require.NoError(t, readErr)
		assert.Equal(t, "https://example.com/page", string(data))
	})
}

func TestResolveForbidden(t *testing.T) {
	fx := newResolverFixture(t)
	fx.fetcher.errs["abc123"] = reddit.ErrForbidden

	err := fx.resolver.Resolve(context.Background(), "abc123", domain.QueueSavedPosts)

	var archErr *domain.ArchiveError
	require.ErrorAs(t, err, &archErr)
	assert.Equal(t, "403 - Forbidden post", archErr.Message())
}

func TestResolveCrosspost(t *testing.T) {
	ctx := context.Background()

	t.Run("original content saved under the queue id", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["xpost1"] = &domain.PostMetadata{
			ID: "xpost1", Title: "repost", Subreddit: "mirror", CrosspostParent: "orig99",
		}
		fx.fetcher.posts["orig99"] = &domain.PostMetadata{
			ID: "orig99", Title: "the original", Subreddit: "source",
			URL: "https://example.com/pic.png",
		}

		require.NoError(t, fx.resolver.Resolve(ctx, "xpost1", domain.QueueSavedPosts))
		assert.FileExists(t, filepath.Join(
			fx.dataDir, "saved", "posts", "source", "[xpost1] - the original.png"))
	})

	t.Run("vanished original falls back to the crosspost", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["xpost1"] = &domain.PostMetadata{
			ID: "xpost1", Title: "repost", Subreddit: "mirror", CrosspostParent: "gone00",
			URL: "https://example.com/pic.png",
		}

		require.NoError(t, fx.resolver.Resolve(ctx, "xpost1", domain.QueueSavedPosts))
		assert.FileExists(t, filepath.Join(
			fx.dataDir, "saved", "posts", "mirror", "[xpost1] - repost.png"))
	})

	t.Run("forbidden original is a private post", func(t *testing.T) {
		fx := newResolverFixture(t)
		fx.fetcher.posts["xpost1"] = &domain.PostMetadata{
			ID: "xpost1", Title: "repost", Subreddit: "mirror", CrosspostParent: "priv11",
		}
		fx.fetcher.errs["priv11"] = reddit.ErrForbidden

		err := fx.resolver.Resolve(ctx, "xpost1", domain.QueueSavedPosts)

		var archErr *domain.ArchiveError
		require.ErrorAs(t, err, &archErr)
		assert.Equal(t, "403 - Forbidden post", archErr.Message())
	})
}

func TestResolveUnexpectedErrorPropagates(t *testing.T) {
	fx := newResolverFixture(t)
	boom := errors.New("transport exploded")
	fx.fetcher.errs["abc123"] = boom

	err := fx.resolver.Resolve(context.Background(), "abc123", domain.QueueSavedPosts)
	require.Error(t, err)

	var archErr *domain.ArchiveError
	assert.False(t, errors.As(err, &archErr))
	assert.ErrorIs(t, err, boom)
}
