// Package imgur retrieves imgur-hosted media. The shape of the identifier
// embedded in the link decides the sub-form: a legacy i.stack.imgur.com
// direct file, a gallery id, an album id, or a plain image id.
//
// Imgur converts uploaded GIFs to MP4 and serves both; since GIF playback
// is unreliable, GIF-typed assets are archived as MP4.
package imgur

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/fetch"
	"github.com/jonesrussell/reddit-archiver/internal/logger"
	"github.com/jonesrussell/reddit-archiver/internal/pathutil"
)

// defaultAPIBase is the imgur REST API root.
const defaultAPIBase = "https://api.imgur.com/3"

// Identifier shapes, checked in order. Gallery and album ids would also
// match the plain image pattern, so they come first.
var (
	stackID   = regexp.MustCompile(`i\.stack\.imgur\.com/\w+\.(\w+)`)
	galleryID = regexp.MustCompile(`imgur\.com/gallery/(\w+)`)
	albumID   = regexp.MustCompile(`imgur\.com/a/(\w+)`)
	imageID   = regexp.MustCompile(`imgur\.com/(\w+)(?:\.\w+)?`)
	fileType  = regexp.MustCompile(`\w+/(\w+)`)
)

// Fetcher is the raw fetch capability the client needs.
type Fetcher interface {
	Download(ctx context.Context, url, dest string) error
	GetJSON(ctx context.Context, url string, headers map[string]string, v any) error
}

// Client retrieves imgur links.
type Client struct {
	clientID string
	fetcher  Fetcher
	logger   logger.Interface
	apiBase  string
}

// NewClient creates a new imgur client. clientID authorizes API lookups of
// image and album metadata.
func NewClient(clientID string, fetcher Fetcher, log logger.Interface) *Client {
	return &Client{
		clientID: clientID,
		fetcher:  fetcher,
		logger:   log,
		apiBase:  defaultAPIBase,
	}
}

// asset is a downloadable imgur file resolved through the API.
type asset struct {
	URL string
	Ext string
}

type imageResponse struct {
	Data imageData `json:"data"`
}

type albumResponse struct {
	Data struct {
		Images []imageData `json:"images"`
	} `json:"data"`
}

type imageData struct {
	Link  string `json:"link"`
	Title string `json:"title"`
	Type  string `json:"type"`
	MP4   string `json:"mp4"`
}

// Retrieve archives the given imgur link under dir with the post's base
// name. Legacy and gallery shapes are checked before album and image so
// that their ids are not misread as plain image ids.
func (c *Client) Retrieve(ctx context.Context, link, dir, base string) error {
	if m := stackID.FindStringSubmatch(link); m != nil {
		return c.retrieveStack(ctx, link, dir, base, m[1])
	}
	if m := galleryID.FindStringSubmatch(link); m != nil {
		return c.retrieveGallery(ctx, link, m[1], dir, base)
	}
	if m := albumID.FindStringSubmatch(link); m != nil {
		return c.retrieveAlbum(ctx, m[1], filepath.Join(dir, base))
	}
	if m := imageID.FindStringSubmatch(link); m != nil {
		return c.retrieveImage(ctx, m[1], dir, base)
	}
	// The classifier only routes imgur.com links here, and the image
	// pattern accepts any of them; reaching this is a programming error.
	return fmt.Errorf("imgur link %s matched no identifier shape", link)
}

// retrieveStack downloads a legacy i.stack.imgur.com file directly; these
// links carry their extension and bypass the API.
func (c *Client) retrieveStack(ctx context.Context, link, dir, base, ext string) error {
	url := link
	if !strings.HasPrefix(url, "http") {
		url = "https://" + url
	}
	return c.download(ctx, url, filepath.Join(dir, base+"."+ext))
}

// retrieveGallery handles the ambiguous gallery shape: the id usually
// behaves as either a plain image id or an album id. It is tried first as
// an image and, on a modeled failure, as an album; only when both attempts
// fail that way is the retrieval reported as failed. Unmodeled errors
// propagate untouched so they halt the run instead of being recorded under
// a known status.
func (c *Client) retrieveGallery(ctx context.Context, link, id, dir, base string) error {
	err := c.retrieveImage(ctx, id, dir, base)
	if err == nil {
		return nil
	}
	var archErr *domain.ArchiveError
	if !errors.As(err, &archErr) {
		return err
	}

	err = c.retrieveAlbum(ctx, id, filepath.Join(dir, base))
	if err == nil {
		return nil
	}
	if !errors.As(err, &archErr) {
		return err
	}
	return domain.NewRetrievalError(link, err)
}

// retrieveImage resolves a single image through the API and downloads it.
func (c *Client) retrieveImage(ctx context.Context, id, dir, base string) error {
	a, err := c.imageAsset(ctx, id)
	if err != nil {
		return err
	}
	return c.download(ctx, a.URL, filepath.Join(dir, base+"."+a.Ext))
}

// retrieveAlbum downloads every album member into albumDir, numbered from 1
// and suffixed with the member's title when it has one.
func (c *Client) retrieveAlbum(ctx context.Context, id, albumDir string) error {
	apiURL := fmt.Sprintf("%s/album/%s", c.apiBase, id)
	var resp albumResponse
	if err := c.getJSON(ctx, apiURL, &resp); err != nil {
		return err
	}

	for i, img := range resp.Data.Images {
		a, err := resolveAsset(img)
		if err != nil {
			return fmt.Errorf("album %s: %w", id, err)
		}
		name := fmt.Sprintf("%d", i+1)
		if img.Title != "" {
			name = fmt.Sprintf("%d - %s", i+1, img.Title)
		}
		if err := c.download(ctx, a.URL, filepath.Join(albumDir, name+"."+a.Ext)); err != nil {
			return err
		}
	}
	return nil
}

// imageAsset looks up an image id through the API.
func (c *Client) imageAsset(ctx context.Context, id string) (asset, error) {
	apiURL := fmt.Sprintf("%s/image/%s", c.apiBase, id)
	var resp imageResponse
	if err := c.getJSON(ctx, apiURL, &resp); err != nil {
		return asset{}, err
	}
	return resolveAsset(resp.Data)
}

// resolveAsset picks the download URL and extension for an API image,
// normalizing GIFs to their MP4 rendition.
func resolveAsset(img imageData) (asset, error) {
	m := fileType.FindStringSubmatch(img.Type)
	if m == nil {
		return asset{}, fmt.Errorf("could not resolve file type %q for %s", img.Type, img.Link)
	}
	a := asset{URL: img.Link, Ext: m[1]}
	if a.Ext == "gif" {
		a.Ext = "mp4"
		a.URL = img.MP4
	}
	return a, nil
}

// getJSON calls the imgur API with client authorization.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	headers := map[string]string{"Authorization": "Client-ID " + c.clientID}
	if err := c.fetcher.GetJSON(ctx, url, headers, v); err != nil {
		return c.wrapFetchError(url, err)
	}
	return nil
}

// download fetches a file idempotently, clamping the destination path.
func (c *Client) download(ctx context.Context, url, dest string) error {
	dest = pathutil.ClampPath(dest)
	if fileExists(dest) {
		c.logger.Info("imgur file already archived", "dest", dest)
		return nil
	}
	if err := c.fetcher.Download(ctx, url, dest); err != nil {
		return c.wrapFetchError(url, err)
	}
	return nil
}

// wrapFetchError converts modeled transport failures into the archive error
// taxonomy. Cancellation and anything else unmodeled, like a malformed API
// payload, pass through untouched.
func (c *Client) wrapFetchError(link string, err error) error {
	var statusErr *fetch.StatusError
	if errors.As(err, &statusErr) {
		return domain.NewFetchFailedError(link, statusErr.Code)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr *neturl.Error
	if errors.As(err, &netErr) {
		return domain.NewRetrievalError(link, err)
	}
	return err
}
