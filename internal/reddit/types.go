package reddit

import (
	"strings"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
)

// listing mirrors the reddit API's Listing envelope.
type listing struct {
	Data struct {
		Children []struct {
			Data submission `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// submission is the subset of the reddit submission payload the archiver
// needs.
type submission struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Selftext        string `json:"selftext"`
	URL             string `json:"url"`
	Subreddit       string `json:"subreddit"`
	IsSelf          bool   `json:"is_self"`
	CrosspostParent string `json:"crosspost_parent"`

	GalleryData *struct {
		Items []struct {
			MediaID string `json:"media_id"`
		} `json:"items"`
	} `json:"gallery_data"`

	MediaMetadata map[string]struct {
		M string `json:"m"`
	} `json:"media_metadata"`
}

// toMetadata converts the wire payload into the domain model, stripping the
// t3_ type prefix from the crosspost parent and joining gallery items with
// their MIME types in gallery order.
func (s submission) toMetadata() *domain.PostMetadata {
	post := &domain.PostMetadata{
		ID:              s.ID,
		Title:           s.Title,
		Body:            s.Selftext,
		URL:             s.URL,
		Subreddit:       s.Subreddit,
		IsSelf:          s.IsSelf,
		CrosspostParent: strings.TrimPrefix(s.CrosspostParent, "t3_"),
	}

	if s.GalleryData != nil {
		post.Gallery = make([]domain.GalleryItem, 0, len(s.GalleryData.Items))
		for _, item := range s.GalleryData.Items {
			post.Gallery = append(post.Gallery, domain.GalleryItem{
				MediaID: item.MediaID,
				MIME:    s.MediaMetadata[item.MediaID].M,
			})
		}
	}
	return post
}
