package domain

// GalleryItem is one image of a reddit gallery post, in gallery order.
type GalleryItem struct {
	MediaID string
	MIME    string
}

// PostMetadata is the canonical metadata of a submission as returned by the
// reddit API. It is fetched fresh per post and never persisted.
type PostMetadata struct {
	ID        string
	Title     string
	Body      string
	URL       string
	Subreddit string
	IsSelf    bool
	// CrosspostParent is the id of the original submission when this post
	// is a crosspost, without the t3_ type prefix.
	CrosspostParent string
	Gallery         []GalleryItem
}
