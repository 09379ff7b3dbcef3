// Package classifier maps post link URLs to media kinds through an ordered
// rule table. Order encodes precedence: a login-walled host must win over
// the generic image-extension fallback, and the playlist pattern must win
// over the plain video-host pattern.
package classifier

import "regexp"

// Kind is the classified media category of a link.
type Kind int

const (
	// KindUnrecognized means no rule matched.
	KindUnrecognized Kind = iota
	// KindLoginWalled marks sources that require an authenticated session.
	KindLoginWalled
	// KindImgur marks imgur links of any sub-form.
	KindImgur
	// KindRedditImage marks reddit-hosted single images.
	KindRedditImage
	// KindRedditGallery marks reddit gallery posts.
	KindRedditGallery
	// KindPlaylist marks video playlist links.
	KindPlaylist
	// KindVideo marks plain video-host links.
	KindVideo
	// KindDirectImage marks direct image links with a known extension.
	KindDirectImage
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLoginWalled:
		return "login-walled"
	case KindImgur:
		return "imgur"
	case KindRedditImage:
		return "reddit image"
	case KindRedditGallery:
		return "reddit gallery"
	case KindPlaylist:
		return "playlist"
	case KindVideo:
		return "video"
	case KindDirectImage:
		return "direct image"
	default:
		return "unrecognized"
	}
}

// Classification is the result of classifying a link.
type Classification struct {
	Kind Kind
	// Ext is the image file extension when the rule implies one.
	Ext string
}

type rule struct {
	kind    Kind
	pattern *regexp.Regexp
	ext     string
}

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{KindLoginWalled, regexp.MustCompile(`pixiv\.net|i\.pximg\.net`), ""},
	{KindImgur, regexp.MustCompile(`imgur\.com`), ""},
	{KindRedditImage, regexp.MustCompile(`i\.redd\.it`), ""},
	{KindRedditGallery, regexp.MustCompile(`reddit\.com/gallery/`), ""},
	{KindPlaylist, regexp.MustCompile(`youtube\.com/watch\?.*list=\w.*`), ""},
	{KindVideo, regexp.MustCompile(`v\.redd\.it|youtube\.com|youtu\.be|gfycat\.com|streamable\.com`), ""},
	{KindDirectImage, regexp.MustCompile(`image\.myanimelist\.net|pbs\.twimg\.com`), "jpg"},
}

// imageExt is the last-resort fallback for direct image links.
var imageExt = regexp.MustCompile(`\.(jpg|png|jpeg|gif)(?:\?.*)?$`)

// Classify maps a link to its media kind. It is deterministic and total:
// every link classifies to exactly one kind, falling through to
// KindUnrecognized when nothing matches.
func Classify(link string) Classification {
	for _, r := range rules {
		if r.pattern.MatchString(link) {
			return Classification{Kind: r.kind, Ext: r.ext}
		}
	}
	if m := imageExt.FindStringSubmatch(link); m != nil {
		return Classification{Kind: KindDirectImage, Ext: m[1]}
	}
	return Classification{Kind: KindUnrecognized}
}
