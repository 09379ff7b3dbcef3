package domain

import "fmt"

// ErrorKind identifies one member of the closed archival failure taxonomy.
type ErrorKind int

const (
	// ErrKindDeletedPost marks a self post whose body was removed.
	ErrKindDeletedPost ErrorKind = iota
	// ErrKindPrivatePost marks a submission fetch denied with 403.
	ErrKindPrivatePost
	// ErrKindMissingLink marks a link post with no URL.
	ErrKindMissingLink
	// ErrKindLoginRequired marks a source that needs an authenticated
	// session the archiver does not implement.
	ErrKindLoginRequired
	// ErrKindRetrieval marks a failed fetch or extractor run.
	ErrKindRetrieval
	// ErrKindNotMedia marks a URL that matched no known media pattern.
	ErrKindNotMedia
)

// ArchiveError is a typed archival failure. The orchestrator matches on it
// exactly once, translating Kind into a persisted status code and Message
// into the archive_errors row. Anything that is not an ArchiveError
// propagates and halts the run.
type ArchiveError struct {
	Kind ErrorKind
	// URL is the offending link, when the failure concerns one.
	URL string
	msg string
	err error
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	s := e.msg
	if e.URL != "" {
		s = fmt.Sprintf("%s: %s", s, e.URL)
	}
	if e.err != nil {
		s = fmt.Sprintf("%s: %v", s, e.err)
	}
	return s
}

// Unwrap returns the underlying cause, if any.
func (e *ArchiveError) Unwrap() error { return e.err }

// Message is the short error text persisted to the archive_errors table.
func (e *ArchiveError) Message() string { return e.msg }

// Status is the archival status code associated with the failure kind.
func (e *ArchiveError) Status() Status {
	if e.Kind == ErrKindNotMedia {
		return StatusNotMedia
	}
	return StatusFailed
}

// NewDeletedPostError reports a self post whose body is the removed-content
// marker.
func NewDeletedPostError() *ArchiveError {
	return &ArchiveError{Kind: ErrKindDeletedPost, msg: "Deleted selftext post"}
}

// NewPrivatePostError reports a submission the API refused to serve.
func NewPrivatePostError() *ArchiveError {
	return &ArchiveError{Kind: ErrKindPrivatePost, msg: "403 - Forbidden post"}
}

// NewMissingLinkError reports a link post without a URL.
func NewMissingLinkError() *ArchiveError {
	return &ArchiveError{Kind: ErrKindMissingLink, msg: "Missing link"}
}

// NewLoginRequiredError reports a login-gated source.
func NewLoginRequiredError(url string) *ArchiveError {
	return &ArchiveError{Kind: ErrKindLoginRequired, URL: url, msg: "Pixiv login required"}
}

// NewFetchFailedError reports a raw fetch that returned a non-success
// status code.
func NewFetchFailedError(url string, code int) *ArchiveError {
	return &ArchiveError{
		Kind: ErrKindRetrieval,
		URL:  url,
		msg:  fmt.Sprintf("%d - Failed to retrieve URL", code),
	}
}

// NewRetrievalError reports a fetch failure without a status code.
func NewRetrievalError(url string, err error) *ArchiveError {
	return &ArchiveError{Kind: ErrKindRetrieval, URL: url, msg: "Failed to retrieve URL", err: err}
}

// NewVideoDownloadError reports a failed media extractor run.
func NewVideoDownloadError(url string, err error) *ArchiveError {
	return &ArchiveError{Kind: ErrKindRetrieval, URL: url, msg: "Failed to download video", err: err}
}

// NewNotMediaError reports a URL that matched no known media pattern.
func NewNotMediaError(url string) *ArchiveError {
	return &ArchiveError{Kind: ErrKindNotMedia, URL: url, msg: "Unrecognised media URL"}
}
