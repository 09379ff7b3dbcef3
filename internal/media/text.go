package media

import (
	"path/filepath"

	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/pathutil"
)

// Text writes the body of a self post to {dir}/{base}.txt.
func (s *Saver) Text(body, dir, base string) error {
	dest := pathutil.ClampPath(filepath.Join(dir, base+".txt"))
	if fileExists(dest) {
		s.logger.Info("text post already archived", "dest", dest)
		return nil
	}
	return writeFile(dest, []byte(body))
}

// Unrecognized persists the raw URL as a .txt marker file so the skipped
// link can be audited, then reports the unrecognized-media failure. The
// evidence is written first; the post still lands in the triage bucket.
func (s *Saver) Unrecognized(url, dir, base string) error {
	dest := pathutil.ClampPath(filepath.Join(dir, base+".txt"))
	if !fileExists(dest) {
		if err := writeFile(dest, []byte(url)); err != nil {
			return err
		}
	}
	return domain.NewNotMediaError(url)
}
