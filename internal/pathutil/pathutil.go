// Package pathutil normalizes candidate filesystem names and paths so that
// archived posts can be written to any common filesystem.
package pathutil

import (
	"path/filepath"
	"strings"
)

// MaxPathLen is the maximum length of a resolved destination path.
const MaxPathLen = 256

// replacer substitutes characters that are illegal in file names on at least
// one common filesystem. The substitutes are fixed so that repeated runs
// resolve to the same destination.
var replacer = strings.NewReplacer(
	"<", "[",
	">", "]",
	":", " -",
	`"`, "'",
	"/", "-",
	`\`, "-",
	"|", "--",
	"?", "",
	"*", " ",
)

// Slugify returns title with filesystem-illegal characters substituted and
// trailing dots removed. It is pure and idempotent.
func Slugify(title string) string {
	s := replacer.Replace(title)
	return strings.TrimRight(s, ".")
}

// ClampPath truncates the file stem of path so that the resolved absolute
// path fits within MaxPathLen. The extension is never truncated; truncation
// removes characters from the end of the stem.
func ClampPath(path string) string {
	return clampPath(path, MaxPathLen)
}

func clampPath(path string, maxLen int) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	excess := len(abs) - maxLen
	if excess <= 0 {
		return path
	}

	dir, file := filepath.Split(path)
	ext := filepath.Ext(file)
	stem := strings.TrimSuffix(file, ext)
	if excess >= len(stem) {
		stem = ""
	} else {
		stem = stem[:len(stem)-excess]
	}
	return filepath.Join(dir, stem+ext)
}
