package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/jonesrussell/reddit-archiver/internal/logger"
)

// Extractor drives the external yt-dlp binary for video and playlist links.
// Container selection and the actual byte transfer are yt-dlp's business;
// the archiver only supplies the output template.
type Extractor struct {
	binary string
	logger logger.Interface
}

// NewExtractor creates a new extractor wrapper. An empty binary falls back
// to yt-dlp on PATH.
func NewExtractor(binary string, log logger.Interface) *Extractor {
	if binary == "" {
		binary = "yt-dlp"
	}
	return &Extractor{binary: binary, logger: log}
}

// Download runs the extractor for url with the given output template.
// trim, when positive, caps the length of generated file names so that
// title-bearing playlist entries stay within the path budget.
func (e *Extractor) Download(ctx context.Context, url, template string, trim int) error {
	args := []string{"--output", template}
	if trim > 0 {
		args = append(args, "--trim-filenames", strconv.Itoa(trim))
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, e.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.logger.Debug("running extractor", "binary", e.binary, "url", url)
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("%s %s: %w: %s", e.binary, url, err, detail)
		}
		return fmt.Errorf("%s %s: %w", e.binary, url, err)
	}
	return nil
}
