// Package reddit implements the submission fetcher: an OAuth script-app
// client for the reddit API, rate limited with an explicit token bucket.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/reddit-archiver/internal/config"
	"github.com/jonesrussell/reddit-archiver/internal/domain"
	"github.com/jonesrussell/reddit-archiver/internal/logger"
)

// ErrNotFound is returned when a submission does not exist.
var ErrNotFound = errors.New("submission not found")

// ErrForbidden is returned when the API refuses to serve a submission.
var ErrForbidden = errors.New("submission access forbidden")

// tokenSlack refreshes the OAuth token slightly before it actually expires.
const tokenSlack = time.Minute

// Client fetches submissions from the reddit API. Every call waits on the
// injected rate limiter, so a sequential caller naturally respects the API's
// rolling call window.
type Client struct {
	cfg     config.RedditConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  logger.Interface

	token       string
	tokenExpiry time.Time
}

// NewClient creates a new reddit API client. The limiter admits
// cfg.RateCalls requests per cfg.RateWindow with a burst of the full window.
func NewClient(cfg config.RedditConfig, timeout time.Duration, log logger.Interface) *Client {
	calls := cfg.RateCalls
	if calls <= 0 {
		calls = 60
	}
	window := cfg.RateWindow
	if window <= 0 {
		window = time.Minute
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(calls)/window.Seconds()), calls),
		logger:  log,
	}
}

// Submission fetches the canonical metadata of a post by id.
func (c *Client) Submission(ctx context.Context, id string) (*domain.PostMetadata, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	if err := c.ensureToken(ctx); err != nil {
		return nil, err
	}

	infoURL := fmt.Sprintf("%s/api/info?id=t3_%s", c.cfg.BaseURL, url.QueryEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch submission %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("submission %s: %w", id, ErrForbidden)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch submission %s: unexpected status %d", id, resp.StatusCode)
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("decode submission %s: %w", id, err)
	}
	if len(l.Data.Children) == 0 {
		return nil, fmt.Errorf("submission %s: %w", id, ErrNotFound)
	}

	return l.Data.Children[0].Data.toMetadata(), nil
}

// ensureToken obtains or refreshes the OAuth token via the script-app
// password grant.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"username":   {c.cfg.Username},
		"password":   {c.cfg.Password},
	}
	tokenURL := c.cfg.AuthURL + "/api/v1/access_token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request access token: unexpected status %d", resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return fmt.Errorf("decode access token: %w", err)
	}
	if tok.AccessToken == "" {
		return errors.New("access token response contained no token")
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenSlack)
	c.logger.Debug("obtained reddit access token", "expires_in", tok.ExpiresIn)
	return nil
}
