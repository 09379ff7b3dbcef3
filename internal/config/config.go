// Package config loads the archiver configuration from the config file and
// environment through viper. Credentials are environment-only and are never
// written to the config file.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultDataDir       = "data"
	defaultDBName        = "data/reddit-export.sqlite"
	defaultLogLevel      = "info"
	defaultUserAgent     = "reddit-archiver (by /u/unknown)"
	defaultRateCalls     = 60
	defaultRateWindow    = time.Minute
	defaultFetchTimeout  = 60 * time.Second
	defaultExtractorBin  = "yt-dlp"
	defaultRedditBaseURL = "https://oauth.reddit.com"
	defaultRedditAuthURL = "https://www.reddit.com"
)

// Config holds all configuration for the archiver.
type Config struct {
	// DataDir is the root of the archive subtrees (saved/, upvoted/).
	DataDir string `mapstructure:"data_dir"`
	// DBPath is the SQLite database produced by the export import.
	DBPath string `mapstructure:"db_path"`

	Log       LogConfig       `mapstructure:"log"`
	Reddit    RedditConfig    `mapstructure:"reddit"`
	Imgur     ImgurConfig     `mapstructure:"imgur"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Extractor ExtractorConfig `mapstructure:"extractor"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// RedditConfig holds reddit API credentials and rate limiting settings.
type RedditConfig struct {
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	UserAgent    string        `mapstructure:"user_agent"`
	BaseURL      string        `mapstructure:"base_url"`
	AuthURL      string        `mapstructure:"auth_url"`
	RateCalls    int           `mapstructure:"rate_calls"`
	RateWindow   time.Duration `mapstructure:"rate_window"`
}

// ImgurConfig holds imgur API settings.
type ImgurConfig struct {
	ClientID string `mapstructure:"client_id"`
}

// FetchConfig holds raw download settings.
type FetchConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// ExtractorConfig holds media extractor settings.
type ExtractorConfig struct {
	// Binary is the yt-dlp executable to invoke.
	Binary string `mapstructure:"binary"`
}

// Load builds the configuration from viper's current state. Viper itself is
// initialized by the root command (config file search path, env overrides).
func Load() (*Config, error) {
	setDefaults()
	bindEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings required for an archive run.
func (c *Config) Validate() error {
	if c.Reddit.ClientID == "" || c.Reddit.ClientSecret == "" {
		return errors.New("reddit client credentials are required (REDDIT_CLIENT_ID, REDDIT_SECRET)")
	}
	if c.Reddit.Username == "" || c.Reddit.Password == "" {
		return errors.New("reddit user credentials are required (REDDIT_USERNAME, REDDIT_USER_PASSWORD)")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("data_dir", defaultDataDir)
	viper.SetDefault("db_path", defaultDBName)
	viper.SetDefault("log.level", defaultLogLevel)
	viper.SetDefault("log.development", false)
	viper.SetDefault("reddit.user_agent", defaultUserAgent)
	viper.SetDefault("reddit.base_url", defaultRedditBaseURL)
	viper.SetDefault("reddit.auth_url", defaultRedditAuthURL)
	viper.SetDefault("reddit.rate_calls", defaultRateCalls)
	viper.SetDefault("reddit.rate_window", defaultRateWindow)
	viper.SetDefault("fetch.timeout", defaultFetchTimeout)
	viper.SetDefault("extractor.binary", defaultExtractorBin)
}

// bindEnv maps the credential environment variables onto config keys. The
// names match the .env layout of the original export tooling.
func bindEnv() {
	_ = viper.BindEnv("reddit.client_id", "REDDIT_CLIENT_ID")
	_ = viper.BindEnv("reddit.client_secret", "REDDIT_SECRET")
	_ = viper.BindEnv("reddit.user_agent", "REDDIT_USER_AGENT")
	_ = viper.BindEnv("reddit.username", "REDDIT_USERNAME")
	_ = viper.BindEnv("reddit.password", "REDDIT_USER_PASSWORD")
	_ = viper.BindEnv("imgur.client_id", "IMGUR_CLIENT_ID")
}
