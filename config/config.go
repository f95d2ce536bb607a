package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	GitHubToken string

	// Discovery / collection tuning
	EventPages      int // pages of the events API consulted by the precision tier
	PageSize        int // per_page for all listing endpoints
	Workers         int // concurrent repository scans
	RateLimit       int // main API requests per second
	SearchMaxTotal  int // deep-search result cap
	SearchDelaySecs int // deep-search inter-page delay

	// Optional run-history sink
	DatabaseDSN string
}

// NewConfig creates a new Config instance
func NewConfig() *Config {
	return &Config{}
}

// Load loads configuration from environment variables and an optional .env file
func (c *Config) Load() error {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// Read .env file if it exists. SetConfigFile surfaces a missing file
	// as a plain *fs.PathError rather than ConfigFileNotFoundError.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	c.GitHubToken = viper.GetString("GITHUB_TOKEN")
	if c.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN is required")
	}

	// Optional fields with defaults
	c.EventPages = viper.GetInt("GHSTATS_EVENT_PAGES")
	if c.EventPages == 0 {
		c.EventPages = 3 // ~300 events, the API's effective recent window
	}

	c.PageSize = viper.GetInt("GHSTATS_PAGE_SIZE")
	if c.PageSize == 0 {
		c.PageSize = 100 // GitHub's maximum allowed per page
	}

	c.Workers = viper.GetInt("GHSTATS_WORKERS")
	if c.Workers == 0 {
		c.Workers = 4
	}

	c.RateLimit = viper.GetInt("GHSTATS_RATE_LIMIT")
	if c.RateLimit == 0 {
		c.RateLimit = 10
	}

	c.SearchMaxTotal = viper.GetInt("GHSTATS_SEARCH_MAX")
	if c.SearchMaxTotal == 0 {
		c.SearchMaxTotal = 1000 // Search API caps commit discovery at 1000 results
	}

	c.SearchDelaySecs = viper.GetInt("GHSTATS_SEARCH_DELAY")
	if c.SearchDelaySecs == 0 {
		c.SearchDelaySecs = 2
	}

	c.DatabaseDSN = viper.GetString("GHSTATS_DB_DSN")

	return nil
}
