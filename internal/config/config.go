// Package config holds all lessonlab configuration. Settings come from a
// YAML file with environment-variable overrides on top; a .env file in the
// working directory is loaded first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all lessonlab configuration.
type Config struct {
	Crawl   CrawlConfig   `yaml:"crawl"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// CrawlConfig configures category discovery and fetching.
type CrawlConfig struct {
	BaseURL     string `yaml:"base_url"`
	Category    string `yaml:"category"`   // category page title, e.g. Категория:Животные_по_алфавиту
	NextLabel   string `yaml:"next_label"` // anchor text of the pagination link
	UserAgent   string `yaml:"user_agent"`
	Concurrency int    `yaml:"concurrency"`
	Timeout     string `yaml:"timeout"` // per-request timeout, Go duration string
	MaxPages    int    `yaml:"max_pages"`
}

// OutputConfig configures where results land.
type OutputConfig struct {
	CSVPath     string `yaml:"csv_path"`
	HistoryPath string `yaml:"history_path"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no file exists. The
// defaults target the Russian Wikipedia's alphabetical animal category,
// the dataset the tool was written for.
func DefaultConfig() *Config {
	return &Config{
		Crawl: CrawlConfig{
			BaseURL:     "https://ru.wikipedia.org",
			Category:    "Категория:Животные_по_алфавиту",
			NextLabel:   "Следующая страница",
			Concurrency: 8,
			Timeout:     "30s",
		},
		Output: OutputConfig{
			CSVPath:     "beasts.csv",
			HistoryPath: ".lessonlab/census.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// StartURL builds the first category page URL.
func (c *Config) StartURL() string {
	return c.Crawl.BaseURL + "/w/index.php?title=" + c.Crawl.Category
}

// RequestTimeout parses the configured per-request timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Crawl.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid crawl timeout %q: %w", c.Crawl.Timeout, err)
	}
	return d, nil
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist, then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets the environment win over the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LESSONLAB_BASE_URL"); v != "" {
		c.Crawl.BaseURL = v
	}
	if v := os.Getenv("LESSONLAB_CATEGORY"); v != "" {
		c.Crawl.Category = v
	}
	if v := os.Getenv("LESSONLAB_USER_AGENT"); v != "" {
		c.Crawl.UserAgent = v
	}
	if v := os.Getenv("LESSONLAB_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Crawl.Concurrency = n
		}
	}
	if v := os.Getenv("LESSONLAB_CSV_PATH"); v != "" {
		c.Output.CSVPath = v
	}
	if v := os.Getenv("LESSONLAB_HISTORY_PATH"); v != "" {
		c.Output.HistoryPath = v
	}
	if v := os.Getenv("LESSONLAB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the settings that would otherwise fail deep inside a
// crawl.
func (c *Config) Validate() error {
	if c.Crawl.BaseURL == "" {
		return fmt.Errorf("crawl.base_url must not be empty")
	}
	if c.Crawl.Category == "" {
		return fmt.Errorf("crawl.category must not be empty")
	}
	if c.Crawl.NextLabel == "" {
		return fmt.Errorf("crawl.next_label must not be empty")
	}
	if c.Crawl.Concurrency < 1 {
		return fmt.Errorf("crawl.concurrency must be at least 1, got %d", c.Crawl.Concurrency)
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}
