// Package config loads service settings from an optional YAML file and
// environment variables. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when an explicitly named file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	Translator TranslatorConfig `yaml:"translator"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	StaticDir    string        `yaml:"static_dir"`
	CORSOrigins  string        `yaml:"cors_origins"` // comma separated, "*" for any
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type ScraperConfig struct {
	SiteMarker     string        `yaml:"site_marker"`
	PageParam      string        `yaml:"page_param"`
	MaxPages       int           `yaml:"max_pages"`
	MaxAttempts    int           `yaml:"max_attempts"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	DialTimeout    time.Duration `yaml:"dial_timeout"`
	BackoffBase    time.Duration `yaml:"backoff_base"`
	PageDelay      time.Duration `yaml:"page_delay"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
	MinTitles      int           `yaml:"min_titles"`
}

type TranslatorConfig struct {
	Backend       string        `yaml:"backend"` // deepl, lingva or none
	DeepLAuthKey  string        `yaml:"deepl_auth_key"`
	DeepLBaseURL  string        `yaml:"deepl_base_url"`
	LingvaBaseURL string        `yaml:"lingva_base_url"`
	Timeout       time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewConfig returns the defaults.
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":5002",
			CORSOrigins:  "*",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 7 * time.Minute,
			IdleTimeout:  120 * time.Second,
		},
		Scraper: ScraperConfig{
			SiteMarker:     "ebay",
			PageParam:      "_pgn",
			MaxPages:       4,
			MaxAttempts:    3,
			RequestTimeout: 30 * time.Second,
			DialTimeout:    10 * time.Second,
			BackoffBase:    time.Second,
			PageDelay:      2 * time.Second,
			MaxBodyBytes:   10 << 20,
			MinTitles:      20,
		},
		Translator: TranslatorConfig{
			Backend: "deepl",
			Timeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and then applies environment overrides.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnv("LISTING_ADDR", c.Server.Addr)
	c.Server.StaticDir = getEnv("LISTING_STATIC_DIR", c.Server.StaticDir)
	c.Server.CORSOrigins = getEnv("LISTING_CORS_ORIGINS", c.Server.CORSOrigins)
	c.Scraper.SiteMarker = getEnv("LISTING_SITE_MARKER", c.Scraper.SiteMarker)
	if v := os.Getenv("LISTING_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LISTING_MAX_PAGES: %w", err)
		}
		c.Scraper.MaxPages = n
	}
	c.Translator.Backend = getEnv("TRANSLATOR_BACKEND", c.Translator.Backend)
	c.Translator.DeepLAuthKey = getEnv("DEEPL_AUTH_KEY", c.Translator.DeepLAuthKey)
	c.Translator.DeepLBaseURL = getEnv("DEEPL_BASE_URL", c.Translator.DeepLBaseURL)
	c.Translator.LingvaBaseURL = getEnv("LINGVA_BASE_URL", c.Translator.LingvaBaseURL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Scraper.SiteMarker) == "" {
		errs = append(errs, errors.New("scraper.site_marker must not be empty"))
	}
	if c.Scraper.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("scraper.max_pages must be >= 1, got %d", c.Scraper.MaxPages))
	}
	if c.Scraper.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("scraper.max_attempts must be >= 1, got %d", c.Scraper.MaxAttempts))
	}
	if c.Scraper.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("scraper.max_body_bytes must be positive"))
	}
	// zero disables the write timeout
	if wt, worst := c.Server.WriteTimeout, c.Scraper.WorstCaseScrape(); wt > 0 && wt < worst {
		errs = append(errs, fmt.Errorf("server.write_timeout %s is shorter than the worst-case scrape %s", wt, worst))
	}
	switch strings.ToLower(c.Translator.Backend) {
	case "deepl", "lingva", "none":
	default:
		errs = append(errs, fmt.Errorf("translator.backend must be deepl, lingva or none, got %q", c.Translator.Backend))
	}
	return errors.Join(errs...)
}

// WorstCaseScrape is how long one scrape can take when every attempt on
// every page runs into the request timeout.
func (s ScraperConfig) WorstCaseScrape() time.Duration {
	if s.MaxPages < 1 || s.MaxAttempts < 1 {
		return 0
	}
	var backoff time.Duration
	for a := 0; a < s.MaxAttempts-1; a++ {
		backoff += s.BackoffBase * time.Duration(1<<a)
	}
	perPage := time.Duration(s.MaxAttempts)*s.RequestTimeout + backoff
	return time.Duration(s.MaxPages)*perPage + time.Duration(s.MaxPages-1)*s.PageDelay
}

// Origins splits CORSOrigins into its entries.
func (s ServerConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(s.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
