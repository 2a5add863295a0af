package crawler

import (
	"listing-insights/internal/config"
	"listing-insights/internal/metrics"
	"listing-insights/internal/parser"
	"listing-insights/pkg/logger"
)

// NewScraperFromConfig wires a Scraper with its own HTTP client and
// extractor from the scraper settings.
func NewScraperFromConfig(c config.ScraperConfig, l *logger.Logger, m *metrics.Metrics) *Scraper {
	client := NewHTTPClient(c.RequestTimeout, c.DialTimeout, c.MaxBodyBytes)
	ex := parser.New(l, m)
	if c.MinTitles > 0 {
		ex.MinTitles = c.MinTitles
	}
	return NewScraper(client, ex, Options{
		MaxPages:    c.MaxPages,
		MaxAttempts: c.MaxAttempts,
		BackoffBase: c.BackoffBase,
		PageDelay:   c.PageDelay,
		PageParam:   c.PageParam,
	}, l, m)
}
