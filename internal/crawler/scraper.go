package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"listing-insights/internal/metrics"
	"listing-insights/internal/parser"
	"listing-insights/pkg/logger"
)

// ErrBlocked means the request was redirected to an error or bot-check page.
var ErrBlocked = errors.New("redirected to an error or blocked page")

type Options struct {
	MaxPages    int
	MaxAttempts int
	// BackoffBase is multiplied by 2^attempt between retries.
	BackoffBase time.Duration
	// PageDelay separates successful page fetches.
	PageDelay time.Duration
	PageParam string
}

func DefaultOptions() Options {
	return Options{
		MaxPages:    4,
		MaxAttempts: 3,
		BackoffBase: time.Second,
		PageDelay:   2 * time.Second,
		PageParam:   DefaultPageParam,
	}
}

// Scraper walks the pages of one listing sequentially. Instances are cheap
// and meant to be built per run; they share nothing with each other.
type Scraper struct {
	client    *HTTPClient
	extractor *parser.Extractor
	opts      Options
	log       *logger.Logger
	metrics   *metrics.Metrics

	sleep func(ctx context.Context, d time.Duration) error
}

func NewScraper(client *HTTPClient, ex *parser.Extractor, opts Options, l *logger.Logger, m *metrics.Metrics) *Scraper {
	def := DefaultOptions()
	if opts.MaxPages <= 0 {
		opts.MaxPages = def.MaxPages
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.PageParam == "" {
		opts.PageParam = def.PageParam
	}
	return &Scraper{
		client:    client,
		extractor: ex,
		opts:      opts,
		log:       l,
		metrics:   m,
		sleep:     sleepCtx,
	}
}

// FetchTitles scrapes up to MaxPages pages starting at startURL and returns
// the distinct titles in first-seen order together with the number of pages
// that produced at least one title. Failing pages are logged and skipped.
func (s *Scraper) FetchTitles(ctx context.Context, startURL string) ([]string, int) {
	var all []string
	seen := map[string]struct{}{}
	successful := 0

	for page := 1; page <= s.opts.MaxPages; page++ {
		if ctx.Err() != nil {
			s.log.Warnf("scrape interrupted before page %d: %v", page, ctx.Err())
			break
		}
		pageURL, err := PageURL(startURL, page, s.opts.PageParam)
		if err != nil {
			s.log.Errorf("cannot build url for page %d: %v", page, err)
			s.metrics.PageFetch("skipped")
			continue
		}

		s.log.Infof("fetching page %d: %s", page, pageURL)
		body, contentType, err := s.FetchWithRetry(ctx, pageURL)
		if err != nil {
			s.log.Errorf("page %d failed: %v", page, err)
			s.metrics.PageFetch("failed")
			continue
		}

		titles := s.extractor.ExtractTitles(strings.NewReader(body), contentType)
		if len(titles) > 0 {
			s.log.Infof("page %d: %d titles", page, len(titles))
			s.metrics.PageFetch("ok")
			successful++
			for _, t := range titles {
				if _, dup := seen[t]; dup {
					continue
				}
				seen[t] = struct{}{}
				all = append(all, t)
			}
		} else {
			s.log.Warnf("page %d: no titles found", page)
			s.metrics.PageFetch("empty")
		}

		if page < s.opts.MaxPages {
			if err := s.sleep(ctx, s.opts.PageDelay); err != nil {
				break
			}
		}
	}

	s.log.Infof("collected %d unique titles from %d pages", len(all), successful)
	if successful == 0 {
		return nil, 0
	}
	return all, successful
}

// FetchWithRetry fetches url, retrying transient failures with exponential
// backoff. Landing on an error or blocked page counts as a failure.
func (s *Scraper) FetchWithRetry(ctx context.Context, url string) (string, string, error) {
	var lastErr error
	for attempt := 0; attempt < s.opts.MaxAttempts; attempt++ {
		body, contentType, err := s.fetchOnce(ctx, url)
		if err == nil {
			s.metrics.FetchAttempt("ok")
			return body, contentType, nil
		}
		lastErr = err
		if errors.Is(err, ErrBlocked) {
			s.metrics.FetchAttempt("blocked")
		} else {
			s.metrics.FetchAttempt("error")
		}
		s.log.Warnf("attempt %d for %s failed: %v", attempt+1, url, err)

		if attempt < s.opts.MaxAttempts-1 {
			if err := s.sleep(ctx, s.opts.BackoffBase*time.Duration(1<<attempt)); err != nil {
				return "", "", err
			}
		}
	}
	return "", "", fmt.Errorf("fetch %s after %d attempts: %w", url, s.opts.MaxAttempts, lastErr)
}

func (s *Scraper) fetchOnce(ctx context.Context, url string) (string, string, error) {
	rc, finalURL, contentType, elapsed, err := s.client.Fetch(ctx, url)
	if err != nil {
		return "", "", err
	}
	defer rc.Close()

	landed := strings.ToLower(finalURL)
	if strings.Contains(landed, "error") || strings.Contains(landed, "blocked") {
		return "", "", fmt.Errorf("%w: %s", ErrBlocked, finalURL)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}
	s.log.Debugf("fetched %s in %s (%d bytes)", finalURL, elapsed, len(data))
	return string(data), contentType, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
