// Package translate attaches English and Chinese glosses to ranked keywords,
// from a static glossary or from an external translation service.
package translate

import (
	"context"
	"errors"
	"strings"
	"time"

	"listing-insights/pkg/logger"
)

// Target language codes understood by every backend.
const (
	TargetEnglish = "EN-US"
	TargetChinese = "ZH"
)

var ErrUnavailable = errors.New("translation backend unavailable")

// Backend translates a batch of tokens into target, returning one entry per
// token in the same order. Implementations may return fewer entries than
// they were given; callers pad.
type Backend interface {
	TranslateBatch(ctx context.Context, tokens []string, target string) ([]string, error)
}

type Config struct {
	// Backend is "deepl", "lingva" or "none".
	Backend       string
	DeepLAuthKey  string
	DeepLBaseURL  string
	LingvaBaseURL string
	Timeout       time.Duration
}

// New builds the configured backend. It returns ErrUnavailable when the
// backend is switched off or lacks credentials; callers treat that as
// "glossary only" rather than a fatal error.
func New(cfg Config, l *logger.Logger) (Backend, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "deepl":
		if cfg.DeepLAuthKey == "" {
			return nil, errors.Join(ErrUnavailable, errors.New("deepl auth key not set"))
		}
		l.Infof("translation backend: deepl")
		return NewDeepL(cfg.DeepLAuthKey, cfg.DeepLBaseURL, timeout), nil
	case "lingva":
		l.Infof("translation backend: lingva")
		return NewLingva(cfg.LingvaBaseURL, timeout), nil
	default:
		return nil, ErrUnavailable
	}
}

// batch texts travel as one newline-separated document.
func joinBatch(tokens []string) string { return strings.Join(tokens, "\n") }

func splitBatch(text string) []string { return strings.Split(text, "\n") }
