// Package analyzer runs the keyword pipeline over a set of listing titles:
// tokenize, rank, then gloss the top keywords.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"listing-insights/internal/keywords"
	"listing-insights/internal/metrics"
	"listing-insights/internal/models"
	"listing-insights/internal/translate"
	"listing-insights/pkg/logger"
)

// Profile is one configuration of the pipeline.
type Profile struct {
	Name           string
	TopN           int
	Stopwords      map[string]struct{}
	SkipList       map[string]struct{}
	Glossary       map[string]string
	Canonical      map[string]struct{}
	Targets        []string
	WithRank       bool
	WithPercentage bool
}

// Batch is the default profile: full stopwords, brand/tech skip list and
// both languages translated.
var Batch = Profile{
	Name:      "batch",
	TopN:      keywords.DefaultTopN,
	Stopwords: keywords.FullStopwords,
	SkipList:  translate.SkipList,
	Glossary:  translate.Glossary,
	Canonical: translate.Canonical,
	Targets:   []string{translate.TargetEnglish, translate.TargetChinese},
}

// DeepL sends every keyword to the backend for Chinese only and keeps the
// list short to save quota.
var DeepL = Profile{
	Name:           "deepl",
	TopN:           20,
	Stopwords:      keywords.BasicStopwords,
	Canonical:      translate.CanonicalBasic,
	Targets:        []string{translate.TargetChinese},
	WithRank:       true,
	WithPercentage: true,
}

// Simple glosses from the small lighting table and translates the rest.
var Simple = Profile{
	Name:           "simple",
	TopN:           keywords.DefaultTopN,
	Stopwords:      keywords.BasicStopwords,
	SkipList:       translate.KeysOf(translate.SimpleGlossary),
	Glossary:       translate.SimpleGlossary,
	Canonical:      translate.CanonicalBasic,
	Targets:        []string{translate.TargetChinese},
	WithRank:       true,
	WithPercentage: true,
}

var profiles = map[string]Profile{
	Batch.Name:  Batch,
	DeepL.Name:  DeepL,
	Simple.Name: Simple,
}

// LookupProfile resolves a profile by name; empty means Batch.
func LookupProfile(name string) (Profile, error) {
	if name == "" {
		return Batch, nil
	}
	p, ok := profiles[strings.ToLower(name)]
	if !ok {
		return Profile{}, fmt.Errorf("unknown analysis profile %q", name)
	}
	return p, nil
}

type Analyzer struct {
	profile Profile
	backend translate.Backend
	log     *logger.Logger
	metrics *metrics.Metrics
}

func New(p Profile, b translate.Backend, l *logger.Logger, m *metrics.Metrics) *Analyzer {
	return &Analyzer{profile: p, backend: b, log: l.With("profile", p.Name), metrics: m}
}

// Analyze counts and glosses the keywords of titles.
func (a *Analyzer) Analyze(ctx context.Context, titles []string) models.Analysis {
	if len(titles) == 0 {
		return models.Analysis{TopKeywords: []models.KeywordStat{}}
	}
	a.log.Infof("analyzing %d titles", len(titles))

	tokens := keywords.NewTokenizer(a.profile.Stopwords).Tokenize(titles)
	counts := keywords.Count(tokens)
	top := keywords.RankCounts(counts, a.profile.TopN)
	a.log.Infof("found %d top keywords, translating", len(top))

	stats := a.enricher().Enrich(ctx, top)
	a.log.Infof("returning %d keywords", len(stats))

	return models.Analysis{
		TotalTitles: len(titles),
		TotalWords:  len(tokens),
		UniqueWords: counts.Len(),
		TopKeywords: stats,
	}
}

func (a *Analyzer) enricher() *translate.Enricher {
	e := translate.NewEnricher(a.backend, a.log, a.metrics)
	e.SkipList = a.profile.SkipList
	e.Glossary = a.profile.Glossary
	e.Canonical = a.profile.Canonical
	e.Targets = a.profile.Targets
	e.WithRank = a.profile.WithRank
	e.WithPercentage = a.profile.WithPercentage
	return e
}
