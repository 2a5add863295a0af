package translate

import (
	"context"
	"math"
	"sort"
	"strings"

	"listing-insights/internal/metrics"
	"listing-insights/internal/models"
	"listing-insights/pkg/logger"
)

// Enricher turns ranked keyword counts into glossed keyword stats.
type Enricher struct {
	Backend   Backend
	SkipList  map[string]struct{}
	Glossary  map[string]string
	Canonical map[string]struct{}
	// Targets lists the languages sent to the backend. Without TargetEnglish
	// the English gloss is the canonical form of the token.
	Targets        []string
	WithRank       bool
	WithPercentage bool

	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewEnricher(b Backend, l *logger.Logger, m *metrics.Metrics) *Enricher {
	return &Enricher{
		Backend:   b,
		SkipList:  SkipList,
		Glossary:  Glossary,
		Canonical: Canonical,
		Targets:   []string{TargetEnglish, TargetChinese},
		log:       l,
		metrics:   m,
	}
}

// Enrich glosses every keyword and returns them by count, highest first.
// Glossary tokens come before translated ones when counts tie.
func (e *Enricher) Enrich(ctx context.Context, counts []models.KeywordCount) []models.KeywordStat {
	var skipped, pending []models.KeywordCount
	for _, kc := range counts {
		if e.skips(kc.Token) {
			skipped = append(skipped, kc)
		} else {
			pending = append(pending, kc)
		}
	}

	out := make([]models.KeywordStat, 0, len(counts))
	for _, kc := range skipped {
		out = append(out, models.KeywordStat{
			Original: kc.Token,
			Count:    kc.Count,
			English:  e.canonical(kc.Token),
			Chinese:  e.gloss(kc.Token),
		})
	}
	out = append(out, e.translate(ctx, pending)...)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	total := 0
	for _, st := range out {
		total += st.Count
	}
	for i := range out {
		if e.WithRank {
			out[i].Rank = i + 1
		}
		if e.WithPercentage {
			p := Percentage(out[i].Count, total)
			out[i].Percentage = &p
		}
	}
	return out
}

func (e *Enricher) translate(ctx context.Context, pending []models.KeywordCount) []models.KeywordStat {
	if len(pending) == 0 {
		return nil
	}
	tokens := make([]string, len(pending))
	for i, kc := range pending {
		tokens[i] = kc.Token
	}

	english := make([]string, len(tokens))
	for i, tok := range tokens {
		english[i] = e.canonical(tok)
	}
	chinese := tokens

	if e.Backend == nil {
		e.log.Warnf("no translation backend, keeping %d keywords untranslated", len(tokens))
		if e.wants(TargetEnglish) {
			english = tokens
		}
		for _, target := range e.Targets {
			e.metrics.TranslationBatch(target, "unavailable")
		}
	} else {
		for _, target := range e.Targets {
			res := e.batch(ctx, tokens, target)
			switch target {
			case TargetEnglish:
				english = res
			case TargetChinese:
				chinese = res
			}
		}
	}

	out := make([]models.KeywordStat, len(pending))
	for i, kc := range pending {
		out[i] = models.KeywordStat{
			Original: kc.Token,
			Count:    kc.Count,
			English:  english[i],
			Chinese:  chinese[i],
		}
	}
	return out
}

// batch sends tokens as one request. The result always has len(tokens)
// entries: missing ones are the source token, and a failed call yields the
// source tokens unchanged.
func (e *Enricher) batch(ctx context.Context, tokens []string, target string) []string {
	res, err := e.Backend.TranslateBatch(ctx, tokens, target)
	if err != nil {
		e.log.Errorf("batch translation to %s failed: %v", target, err)
		e.metrics.TranslationBatch(target, "error")
		return tokens
	}
	e.metrics.TranslationBatch(target, "ok")

	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok
		if i < len(res) {
			if t := strings.TrimSpace(res[i]); t != "" {
				out[i] = t
			}
		}
	}
	return out
}

func (e *Enricher) wants(target string) bool {
	for _, t := range e.Targets {
		if t == target {
			return true
		}
	}
	return false
}

func (e *Enricher) skips(token string) bool {
	if _, ok := e.SkipList[strings.ToLower(token)]; ok {
		return true
	}
	return isDigits(token)
}

func (e *Enricher) canonical(token string) string {
	if _, ok := e.Canonical[strings.ToLower(token)]; ok {
		return strings.ToUpper(token)
	}
	return token
}

func (e *Enricher) gloss(token string) string {
	if g, ok := e.Glossary[strings.ToLower(token)]; ok {
		return g
	}
	return token
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Percentage is count's share of total, rounded to two decimals. A zero
// total yields 0.
func Percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}
