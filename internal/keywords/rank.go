package keywords

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"listing-insights/internal/models"
)

// DefaultTopN is how many keywords an analysis keeps.
const DefaultTopN = 50

// Count tallies tokens, remembering the order in which each was first seen.
func Count(tokens []string) *orderedmap.OrderedMap[string, int] {
	counts := orderedmap.New[string, int]()
	for _, tok := range tokens {
		n, _ := counts.Get(tok)
		counts.Set(tok, n+1)
	}
	return counts
}

// Rank returns the topN tokens by count, highest first. Equal counts keep
// first-seen order. A negative topN returns every token.
func Rank(tokens []string, topN int) []models.KeywordCount {
	return RankCounts(Count(tokens), topN)
}

// RankCounts ranks counts already tallied by Count.
func RankCounts(counts *orderedmap.OrderedMap[string, int], topN int) []models.KeywordCount {
	out := make([]models.KeywordCount, 0, counts.Len())
	for pair := counts.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, models.KeywordCount{Token: pair.Key, Count: pair.Value})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if topN >= 0 && topN < len(out) {
		out = out[:topN]
	}
	return out
}

// RankKeywords tokenizes titles with the full stopword set and ranks them.
func RankKeywords(titles []string, topN int) []models.KeywordCount {
	return Rank(NewTokenizer(FullStopwords).Tokenize(titles), topN)
}
